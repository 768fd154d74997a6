package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognised by ApplyEnvironmentOverrides
const (
	EnvWinningScore   = "PONG_WINNING_SCORE"
	EnvFriction       = "PONG_FRICTION"
	EnvTickRate       = "PONG_TICK_RATE"
	EnvBallSpeed      = "PONG_BALL_SPEED"
	EnvBallDiameter   = "PONG_BALL_DIAMETER"
	EnvPaddleLength   = "PONG_PADDLE_LENGTH"
	EnvPaddleBorder   = "PONG_PADDLE_BORDER"
	EnvAudioEnabled   = "PONG_AUDIO_ENABLED"
	EnvAudioVolume    = "PONG_AUDIO_VOLUME"
	EnvRenderer       = "PONG_RENDERER"
	EnvSpectatorAddr  = "PONG_SPECTATOR_ADDR"
	EnvSpectatorWrite = "PONG_SPECTATOR_WRITE_TIMEOUT"
)

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are named. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// ApplyEnvironmentOverrides replaces fields of config with any PONG_*
// variables that are set, then validates the result.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("apply environment overrides: %w", ErrInvalidConfig)
	}

	config.Rules.WinningScore = getEnvAsIntOrDefault(EnvWinningScore, config.Rules.WinningScore)
	config.Physics.Friction = getEnvAsFloatOrDefault(EnvFriction, config.Physics.Friction)
	config.Physics.TickRate = getEnvAsIntOrDefault(EnvTickRate, config.Physics.TickRate)
	config.Ball.Speed = getEnvAsFloatOrDefault(EnvBallSpeed, config.Ball.Speed)
	config.Ball.Diameter = getEnvAsIntOrDefault(EnvBallDiameter, config.Ball.Diameter)
	config.Paddle.Length = getEnvAsIntOrDefault(EnvPaddleLength, config.Paddle.Length)
	config.Field.PaddleBorder = getEnvAsIntOrDefault(EnvPaddleBorder, config.Field.PaddleBorder)
	config.Audio.Enabled = getEnvAsBoolOrDefault(EnvAudioEnabled, config.Audio.Enabled)
	config.Audio.Volume = getEnvAsFloatOrDefault(EnvAudioVolume, config.Audio.Volume)
	config.Display.Renderer = getEnvOrDefault(EnvRenderer, config.Display.Renderer)
	config.Spectator.Address = getEnvOrDefault(EnvSpectatorAddr, config.Spectator.Address)

	writeTimeout := time.Duration(config.Spectator.WriteTimeoutMs) * time.Millisecond
	config.Spectator.WriteTimeoutMs = int(getEnvAsDurationOrDefault(EnvSpectatorWrite, writeTimeout) / time.Millisecond)

	return config.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
