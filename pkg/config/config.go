// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig contains configuration for a pong match
type GameConfig struct {
	Field     FieldConfig     `json:"field"`
	Ball      BallConfig      `json:"ball"`
	Paddle    PaddleConfig    `json:"paddle"`
	Physics   PhysicsConfig   `json:"physics"`
	Rules     GameRules       `json:"rules"`
	Randomise RandomiseConfig `json:"randomise"`
	Controls  ControlsConfig  `json:"controls"`
	Audio     AudioConfig     `json:"audio"`
	Display   DisplayConfig   `json:"display"`
	Spectator SpectatorConfig `json:"spectator"`
}

// FieldConfig describes the playing field
type FieldConfig struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	PaddleBorder int `json:"paddleBorder"`
}

// BallConfig contains the starting ball parameters
type BallConfig struct {
	Diameter   int     `json:"diameter"`
	Speed      float64 `json:"speed"`
	SpawnInset int     `json:"spawnInset"`
}

// PaddleConfig contains the starting paddle parameters
type PaddleConfig struct {
	Length int     `json:"length"`
	Width  int     `json:"width"`
	Mass   int     `json:"mass"`
	Speed  float64 `json:"speed"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Friction float64 `json:"friction"`
	TickRate int     `json:"tickRate"`
}

// GameRules contains game rules configuration
type GameRules struct {
	WinningScore int `json:"winningScore"`
}

// RandomiseConfig bounds the values drawn in randomise mode. Integer ranges
// are half-open: a draw is min + int(r*(max-min)).
type RandomiseConfig struct {
	BorderMin       int     `json:"borderMin"`
	BorderMax       int     `json:"borderMax"`
	SpeedMin        float64 `json:"speedMin"`
	SpeedMax        float64 `json:"speedMax"`
	DiameterMin     int     `json:"diameterMin"`
	DiameterMax     int     `json:"diameterMax"`
	PaddleLengthMin int     `json:"paddleLengthMin"`
	PaddleLengthMax int     `json:"paddleLengthMax"`
}

// ControlsConfig maps raw key names to action names
type ControlsConfig struct {
	Bindings map[string]string `json:"bindings"`
	// HoldTimeoutMs is how long the terminal frontend keeps a key held
	// without a repeat before synthesizing its release.
	HoldTimeoutMs int `json:"holdTimeoutMs"`
}

// AudioConfig contains sound settings
type AudioConfig struct {
	Enabled    bool    `json:"enabled"`
	SampleRate int     `json:"sampleRate"`
	Volume     float64 `json:"volume"`
	WallVolume float64 `json:"wallVolume"`
	Background bool    `json:"background"`
}

// DisplayConfig selects and sizes the frontend
type DisplayConfig struct {
	Renderer string `json:"renderer"`
	Title    string `json:"title"`
	Scale    int    `json:"scale"`
}

// SpectatorConfig contains the read-only spectator server settings
type SpectatorConfig struct {
	Address            string `json:"address"`
	SendBuffer         int    `json:"sendBuffer"`
	WriteTimeoutMs     int    `json:"writeTimeoutMs"`
	BreakerMaxFailures int    `json:"breakerMaxFailures"`
	BreakerTimeoutSec  int    `json:"breakerTimeoutSec"`
	ConnectsPerMinute  int    `json:"connectsPerMinute"` // per remote address; 0 disables the limit
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// start from defaults so partial files only override what they name
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// a key map in the file replaces the default one instead of merging into it
	var named struct {
		Controls struct {
			Bindings map[string]string `json:"bindings"`
		} `json:"controls"`
	}
	if err := json.Unmarshal(data, &named); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if named.Controls.Bindings != nil {
		config.Controls.Bindings = named.Controls.Bindings
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("failed to marshal config: %w", ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Field: FieldConfig{
			Width:        300,
			Height:       300,
			PaddleBorder: 45,
		},
		Ball: BallConfig{
			Diameter:   20,
			Speed:      5,
			SpawnInset: 30,
		},
		Paddle: PaddleConfig{
			Length: 30,
			Width:  2,
			Mass:   42,
			Speed:  10,
		},
		Physics: PhysicsConfig{
			Friction: 0.01,
			TickRate: 60,
		},
		Rules: GameRules{
			WinningScore: 10,
		},
		Randomise: RandomiseConfig{
			BorderMin:       20,
			BorderMax:       95,
			SpeedMin:        2.5,
			SpeedMax:        8.5,
			DiameterMin:     10,
			DiameterMax:     40,
			PaddleLengthMin: 15,
			PaddleLengthMax: 45,
		},
		Controls: ControlsConfig{
			Bindings: map[string]string{
				"w":     "left_up",
				"s":     "left_down",
				"a":     "left_left",
				"d":     "left_right",
				"up":    "right_up",
				"down":  "right_down",
				"left":  "right_left",
				"right": "right_right",
				"r":     "toggle_randomise",
				"n":     "advance",
			},
			HoldTimeoutMs: 500,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			Volume:     0.5,
			WallVolume: 0.1,
			Background: true,
		},
		Display: DisplayConfig{
			Renderer: "engo",
			Title:    "Pong",
			Scale:    2,
		},
		Spectator: SpectatorConfig{
			Address:            "",
			SendBuffer:         8,
			WriteTimeoutMs:     2000,
			BreakerMaxFailures: 3,
			BreakerTimeoutSec:  10,
			ConnectsPerMinute:  30,
		},
	}
}

// Validate checks the configuration for values that would let the
// simulation reach a non-positive size or an empty random range.
func (c *GameConfig) Validate() error {
	var problems []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	check(c.Field.Width > 0 && c.Field.Height > 0, "field size %dx%d must be positive", c.Field.Width, c.Field.Height)
	check(c.Field.PaddleBorder > c.Paddle.Width && c.Field.PaddleBorder < c.Field.Width/2,
		"paddle border %d must lie between the paddle width and half the field", c.Field.PaddleBorder)
	check(c.Ball.Diameter > 0 && c.Ball.Diameter < c.Field.Height, "ball diameter %d out of range", c.Ball.Diameter)
	check(c.Ball.Speed >= 0, "ball speed %v must not be negative", c.Ball.Speed)
	check(c.Ball.SpawnInset >= 0 && c.Ball.SpawnInset < c.Field.Width/2, "spawn inset %d out of range", c.Ball.SpawnInset)
	check(c.Paddle.Length > 0 && c.Paddle.Length < c.Field.Height, "paddle length %d out of range", c.Paddle.Length)
	check(c.Paddle.Width > 0, "paddle width %d must be positive", c.Paddle.Width)
	check(c.Paddle.Mass > 0, "paddle mass %d must be positive", c.Paddle.Mass)
	check(c.Paddle.Speed >= 0, "paddle speed %v must not be negative", c.Paddle.Speed)
	check(c.Physics.Friction >= 0, "friction %v must not be negative", c.Physics.Friction)
	check(c.Physics.TickRate > 0, "tick rate %d must be positive", c.Physics.TickRate)
	check(c.Rules.WinningScore > 0, "winning score %d must be positive", c.Rules.WinningScore)

	r := c.Randomise
	check(r.BorderMin > c.Paddle.Width && r.BorderMin < r.BorderMax && r.BorderMax <= c.Field.Width/2,
		"randomised border range [%d,%d) out of range", r.BorderMin, r.BorderMax)
	check(r.SpeedMin >= 0 && r.SpeedMin <= r.SpeedMax, "randomised speed range [%v,%v) out of range", r.SpeedMin, r.SpeedMax)
	check(r.DiameterMin > 0 && r.DiameterMin < r.DiameterMax && r.DiameterMax <= c.Field.Height,
		"randomised diameter range [%d,%d) out of range", r.DiameterMin, r.DiameterMax)
	check(r.PaddleLengthMin > 0 && r.PaddleLengthMin < r.PaddleLengthMax && r.PaddleLengthMax <= c.Field.Height,
		"randomised paddle length range [%d,%d) out of range", r.PaddleLengthMin, r.PaddleLengthMax)

	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio volume %v must be in [0,1]", c.Audio.Volume)
	check(c.Audio.WallVolume >= 0 && c.Audio.WallVolume <= 1, "wall volume %v must be in [0,1]", c.Audio.WallVolume)
	check(!c.Audio.Enabled || c.Audio.SampleRate > 0, "sample rate %d must be positive", c.Audio.SampleRate)
	check(c.Display.Scale > 0, "display scale %d must be positive", c.Display.Scale)
	check(c.Spectator.SendBuffer > 0, "spectator send buffer %d must be positive", c.Spectator.SendBuffer)
	check(c.Spectator.ConnectsPerMinute >= 0, "spectator connect limit %d must not be negative", c.Spectator.ConnectsPerMinute)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
}
