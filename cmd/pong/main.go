// cmd/pong/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-pong/pkg/audio"
	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/health"
	"github.com/opd-ai/go-pong/pkg/input"
	"github.com/opd-ai/go-pong/pkg/logging"
	"github.com/opd-ai/go-pong/pkg/render"
	engorender "github.com/opd-ai/go-pong/pkg/render/engo"
	"github.com/opd-ai/go-pong/pkg/resource"
	"github.com/opd-ai/go-pong/pkg/spectator"
)

const (
	maxTasks        = 8
	shutdownTimeout = 5 * time.Second
	engineStaleness = time.Second
)

type options struct {
	configPath    string
	createDefault bool
	renderer      string
	mute          bool
	spectate      string
	seed          uint64
	logPath       string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "config.json", "Path to configuration file")
	flag.BoolVar(&opts.createDefault, "default", false, "Write the default configuration file and exit")
	flag.StringVar(&opts.renderer, "renderer", "", "Frontend: engo, terminal or null (overrides config)")
	flag.BoolVar(&opts.mute, "mute", false, "Disable audio")
	flag.StringVar(&opts.spectate, "spectate", "", "Serve the spectator feed on this address (overrides config)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Seed for reproducible rounds; 0 picks one from the clock")
	flag.StringVar(&opts.logPath, "log", "pong.log", "Log file used by the terminal frontend")
	flag.Parse()

	ctx := logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID())

	if opts.createDefault {
		logger := logging.NewLogger()
		if err := config.SaveConfig(config.DefaultConfig(), opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", opts.configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", opts.configPath)
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		logging.NewLogger().Error(ctx, "Failed to load configuration", err, "config_path", opts.configPath)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Display.Renderer, opts.logPath)
	if err != nil {
		logging.NewLogger().Error(ctx, "Failed to open log file", err, "log_path", opts.logPath)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.Error(ctx, "pong exited with error", err)
		closeLog()
		fmt.Fprintln(os.Stderr, "pong:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file if present, then applies .env and
// PONG_* overrides and finally the command line.
func loadConfig(opts options) (*config.GameConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if _, err := os.Stat(opts.configPath); err == nil {
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := config.ApplyEnvironmentOverrides(cfg); err != nil {
		return nil, err
	}

	if opts.renderer != "" {
		cfg.Display.Renderer = opts.renderer
	}
	if opts.mute {
		cfg.Audio.Enabled = false
	}
	if opts.spectate != "" {
		cfg.Spectator.Address = opts.spectate
	}
	return cfg, cfg.Validate()
}

// newLogger logs to stdout except for the terminal frontend, which owns
// the screen and logs to a file instead.
func newLogger(renderer, path string) (*logging.Logger, func(), error) {
	if renderer != "terminal" {
		return logging.NewLogger(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return logging.NewLoggerTo(f), func() { f.Close() }, nil
}

func run(ctx context.Context, cfg *config.GameConfig, opts options, logger *logging.Logger) error {
	var game *engine.Game
	if opts.seed != 0 {
		game = engine.NewSeededGame(cfg, opts.seed, logger)
	} else {
		game = engine.NewGame(cfg, nil, logger)
	}

	keys, err := input.KeyMapFromNames(cfg.Controls.Bindings)
	if err != nil {
		return fmt.Errorf("invalid key bindings: %w", err)
	}
	router := input.NewRouter(keys, game)

	sound := audio.NewSoundManager(cfg.Audio, logger)
	if err := sound.Initialize(); err != nil {
		return logging.WrapError(err, "audio unavailable; rerun with -mute")
	}
	defer sound.Close()
	sound.Attach(game.EventBus)
	sound.StartBackground()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := resource.NewSupervisor(ctx, maxTasks, logger)

	checker := health.NewChecker()
	checker.Add(health.NewEngineCheck(game, engineStaleness))
	checker.Add(health.NewAudioCheck(sound))
	checker.Add(resource.NewHealthCheck(sup))

	var feed engine.Renderer
	if cfg.Spectator.Address != "" {
		srv := spectator.NewServer(cfg.Spectator, game, checker, logger)
		if err := srv.Listen(); err != nil {
			return err
		}
		checker.Add(health.NewListenerCheck("spectator", srv.Addr))
		srv.Hub().Attach(game.EventBus)
		feed = srv.Hub()
		if err := sup.Go("spectator", srv.Serve); err != nil {
			return err
		}
	}

	logger.Info(ctx, "starting pong",
		"renderer", cfg.Display.Renderer,
		"audio", !sound.Muted(),
		"spectator", cfg.Spectator.Address,
	)

	switch cfg.Display.Renderer {
	case "terminal":
		err = runTerminal(cfg, game, router, feed, sup, stop, logger)
	case "engo":
		err = runEngo(cfg, game, router, keys, feed, sup, stop, logger)
	case "null":
		err = runHeadless(game, feed, sup, logger)
	default:
		err = fmt.Errorf("unknown renderer %q", cfg.Display.Renderer)
	}
	if err != nil {
		stop()
		sup.Shutdown(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return sup.Shutdown(shutdownCtx)
}

func runTerminal(cfg *config.GameConfig, game *engine.Game, router *input.Router, feed engine.Renderer,
	sup *resource.Supervisor, stop context.CancelFunc, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	view := render.NewTerminalRenderer(screen, nil)
	loop := engine.NewLoop(game, render.Multi(view, feed), nil)
	if err := sup.Go("loop", loop.Run); err != nil {
		return err
	}

	hold := time.Duration(cfg.Controls.HoldTimeoutMs) * time.Millisecond
	keySource := render.NewKeySource(screen, router, hold, view.Resize, logger)
	if err := sup.Go("keys", func(ctx context.Context) error {
		err := keySource.Run(ctx)
		if errors.Is(err, render.ErrQuit) {
			stop()
			return nil
		}
		return err
	}); err != nil {
		return err
	}

	<-sup.Context().Done()
	return nil
}

func runEngo(cfg *config.GameConfig, game *engine.Game, router *input.Router, keys input.KeyMap, feed engine.Renderer,
	sup *resource.Supervisor, stop context.CancelFunc, logger *logging.Logger) error {
	loop := engine.NewLoop(game, render.Multi(feed), nil)
	if err := sup.Go("loop", loop.Run); err != nil {
		return err
	}

	closed := make(chan struct{})
	go func() {
		select {
		case <-sup.Context().Done():
			engo.Exit()
		case <-closed:
		}
	}()

	scene := engorender.NewGameScene(game, router, keys, cfg, logger, stop)
	engorender.Run(scene)
	close(closed)
	stop()
	return nil
}

func runHeadless(game *engine.Game, feed engine.Renderer, sup *resource.Supervisor, logger *logging.Logger) error {
	loop := engine.NewLoop(game, render.Multi(render.NewNullRenderer(logger), feed), nil)
	if err := sup.Go("loop", loop.Run); err != nil {
		return err
	}
	<-sup.Context().Done()
	return nil
}
