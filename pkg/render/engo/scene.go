// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/input"
	"github.com/opd-ai/go-pong/pkg/logging"
)

// SnapshotSource provides the latest committed game state
type SnapshotSource interface {
	GetGameState() *engine.GameState
}

// GameScene represents the main game scene in Engo. The simulation runs on
// its own loop goroutine; the scene only draws the committed snapshots and
// forwards keys.
type GameScene struct {
	source   SnapshotSource
	router   *input.Router
	keys     input.KeyMap
	display  config.DisplayConfig
	field    config.FieldConfig
	viewport Viewport
	logger   *logging.Logger
	onExit   func()

	assets   *AssetManager
	renderer *EngoRenderer
	input    *InputSystem
	hud      *HUD
}

// NewGameScene creates a new game scene. onExit runs when the window closes.
func NewGameScene(source SnapshotSource, router *input.Router, keys input.KeyMap, cfg *config.GameConfig, logger *logging.Logger, onExit func()) *GameScene {
	if logger == nil {
		logger = logging.Discard()
	}
	viewport := NewViewport(cfg.Display.Scale)
	return &GameScene{
		source:   source,
		router:   router,
		keys:     keys,
		display:  cfg.Display,
		field:    cfg.Field,
		viewport: viewport,
		logger:   logger.WithComponent("engo"),
		onExit:   onExit,
		assets:   NewAssetManager(viewport.Scale),
	}
}

// Type returns the scene type (required by Engo)
func (scene *GameScene) Type() string {
	return "PongScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *GameScene) Preload() {
	if err := scene.assets.LoadAssets(); err != nil {
		// the field still renders; only the HUD text is lost
		scene.logger.Error(context.Background(), "asset preload failed", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *GameScene) Setup(u engo.Updater) {
	world, _ := u.(*ecs.World)
	common.SetBackground(color.Black)

	rs := &common.RenderSystem{}
	world.AddSystem(rs)

	scene.hud = NewHUD(rs, scene.viewport, scene.assets, scene.logger)
	scene.renderer = NewEngoRenderer(rs, scene.viewport, scene.assets, scene.hud)

	var unknown []string
	scene.input, unknown = NewInputSystem(scene.router, scene.keys)
	if len(unknown) > 0 {
		scene.logger.Warn(context.Background(), "keys without an engo code are ignored", "keys", unknown)
	}
	scene.input.SetupInputBindings()
	world.AddSystem(scene.input)

	world.AddSystem(&frameSystem{source: scene.source, renderer: scene.renderer})
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *GameScene) Exit() {
	scene.router.ReleaseAll()
	if scene.renderer != nil {
		scene.renderer.Clear()
	}
	if scene.onExit != nil {
		scene.onExit()
	}
}

// RunOptions returns the window options for the scene
func (scene *GameScene) RunOptions() engo.RunOptions {
	w, h := scene.viewport.WindowSize(scene.field.Width, scene.field.Height)
	return engo.RunOptions{
		Title:        scene.display.Title,
		Width:        w,
		Height:       h,
		VSync:        true,
		NotResizable: true,
		FPSLimit:     60,
	}
}

// Run opens the window and blocks until it is closed. It must be called
// from the main goroutine.
func Run(scene *GameScene) {
	engo.Run(scene.RunOptions(), scene)
}

// frameSystem draws the latest snapshot once per engo frame
type frameSystem struct {
	source   SnapshotSource
	renderer *EngoRenderer
}

func (fs *frameSystem) Remove(basic ecs.BasicEntity) {}

func (fs *frameSystem) Update(dt float32) {
	fs.renderer.Render(fs.source.GetGameState())
}
