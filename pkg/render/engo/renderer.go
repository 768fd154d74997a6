// pkg/render/engo/renderer.go
package engo

import (
	"math/rand/v2"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/render"
)

// shapeEntity is one pooled rectangle or circle
type shapeEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements engine.Renderer on top of engo's render system.
// It must be called from engo's update goroutine.
type EngoRenderer struct {
	renderSystem *common.RenderSystem
	viewport     Viewport
	assets       *AssetManager
	hud          *HUD
	rng          *rand.Rand

	shapes []*shapeEntity
}

var _ engine.Renderer = (*EngoRenderer)(nil)

// NewEngoRenderer creates a new Engo-based renderer
func NewEngoRenderer(rs *common.RenderSystem, viewport Viewport, assets *AssetManager, hud *HUD) *EngoRenderer {
	return &EngoRenderer{
		renderSystem: rs,
		viewport:     viewport,
		assets:       assets,
		hud:          hud,
		rng:          rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Render implements engine.Renderer
func (r *EngoRenderer) Render(state *engine.GameState) {
	if state == nil {
		return
	}

	frame := render.Compose(state, r.rng.IntN)

	for i, s := range frame.Shapes {
		r.updateShape(r.shape(i), s)
	}
	for _, e := range r.shapes[len(frame.Shapes):] {
		e.Hidden = true
	}

	r.hud.Show(frame.Labels)
}

// shape returns pooled entity i, creating entities as needed
func (r *EngoRenderer) shape(i int) *shapeEntity {
	for len(r.shapes) <= i {
		e := &shapeEntity{BasicEntity: ecs.NewBasic()}
		e.RenderComponent = common.RenderComponent{Drawable: r.assets.Rect(), Color: render.White}
		r.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
		r.shapes = append(r.shapes, e)
	}
	return r.shapes[i]
}

func (r *EngoRenderer) updateShape(e *shapeEntity, s render.Shape) {
	if s.Kind == render.KindBall {
		e.Drawable = r.assets.Ball()
	} else {
		e.Drawable = r.assets.Rect()
	}
	e.Color = s.Color
	e.Hidden = false
	e.Position = r.viewport.Point(s.X, s.Y)
	e.Width = r.viewport.Size(s.Width)
	e.Height = r.viewport.Size(s.Height)
}

// Clear hides everything, e.g. while the scene is torn down
func (r *EngoRenderer) Clear() {
	for _, e := range r.shapes {
		e.Hidden = true
	}
	r.hud.Show(nil)
}
