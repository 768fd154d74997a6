// pkg/render/engo/hud.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-pong/pkg/logging"
	"github.com/opd-ai/go-pong/pkg/render"
)

// hudZ keeps text above the field
const hudZ = 10

// textEntity is one pooled line of HUD text
type textEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent

	text  string
	size  int
	added bool
}

// HUD draws the scores and overlay messages
type HUD struct {
	renderSystem *common.RenderSystem
	viewport     Viewport
	assets       *AssetManager
	logger       *logging.Logger

	labels []*textEntity
}

// NewHUD creates a HUD drawing through rs
func NewHUD(rs *common.RenderSystem, viewport Viewport, assets *AssetManager, logger *logging.Logger) *HUD {
	return &HUD{
		renderSystem: rs,
		viewport:     viewport,
		assets:       assets,
		logger:       logger,
	}
}

// Show replaces the visible labels. Text textures are only rebuilt when a
// label's text or size changes.
func (hud *HUD) Show(labels []render.Label) {
	for i, l := range labels {
		e := hud.label(i)
		if e.text != l.Text || e.size != l.Size {
			if !hud.setText(e, l) {
				continue
			}
		}
		e.Hidden = false
		e.Color = l.Color
		// labels are placed on their baseline
		e.Position = hud.viewport.Point(l.X, l.Y-l.Size)
	}
	for _, e := range hud.labels[len(labels):] {
		e.Hidden = true
	}
}

func (hud *HUD) label(i int) *textEntity {
	for len(hud.labels) <= i {
		e := &textEntity{BasicEntity: ecs.NewBasic()}
		e.RenderComponent = common.RenderComponent{Hidden: true}
		e.SetZIndex(hudZ)
		hud.labels = append(hud.labels, e)
	}
	return hud.labels[i]
}

func (hud *HUD) setText(e *textEntity, l render.Label) bool {
	font, err := hud.assets.Font(l.Size)
	if err != nil {
		hud.logger.Error(context.Background(), "HUD font unavailable", err, "size", l.Size)
		e.Hidden = true
		return false
	}

	e.Drawable = common.Text{Font: font, Text: l.Text}
	w, h, _ := font.TextDimensions(l.Text)
	e.Width, e.Height = float32(w), float32(h)
	e.text, e.size = l.Text, l.Size

	// the render system picks a shader from the drawable, so text entities
	// join it only once they hold text
	if !e.added {
		hud.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
		e.added = true
	}
	return true
}
