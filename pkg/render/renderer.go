// Package render holds the frontends that draw game snapshots: a headless
// renderer that only logs, a tcell terminal renderer and, in render/engo,
// a windowed one. All of them draw from the same Frame layout.
package render

import (
	"context"
	"sync/atomic"

	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/logging"
)

// NullRenderer is a headless engine.Renderer
type NullRenderer struct {
	logger *logging.Logger
	frames atomic.Uint64
	last   atomic.Int32
}

var _ engine.Renderer = (*NullRenderer)(nil)

// NewNullRenderer creates a new NullRenderer with structured logging
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	r := &NullRenderer{logger: logger.WithComponent("render")}
	r.last.Store(-1)
	return r
}

// Render implements engine.Renderer. Phase changes are logged at Info,
// every other frame at Debug.
func (d *NullRenderer) Render(state *engine.GameState) {
	ctx := context.Background()
	if state == nil {
		d.logger.Debug(ctx, "Render called with nil state")
		return
	}
	d.frames.Add(1)

	if prev := d.last.Swap(int32(state.Phase)); prev != int32(state.Phase) {
		d.logger.Info(ctx, "frame phase",
			"tick", state.Tick,
			"phase", state.Phase.String(),
			"left_score", state.LeftScore,
			"right_score", state.RightScore,
		)
		return
	}

	d.logger.Debug(ctx, "frame",
		"tick", state.Tick,
		"ball_x", state.Ball.PX,
		"ball_y", state.Ball.PY,
	)
}

// Frames returns how many snapshots have been rendered
func (d *NullRenderer) Frames() uint64 {
	return d.frames.Load()
}

// Fanout renders every snapshot to each of its renderers in order.
type Fanout []engine.Renderer

// Multi combines renderers, skipping nil ones. A single renderer is
// returned unwrapped.
func Multi(renderers ...engine.Renderer) engine.Renderer {
	var out Fanout
	for _, r := range renderers {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Render implements engine.Renderer
func (f Fanout) Render(state *engine.GameState) {
	for _, r := range f {
		r.Render(state)
	}
}
