package render

import (
	"math/rand/v2"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-pong/pkg/engine"
)

// TerminalRenderer draws frames onto a tcell screen, scaling the field to
// whatever size the terminal has.
type TerminalRenderer struct {
	mu     sync.Mutex
	screen tcell.Screen
	width  int
	height int
	rng    *rand.Rand
}

var _ engine.Renderer = (*TerminalRenderer)(nil)

// NewTerminalRenderer creates a renderer on an initialised screen
func NewTerminalRenderer(screen tcell.Screen, rng *rand.Rand) *TerminalRenderer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		width:  w,
		height: h,
		rng:    rng,
	}
}

// Resize picks up a new terminal size
func (r *TerminalRenderer) Resize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.screen.Sync()
	r.width, r.height = r.screen.Size()
}

// Render implements engine.Renderer
func (r *TerminalRenderer) Render(state *engine.GameState) {
	if state == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	frame := Compose(state, r.rng.IntN)
	r.screen.Clear()
	if r.width <= 0 || r.height <= 0 || frame.Width <= 0 || frame.Height <= 0 {
		r.screen.Show()
		return
	}

	for _, s := range frame.Shapes {
		r.drawShape(frame, s)
	}
	for _, l := range frame.Labels {
		r.drawLabel(frame, l)
	}
	r.screen.Show()
}

// worldToScreen converts field coordinates to a terminal cell
func (r *TerminalRenderer) worldToScreen(f Frame, x, y int) (int, int) {
	return x * r.width / f.Width, y * r.height / f.Height
}

func (r *TerminalRenderer) drawShape(f Frame, s Shape) {
	x0, y0 := r.worldToScreen(f, s.X, s.Y)
	x1, y1 := r.worldToScreen(f, s.X+s.Width, s.Y+s.Height)
	// anything on the field covers at least one cell
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}

	glyph := '█'
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(s.Color.R), int32(s.Color.G), int32(s.Color.B)))
	switch s.Kind {
	case KindLine:
		glyph = '│'
		style = style.Dim(true)
	case KindBall:
		glyph = '●'
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r.set(x, y, glyph, style)
		}
	}
}

func (r *TerminalRenderer) drawLabel(f Frame, l Label) {
	x, y := r.worldToScreen(f, l.X, l.Y)
	// text is placed on its baseline; the cell above it reads better
	if y > 0 {
		y--
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(l.Size >= 15)
	for i, ch := range l.Text {
		r.set(x+i, y, ch, style)
	}
}

func (r *TerminalRenderer) set(x, y int, ch rune, style tcell.Style) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}
