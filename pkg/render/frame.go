package render

import (
	"image/color"
	"strconv"

	"github.com/opd-ai/go-pong/pkg/engine"
)

// White is used for everything except a ball in randomise mode
var White = color.RGBA{255, 255, 255, 255}

// Palette holds the colours a randomise-mode ball cycles through
var Palette = []color.RGBA{
	{255, 0, 0, 255},   // red
	{255, 200, 0, 255}, // orange
	{255, 255, 0, 255}, // yellow
	{0, 255, 0, 255},   // green
	{0, 0, 255, 255},   // blue
	{64, 64, 64, 255},  // dark grey
	{255, 0, 255, 255}, // magenta
}

// ShapeKind tells a frontend how to draw a Shape
type ShapeKind int

const (
	KindLine ShapeKind = iota
	KindPaddle
	KindBall
)

// Shape is a filled rectangle in field coordinates; balls are drawn as the
// circle inscribed in it.
type Shape struct {
	Kind   ShapeKind
	X, Y   int
	Width  int
	Height int
	Color  color.RGBA
}

// Label is text in field coordinates. Y is the baseline and Size the
// nominal font height.
type Label struct {
	Text  string
	X, Y  int
	Size  int
	Color color.RGBA
}

// Frame is everything visible for one snapshot, independent of frontend
type Frame struct {
	Tick   uint64
	Width  int
	Height int
	Shapes []Shape
	Labels []Label
}

// Picker returns a value in [0, n); it chooses the ball colour per frame
type Picker func(n int) int

// Compose lays out a snapshot. pick may be nil when the ball is never colourful.
func Compose(s *engine.GameState, pick Picker) Frame {
	w, h := s.Field.Width, s.Field.Height
	f := Frame{Tick: s.Tick, Width: w, Height: h}

	if s.ShowBorders() {
		b := s.Field.PaddleBorder
		f.Shapes = append(f.Shapes,
			Shape{Kind: KindLine, X: b, Width: 1, Height: h, Color: White},
			Shape{Kind: KindLine, X: w - b, Width: 1, Height: h, Color: White},
		)
	}
	if s.ShowCenterLine() {
		f.Shapes = append(f.Shapes, Shape{Kind: KindLine, X: w / 2, Width: 1, Height: h, Color: White})
	}
	if s.ShowBall() {
		f.Shapes = append(f.Shapes, Shape{
			Kind:   KindBall,
			X:      s.Ball.PX,
			Y:      s.Ball.PY,
			Width:  s.Ball.Diameter,
			Height: s.Ball.Diameter,
			Color:  ballColor(s, pick),
		})
	}
	if s.ShowLeftPaddle() {
		f.Shapes = append(f.Shapes, paddleShape(s.Left))
	}
	if s.ShowRightPaddle() {
		f.Shapes = append(f.Shapes, paddleShape(s.Right))
	}

	if s.ShowScores() {
		y := int(float64(h) * 0.1)
		f.Labels = append(f.Labels,
			Label{Text: strconv.Itoa(s.LeftScore), X: int(float64(w) * 0.43), Y: y, Size: 30, Color: White},
			Label{Text: strconv.Itoa(s.RightScore), X: int(float64(w) * 0.52), Y: y, Size: 30, Color: White},
		)
	}

	lines := s.MessageLines()
	switch {
	case len(lines) == 0:
	case s.Phase == engine.GameOver && len(lines) == 2:
		f.Labels = append(f.Labels,
			Label{Text: lines[0], X: int(float64(w) * 0.25), Y: h / 2, Size: 15, Color: White},
			Label{Text: lines[1], X: int(float64(w) * 0.15), Y: int(float64(h) * 0.55), Size: 15, Color: White},
		)
	default:
		for i, line := range lines {
			f.Labels = append(f.Labels, Label{Text: line, X: int(float64(w) * 0.2), Y: h/2 + 12*i, Size: 10, Color: White})
		}
	}

	return f
}

func paddleShape(p engine.PaddleState) Shape {
	return Shape{Kind: KindPaddle, X: p.PX, Y: p.PY, Width: p.Width, Height: p.Length, Color: White}
}

func ballColor(s *engine.GameState, pick Picker) color.RGBA {
	if !s.Colorful || pick == nil {
		return White
	}
	return Palette[pick(len(Palette))]
}
