// pkg/entity/paddle.go
package entity

import (
	"github.com/opd-ai/go-pong/pkg/physics"
)

// Move is a directional intent applied to a paddle
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
	moveCount
)

// String returns the lowercase move name
func (m Move) String() string {
	switch m {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return "unknown"
	}
}

// PaddleSpec contains the starting parameters shared by both paddles
type PaddleSpec struct {
	Length int
	Width  int
	Mass   int
	Speed  float64 // vertical speed; horizontal moves at half of it
}

// DefaultPaddleSpec returns the stock paddle parameters
func DefaultPaddleSpec() PaddleSpec {
	return PaddleSpec{
		Length: 30,
		Width:  2,
		Mass:   42,
		Speed:  10,
	}
}

// Paddle is a player-controlled bar. Speeds are magnitudes; the sign of
// travel on each axis lives in HDir and VDir.
type Paddle struct {
	Side     Side
	Position physics.Vector2D
	HSpeed   float64
	VSpeed   float64
	HDir     int
	VDir     int

	spec   PaddleSpec
	length int
	mass   int
	held   [moveCount]bool
}

// NewPaddle creates a paddle at its spawn point for a field of the given size
func NewPaddle(side Side, fieldWidth, fieldHeight int, spec PaddleSpec) *Paddle {
	x := 4
	if side == Right {
		x = fieldWidth - 6
	}
	return &Paddle{
		Side: side,
		Position: physics.Vector2D{
			X: float64(x),
			Y: float64(fieldHeight/2 - spec.Length + 5),
		},
		spec:   spec,
		length: spec.Length,
		mass:   spec.Mass,
	}
}

// Move advances the paddle by its direction and speed on each axis
func (p *Paddle) Move(dt float64) {
	p.Position.X += float64(p.HDir) * p.HSpeed * dt
	p.Position.Y += float64(p.VDir) * p.VSpeed * dt
}

// Length returns the current paddle length
func (p *Paddle) Length() int { return p.length }

// Width returns the fixed paddle width
func (p *Paddle) Width() int { return p.spec.Width }

// Mass returns the current paddle mass
func (p *Paddle) Mass() int { return p.mass }

// SetLength changes the length and adjusts mass linearly. The per-unit factor
// is computed in integer arithmetic from the starting mass and length, so a
// shorter paddle is heavier.
func (p *Paddle) SetLength(length int) {
	factor := 0
	if p.spec.Length != 0 {
		factor = p.spec.Mass / p.spec.Length
	}
	p.mass = int(float64(factor)*float64(p.length-length)) + p.mass
	p.length = length
}

// Press records a held key and sets the matching axis in motion
func (p *Paddle) Press(m Move) {
	switch m {
	case MoveUp:
		p.VDir, p.VSpeed = -1, p.spec.Speed
	case MoveDown:
		p.VDir, p.VSpeed = 1, p.spec.Speed
	case MoveLeft:
		p.HDir, p.HSpeed = -1, float64(int(p.spec.Speed)/2)
	case MoveRight:
		p.HDir, p.HSpeed = 1, float64(int(p.spec.Speed)/2)
	default:
		return
	}
	p.held[m] = true
}

// Release forgets a held key. An axis stops only once neither of its keys is held.
func (p *Paddle) Release(m Move) {
	if m >= 0 && m < moveCount {
		p.held[m] = false
	}
	if !p.held[MoveUp] && !p.held[MoveDown] {
		p.VDir, p.VSpeed = 0, 0
	}
	if !p.held[MoveLeft] && !p.held[MoveRight] {
		p.HDir, p.HSpeed = 0, 0
	}
}

// Stop zeroes both directions and speeds. Held keys are kept, so the paddle
// stays still until a key is pressed again.
func (p *Paddle) Stop() {
	p.HDir, p.VDir = 0, 0
	p.HSpeed, p.VSpeed = 0, 0
}

// Corners returns top-left, top-right, bottom-right and bottom-left in that order
func (p *Paddle) Corners() [4]physics.Vector2D {
	x, y := p.Position.X, p.Position.Y
	w, l := float64(p.spec.Width), float64(p.length)
	return [4]physics.Vector2D{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + l},
		{X: x, Y: y + l},
	}
}

// Bounds returns the paddle's integer bounding box
func (p *Paddle) Bounds() physics.Rect {
	x, y := p.Position.Rounded()
	return physics.Rect{X: x, Y: y, Width: p.spec.Width, Height: p.length}
}
