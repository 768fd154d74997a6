// pkg/entity/ball.go
package entity

import (
	"github.com/opd-ai/go-pong/pkg/physics"
)

// BallSpec holds the starting size and speed of a ball
type BallSpec struct {
	Diameter int
	Speed    float64
}

// DefaultBallSpec returns the stock ball parameters
func DefaultBallSpec() BallSpec {
	return BallSpec{Diameter: 20, Speed: 5}
}

// Ball is the puck bounced between the paddles. The float position is
// authoritative; integer coordinates are derived by rounding.
type Ball struct {
	physics.Motion
	diameter int
	mass     int
}

// NewBall creates a ball at the given integer location using spec
func NewBall(x, y int, spec BallSpec) *Ball {
	b := &Ball{}
	b.SetDiameter(spec.Diameter)
	b.SetLocation(x, y)
	b.Speed = spec.Speed
	return b
}

// Move advances the ball along its trajectory
func (b *Ball) Move(dt float64) {
	b.Advance(dt)
}

// SetTrajectory replaces both angle and speed
func (b *Ball) SetTrajectory(angle, speed float64) {
	b.SetAngle(angle)
	b.Speed = speed
}

// SetAngle stores the angle normalized to [0, 2π)
func (b *Ball) SetAngle(angle float64) {
	b.Angle = physics.NormalizeAngle(angle)
}

// SetSpeed stores the speed as given; friction is responsible for the lower bound
func (b *Ball) SetSpeed(speed float64) {
	b.Speed = speed
}

// SetLocation snaps the ball to integer coordinates
func (b *Ball) SetLocation(x, y int) {
	b.Position = physics.Vector2D{X: float64(x), Y: float64(y)}
}

// SetDiameter sets the diameter and derives mass from it
func (b *Ball) SetDiameter(d int) {
	b.diameter = d
	b.mass = 3 * d
}

// SetMass sets the mass and derives the diameter by truncating division.
// A mass that is not a multiple of three keeps its value until the next SetDiameter.
func (b *Ball) SetMass(m int) {
	b.mass = m
	b.diameter = m / 3
}

// Diameter returns the current diameter
func (b *Ball) Diameter() int { return b.diameter }

// Mass returns the current mass
func (b *Ball) Mass() int { return b.mass }

// Bounds returns the ball's integer bounding box
func (b *Ball) Bounds() physics.Rect {
	x, y := b.Position.Rounded()
	return physics.Rect{X: x, Y: y, Width: b.diameter, Height: b.diameter}
}
