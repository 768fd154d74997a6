// pkg/entity/ball_test.go
package entity

import (
	"math"
	"testing"

	"github.com/opd-ai/go-pong/pkg/physics"
)

func TestNewBall(t *testing.T) {
	b := NewBall(30, 130, DefaultBallSpec())

	if b.Diameter() != 20 {
		t.Errorf("Diameter() = %d, expected 20", b.Diameter())
	}
	if b.Mass() != 60 {
		t.Errorf("Mass() = %d, expected 60", b.Mass())
	}
	if b.Speed != 5 {
		t.Errorf("Speed = %v, expected 5", b.Speed)
	}
	if got := b.Bounds(); got != (physics.Rect{X: 30, Y: 130, Width: 20, Height: 20}) {
		t.Errorf("Bounds() = %v, expected {30 130 20 20}", got)
	}
}

func TestBall_DiameterMassRoundTrip(t *testing.T) {
	tests := []struct {
		name         string
		apply        func(b *Ball)
		wantDiameter int
		wantMass     int
	}{
		{
			name:         "set_diameter",
			apply:        func(b *Ball) { b.SetDiameter(13) },
			wantDiameter: 13,
			wantMass:     39,
		},
		{
			name:         "set_mass_multiple_of_three",
			apply:        func(b *Ball) { b.SetMass(45) },
			wantDiameter: 15,
			wantMass:     45,
		},
		{
			name:         "set_mass_truncates_diameter",
			apply:        func(b *Ball) { b.SetMass(50) },
			wantDiameter: 16,
			wantMass:     50,
		},
		{
			name: "diameter_after_mass_overwrites",
			apply: func(b *Ball) {
				b.SetMass(50)
				b.SetDiameter(b.Diameter())
			},
			wantDiameter: 16,
			wantMass:     48,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBall(0, 0, DefaultBallSpec())
			tt.apply(b)
			if b.Diameter() != tt.wantDiameter {
				t.Errorf("Diameter() = %d, expected %d", b.Diameter(), tt.wantDiameter)
			}
			if b.Mass() != tt.wantMass {
				t.Errorf("Mass() = %d, expected %d", b.Mass(), tt.wantMass)
			}
		})
	}
}

func TestBall_SetAngleNormalizes(t *testing.T) {
	b := NewBall(0, 0, DefaultBallSpec())

	b.SetAngle(-math.Pi / 2)
	if math.Abs(b.Angle-3*math.Pi/2) > 1e-9 {
		t.Errorf("SetAngle(-π/2) stored %v, expected 3π/2", b.Angle)
	}

	b.SetTrajectory(5*math.Pi, 7)
	if math.Abs(b.Angle-math.Pi) > 1e-9 || b.Speed != 7 {
		t.Errorf("SetTrajectory(5π, 7) stored (%v, %v), expected (π, 7)", b.Angle, b.Speed)
	}

	// the setter does not clamp
	b.SetSpeed(-1)
	if b.Speed != -1 {
		t.Errorf("SetSpeed(-1) stored %v", b.Speed)
	}
}

func TestBall_MoveAndBounds(t *testing.T) {
	b := NewBall(10, 10, BallSpec{Diameter: 20, Speed: 0.75})
	b.SetAngle(0)

	b.Move(1)
	if b.Position.X != 10.75 {
		t.Errorf("Position.X = %v, expected 10.75", b.Position.X)
	}
	if got := b.Bounds().X; got != 11 {
		t.Errorf("Bounds().X = %d, expected 11", got)
	}

	b.SetLocation(3, 4)
	if b.Position != (physics.Vector2D{X: 3, Y: 4}) {
		t.Errorf("SetLocation() position = %v, expected {3 4}", b.Position)
	}
}
