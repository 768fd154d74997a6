// pkg/physics/vector.go
package physics

import "math"

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Rounded returns the integer screen coordinates of the vector.
func (v Vector2D) Rounded() (int, int) {
	return Round(v.X), Round(v.Y)
}

// FromAngle creates a screen-space vector from an angle and magnitude.
// Screen Y grows downward, so a positive angle points up the screen.
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Y: -magnitude * math.Sin(angle),
	}
}

// Round rounds half up, matching the pixel snapping used for bounds and drawing.
// math.Round rounds half away from zero, which would shift negative positions.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// TwoPi is one full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps any real angle into [0, 2π).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle+TwoPi, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// a tiny negative remainder plus 2π can round up to exactly 2π
	if a >= TwoPi {
		return 0
	}
	return a
}
