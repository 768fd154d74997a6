// pkg/physics/collision.go
package physics

// Rect is an integer axis-aligned rectangle in screen space.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether two rectangles share interior area.
// Edges that only touch do not count as an intersection.
func (r Rect) Intersects(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.X+other.Width &&
		other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height &&
		other.Y < r.Y+r.Height
}

// ElasticRebound returns the ball speed after striking a paddle that moves
// toward it. The result is half the incoming speed plus twice the 1-D elastic
// exchange term:
//
//	v' = v/2 + 2*(pv*2*mp/(mp+mb) + v*(mp-mb)/(mp+mb))
//
// The result may be negative for a heavy ball and a light paddle; callers clamp
// through friction.
func ElasticRebound(ballSpeed, paddleSpeed float64, ballMass, paddleMass int) float64 {
	mb := float64(ballMass)
	mp := float64(paddleMass)
	total := mp + mb
	if total == 0 {
		return ballSpeed
	}
	return ballSpeed/2 + (paddleSpeed*2*mp/total+ballSpeed*(mp-mb)/total)*2
}
