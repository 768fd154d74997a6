package physics

// Motion is a position plus a polar trajectory (angle, speed).
// Angle is measured counter-clockwise from the +X axis on screen.
type Motion struct {
	Position Vector2D
	Angle    float64 // radians, kept in [0, 2π) by callers
	Speed    float64 // units per tick
}

// Advance moves the position along the trajectory for dt ticks.
func (m *Motion) Advance(dt float64) {
	m.Position = m.Position.Add(m.Velocity().Scale(dt))
}

// Velocity returns the per-tick displacement vector.
func (m Motion) Velocity() Vector2D {
	return FromAngle(m.Angle, m.Speed)
}
