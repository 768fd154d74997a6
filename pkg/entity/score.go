// pkg/entity/score.go
package entity

// Score holds the per-side point counters for one match
type Score struct {
	Left  int
	Right int
}

// Add credits one point to side and returns its new total
func (s *Score) Add(side Side) int {
	if side == Right {
		s.Right++
		return s.Right
	}
	s.Left++
	return s.Left
}

// Reset clears both counters
func (s *Score) Reset() {
	s.Left, s.Right = 0, 0
}

// Leader returns the side that has reached target, if any
func (s Score) Leader(target int) (Side, bool) {
	switch {
	case s.Right >= target:
		return Right, true
	case s.Left >= target:
		return Left, true
	}
	return Left, false
}
