// pkg/entity/score_test.go
package entity

import "testing"

func TestScore_AddAndLeader(t *testing.T) {
	var s Score

	for i := 1; i <= 9; i++ {
		if got := s.Add(Right); got != i {
			t.Fatalf("Add(Right) = %d, expected %d", got, i)
		}
		if _, ok := s.Leader(10); ok {
			t.Fatalf("Leader(10) reported a winner at %d points", i)
		}
	}

	s.Add(Right)
	side, ok := s.Leader(10)
	if !ok || side != Right {
		t.Errorf("Leader(10) = (%v, %v), expected (right, true)", side, ok)
	}
	if s.Left != 0 {
		t.Errorf("Left = %d, expected 0", s.Left)
	}

	s.Reset()
	if s.Left != 0 || s.Right != 0 {
		t.Errorf("Reset() left %+v", s)
	}
}
