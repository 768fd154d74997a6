package render

import (
	"testing"

	"github.com/opd-ai/go-pong/pkg/engine"
)

func baseState() *engine.GameState {
	return &engine.GameState{
		Tick:       7,
		Phase:      engine.InPlay,
		Field:      engine.FieldState{Width: 300, Height: 300, PaddleBorder: 45},
		Ball:       engine.BallState{PX: 30, PY: 130, Diameter: 20},
		Left:       engine.PaddleState{PX: 4, PY: 125, Width: 2, Length: 30},
		Right:      engine.PaddleState{PX: 294, PY: 125, Width: 2, Length: 30},
		LeftScore:  3,
		RightScore: 4,
	}
}

func countKind(f Frame, k ShapeKind) int {
	n := 0
	for _, s := range f.Shapes {
		if s.Kind == k {
			n++
		}
	}
	return n
}

func TestCompose_Phases(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *engine.GameState)
		lines   int
		balls   int
		paddles int
		labels  []string
	}{
		{
			name:    "in_play",
			mutate:  func(s *engine.GameState) {},
			lines:   3,
			balls:   1,
			paddles: 2,
			labels:  []string{"3", "4"},
		},
		{
			name:    "round_over",
			mutate:  func(s *engine.GameState) { s.Phase = engine.RoundOver },
			lines:   2,
			balls:   1,
			paddles: 2,
			labels:  []string{"3", "4", "Press n to start the next round."},
		},
		{
			name:    "stuck",
			mutate:  func(s *engine.GameState) { s.Phase = engine.StuckTie },
			lines:   2,
			balls:   0,
			paddles: 2,
			labels:  []string{"3", "4", "Ball stuck! Press n to move on."},
		},
		{
			name: "right_won",
			mutate: func(s *engine.GameState) {
				s.Phase, s.Won, s.LeftScore, s.RightScore = engine.GameOver, 1, 3, 10
			},
			lines:   0,
			balls:   0,
			paddles: 1,
			labels:  []string{"Player 2 won 3 : 10!", "Press n to start a new game."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := baseState()
			tt.mutate(s)

			f := Compose(s, nil)

			if got := countKind(f, KindLine); got != tt.lines {
				t.Errorf("lines = %d, expected %d", got, tt.lines)
			}
			if got := countKind(f, KindBall); got != tt.balls {
				t.Errorf("balls = %d, expected %d", got, tt.balls)
			}
			if got := countKind(f, KindPaddle); got != tt.paddles {
				t.Errorf("paddles = %d, expected %d", got, tt.paddles)
			}
			if len(f.Labels) != len(tt.labels) {
				t.Fatalf("labels = %+v, expected %q", f.Labels, tt.labels)
			}
			for i, want := range tt.labels {
				if f.Labels[i].Text != want {
					t.Errorf("label %d = %q, expected %q", i, f.Labels[i].Text, want)
				}
			}
		})
	}
}

func TestCompose_WinnerPaddleOnly(t *testing.T) {
	s := baseState()
	s.Phase, s.Won = engine.GameOver, -1

	f := Compose(s, nil)

	for _, sh := range f.Shapes {
		if sh.Kind == KindPaddle && sh.X != 4 {
			t.Errorf("loser paddle drawn at x=%d", sh.X)
		}
	}
}

func TestCompose_Geometry(t *testing.T) {
	f := Compose(baseState(), nil)

	want := map[ShapeKind]Shape{
		KindBall: {Kind: KindBall, X: 30, Y: 130, Width: 20, Height: 20, Color: White},
	}
	for _, sh := range f.Shapes {
		if w, ok := want[sh.Kind]; ok && sh != w {
			t.Errorf("shape = %+v, expected %+v", sh, w)
		}
		if sh.Kind == KindLine && sh.X != 45 && sh.X != 255 && sh.X != 150 {
			t.Errorf("unexpected line at x=%d", sh.X)
		}
	}
	if f.Labels[0].X != 129 || f.Labels[1].X != 156 || f.Labels[0].Y != 30 {
		t.Errorf("score labels misplaced: %+v", f.Labels)
	}
}

func TestCompose_BallColour(t *testing.T) {
	s := baseState()

	plain := Compose(s, func(n int) int { return 2 })
	if c := ballShape(t, plain).Color; c != White {
		t.Errorf("plain ball colour = %v, expected white", c)
	}

	s.Colorful = true
	for i := range Palette {
		f := Compose(s, func(n int) int {
			if n != len(Palette) {
				t.Fatalf("picker asked for %d colours", n)
			}
			return i
		})
		if c := ballShape(t, f).Color; c != Palette[i] {
			t.Errorf("colour %d = %v, expected %v", i, c, Palette[i])
		}
	}
}

func ballShape(t *testing.T, f Frame) Shape {
	t.Helper()
	for _, s := range f.Shapes {
		if s.Kind == KindBall {
			return s
		}
	}
	t.Fatal("frame has no ball")
	return Shape{}
}
