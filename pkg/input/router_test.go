package input

import (
	"reflect"
	"testing"

	"github.com/opd-ai/go-pong/pkg/entity"
)

type recordingSink struct {
	events []string
}

func (s *recordingSink) Press(a Action)   { s.events = append(s.events, "+"+a.String()) }
func (s *recordingSink) Release(a Action) { s.events = append(s.events, "-"+a.String()) }

func TestRouter_Handle(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		pressed  []bool
		expected []string
	}{
		{
			name:     "movement_press_release",
			keys:     []string{"w", "w"},
			pressed:  []bool{true, false},
			expected: []string{"+left_up", "-left_up"},
		},
		{
			name:     "arrow_keys_drive_right_paddle",
			keys:     []string{"Up", "left"},
			pressed:  []bool{true, true},
			expected: []string{"+right_up", "+right_left"},
		},
		{
			name:     "global_fires_once_per_key_down",
			keys:     []string{"n", "n", "n", "n"},
			pressed:  []bool{true, true, false, true},
			expected: []string{"+advance", "+advance"},
		},
		{
			name:     "unbound_key_ignored",
			keys:     []string{"q"},
			pressed:  []bool{true},
			expected: nil,
		},
		{
			name:     "toggle_has_no_release",
			keys:     []string{"r", "r"},
			pressed:  []bool{true, false},
			expected: []string{"+toggle_randomise"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			r := NewRouter(nil, sink)
			for i, k := range tt.keys {
				r.Handle(k, tt.pressed[i])
			}
			if !reflect.DeepEqual(sink.events, tt.expected) {
				t.Errorf("events = %v, expected %v", sink.events, tt.expected)
			}
		})
	}
}

func TestRouter_ReleaseAll(t *testing.T) {
	sink := &recordingSink{}
	r := NewRouter(nil, sink)
	r.Handle("s", true)
	r.Handle("n", true)

	sink.events = nil
	r.ReleaseAll()

	if !reflect.DeepEqual(sink.events, []string{"-left_down"}) {
		t.Errorf("ReleaseAll() events = %v, expected [-left_down]", sink.events)
	}
	if r.Handle("n", true); len(sink.events) != 2 {
		t.Errorf("advance should fire again after ReleaseAll, events = %v", sink.events)
	}
}

func TestParseAction(t *testing.T) {
	for a := LeftUp; a <= Advance; a++ {
		got, err := ParseAction(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAction(%q) = (%v, %v), expected %v", a.String(), got, err, a)
		}
	}
	if _, err := ParseAction("jump"); err == nil {
		t.Error("ParseAction(jump) should fail")
	}
}

func TestAction_Paddle(t *testing.T) {
	side, move, ok := RightDown.Paddle()
	if !ok || side != entity.Right || move != entity.MoveDown {
		t.Errorf("RightDown.Paddle() = (%v, %v, %v)", side, move, ok)
	}
	if _, _, ok := Advance.Paddle(); ok {
		t.Error("Advance.Paddle() should not map to a paddle")
	}
}

func TestKeyMapFromNames(t *testing.T) {
	km, err := KeyMapFromNames(map[string]string{"I": "left_up", "k": "left_down"})
	if err != nil {
		t.Fatalf("KeyMapFromNames() error = %v", err)
	}
	if km["i"] != LeftUp || km["k"] != LeftDown {
		t.Errorf("KeyMapFromNames() = %v", km)
	}
	if _, err := KeyMapFromNames(map[string]string{"x": "fly"}); err == nil {
		t.Error("KeyMapFromNames() should reject unknown actions")
	}
}
