// Package input translates raw key names from a frontend into the logical
// actions the game understands.
package input

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-pong/pkg/entity"
)

// Action is a logical input the game reacts to
type Action int

const (
	LeftUp Action = iota
	LeftDown
	LeftLeft
	LeftRight
	RightUp
	RightDown
	RightLeft
	RightRight
	ToggleRandomise
	Advance
)

var actionNames = [...]string{
	LeftUp:          "left_up",
	LeftDown:        "left_down",
	LeftLeft:        "left_left",
	LeftRight:       "left_right",
	RightUp:         "right_up",
	RightDown:       "right_down",
	RightLeft:       "right_left",
	RightRight:      "right_right",
	ToggleRandomise: "toggle_randomise",
	Advance:         "advance",
}

// String returns the config name of the action
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction is the inverse of String
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// IsGlobal reports whether the action ignores the input lock
func (a Action) IsGlobal() bool {
	return a == ToggleRandomise || a == Advance
}

// Paddle maps a movement action to the paddle side and move it drives
func (a Action) Paddle() (entity.Side, entity.Move, bool) {
	switch a {
	case LeftUp:
		return entity.Left, entity.MoveUp, true
	case LeftDown:
		return entity.Left, entity.MoveDown, true
	case LeftLeft:
		return entity.Left, entity.MoveLeft, true
	case LeftRight:
		return entity.Left, entity.MoveRight, true
	case RightUp:
		return entity.Right, entity.MoveUp, true
	case RightDown:
		return entity.Right, entity.MoveDown, true
	case RightLeft:
		return entity.Right, entity.MoveLeft, true
	case RightRight:
		return entity.Right, entity.MoveRight, true
	}
	return entity.Left, 0, false
}
