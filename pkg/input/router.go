package input

import (
	"fmt"
	"strings"
	"sync"
)

// Sink receives logical actions. The game engine implements it.
type Sink interface {
	Press(a Action)
	Release(a Action)
}

// KeyMap binds raw key names to actions
type KeyMap map[string]Action

// DefaultKeyMap returns WASD for the left paddle, arrows for the right,
// r to toggle randomise and n to advance.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"w":     LeftUp,
		"s":     LeftDown,
		"a":     LeftLeft,
		"d":     LeftRight,
		"up":    RightUp,
		"down":  RightDown,
		"left":  RightLeft,
		"right": RightRight,
		"r":     ToggleRandomise,
		"n":     Advance,
	}
}

// KeyMapFromNames builds a key map from key -> action name pairs, as stored in config
func KeyMapFromNames(bindings map[string]string) (KeyMap, error) {
	km := make(KeyMap, len(bindings))
	for key, name := range bindings {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", key, err)
		}
		km[normalizeKey(key)] = a
	}
	return km, nil
}

// Keys returns the raw keys bound to a, in no particular order
func (km KeyMap) Keys(a Action) []string {
	var keys []string
	for k, v := range km {
		if v == a {
			keys = append(keys, k)
		}
	}
	return keys
}

// Router turns key transitions into press/release calls on a Sink.
// Global actions fire once per key-down; auto-repeat presses are dropped.
type Router struct {
	mu   sync.Mutex
	keys KeyMap
	sink Sink
	down map[string]bool
}

// NewRouter creates a router feeding sink through keys
func NewRouter(keys KeyMap, sink Sink) *Router {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	return &Router{
		keys: keys,
		sink: sink,
		down: make(map[string]bool),
	}
}

// Handle forwards one raw key transition. It reports whether the key is bound.
func (r *Router) Handle(key string, pressed bool) bool {
	key = normalizeKey(key)

	r.mu.Lock()
	a, ok := r.keys[key]
	if !ok {
		r.mu.Unlock()
		return false
	}
	wasDown := r.down[key]
	if pressed {
		r.down[key] = true
	} else {
		delete(r.down, key)
	}
	r.mu.Unlock()

	switch {
	case pressed && a.IsGlobal() && wasDown:
		// auto-repeat of a single-shot key
	case pressed:
		r.sink.Press(a)
	case a.IsGlobal():
		// single-shot keys have no release behaviour
	default:
		r.sink.Release(a)
	}
	return true
}

// ReleaseAll releases every key currently held, e.g. when the window loses focus
func (r *Router) ReleaseAll() {
	r.mu.Lock()
	held := make([]string, 0, len(r.down))
	for k := range r.down {
		held = append(held, k)
	}
	r.mu.Unlock()

	for _, k := range held {
		r.Handle(k, false)
	}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
