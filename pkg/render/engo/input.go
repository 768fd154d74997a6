// pkg/render/engo/input.go
package engo

import (
	"sort"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-pong/pkg/input"
)

const quitButton = "pong:quit"

var keyCodes = map[string]engo.Key{
	"up":    engo.KeyArrowUp,
	"down":  engo.KeyArrowDown,
	"left":  engo.KeyArrowLeft,
	"right": engo.KeyArrowRight,
	"space": engo.KeySpace,
	"enter": engo.KeyEnter,
	"tab":   engo.KeyTab,
	"0":     engo.KeyZero,
	"1":     engo.KeyOne,
	"2":     engo.KeyTwo,
	"3":     engo.KeyThree,
	"4":     engo.KeyFour,
	"5":     engo.KeyFive,
	"6":     engo.KeySix,
	"7":     engo.KeySeven,
	"8":     engo.KeyEight,
	"9":     engo.KeyNine,
}

func init() {
	letters := []engo.Key{
		engo.KeyA, engo.KeyB, engo.KeyC, engo.KeyD, engo.KeyE, engo.KeyF, engo.KeyG,
		engo.KeyH, engo.KeyI, engo.KeyJ, engo.KeyK, engo.KeyL, engo.KeyM, engo.KeyN,
		engo.KeyO, engo.KeyP, engo.KeyQ, engo.KeyR, engo.KeyS, engo.KeyT, engo.KeyU,
		engo.KeyV, engo.KeyW, engo.KeyX, engo.KeyY, engo.KeyZ,
	}
	for i, k := range letters {
		keyCodes[string(rune('a'+i))] = k
	}
}

// binding ties an engo virtual button to a raw key name
type binding struct {
	button string
	key    string
	code   engo.Key
}

// planBindings returns one binding per mappable key, sorted by key, and the
// key names engo has no code for.
func planBindings(keys input.KeyMap) (bound []binding, unknown []string) {
	for key := range keys {
		code, ok := keyCodes[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		bound = append(bound, binding{button: "pong:" + key, key: key, code: code})
	}
	sort.Slice(bound, func(i, j int) bool { return bound[i].key < bound[j].key })
	sort.Strings(unknown)
	return bound, unknown
}

// InputSystem forwards engo key transitions to an input.Router
type InputSystem struct {
	router   *input.Router
	bindings []binding
}

// NewInputSystem creates an input system for keys. It also returns the key
// names that could not be bound.
func NewInputSystem(router *input.Router, keys input.KeyMap) (*InputSystem, []string) {
	bound, unknown := planBindings(keys)
	return &InputSystem{router: router, bindings: bound}, unknown
}

// SetupInputBindings registers the engo buttons; call it from Scene.Setup
func (is *InputSystem) SetupInputBindings() {
	for _, b := range is.bindings {
		engo.Input.RegisterButton(b.button, b.code)
	}
	engo.Input.RegisterButton(quitButton, engo.KeyEscape)
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reports the key transitions engo saw this frame
func (is *InputSystem) Update(dt float32) {
	for _, b := range is.bindings {
		btn := engo.Input.Button(b.button)
		if btn.JustPressed() {
			is.router.Handle(b.key, true)
		}
		if btn.JustReleased() {
			is.router.Handle(b.key, false)
		}
	}

	if engo.Input.Button(quitButton).JustPressed() {
		engo.Exit()
	}
}
