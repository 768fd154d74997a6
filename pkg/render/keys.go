package render

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-pong/pkg/input"
	"github.com/opd-ai/go-pong/pkg/logging"
)

// ErrQuit is returned by KeySource.Run when the player asks to leave
var ErrQuit = errors.New("quit requested")

// DefaultHoldTimeout outlasts common terminal auto-repeat delays (250-600 ms),
// so a held key is not released before its first repeat arrives.
const DefaultHoldTimeout = 500 * time.Millisecond

// KeySource reads keys from a tcell screen and feeds a Router. Terminals
// report key-down with auto-repeat but never key-up, so a key counts as
// released once no repeat has arrived for the hold timeout.
type KeySource struct {
	screen   tcell.Screen
	router   *input.Router
	hold     time.Duration
	onResize func()
	logger   *logging.Logger

	mu   sync.Mutex
	held map[string]time.Time
}

// NewKeySource creates a key source. onResize may be nil.
func NewKeySource(screen tcell.Screen, router *input.Router, hold time.Duration, onResize func(), logger *logging.Logger) *KeySource {
	if hold <= 0 {
		hold = DefaultHoldTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &KeySource{
		screen:   screen,
		router:   router,
		hold:     hold,
		onResize: onResize,
		logger:   logger.WithComponent("keys"),
		held:     make(map[string]time.Time),
	}
}

// Run pumps screen events until ctx is cancelled or a quit key is pressed
func (k *KeySource) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := k.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(k.hold / 4)
	defer ticker.Stop()
	defer k.releaseAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if k.handle(ev, time.Now()) {
				k.logger.Info(ctx, "quit key pressed")
				return ErrQuit
			}
		case now := <-ticker.C:
			k.expire(now)
		}
	}
}

// handle applies one screen event and reports whether it asks to quit
func (k *KeySource) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		name := KeyName(ev)
		if name == "" {
			return false
		}
		k.mu.Lock()
		k.held[name] = now
		k.mu.Unlock()
		k.router.Handle(name, true)
	case *tcell.EventResize:
		if k.onResize != nil {
			k.onResize()
		}
	case *tcell.EventFocus:
		if !ev.Focused {
			k.releaseAll()
		}
	}
	return false
}

// expire releases keys that have not repeated within the hold timeout
func (k *KeySource) expire(now time.Time) {
	var released []string
	k.mu.Lock()
	for name, last := range k.held {
		if now.Sub(last) >= k.hold {
			delete(k.held, name)
			released = append(released, name)
		}
	}
	k.mu.Unlock()

	for _, name := range released {
		k.router.Handle(name, false)
	}
}

func (k *KeySource) releaseAll() {
	k.mu.Lock()
	clear(k.held)
	k.mu.Unlock()
	k.router.ReleaseAll()
}

// KeyName returns the key-map name for a key event, or "" if it has none
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyRune:
		r := unicode.ToLower(ev.Rune())
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	return ""
}
