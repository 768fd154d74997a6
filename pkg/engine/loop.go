package engine

import (
	"context"
	"time"

	"github.com/opd-ai/go-pong/pkg/logging"
)

// maxFrame caps how much elapsed time one Advance call may consume, so a
// stalled process does not replay seconds of ticks at once.
const maxFrame = 250 * time.Millisecond

// Renderer receives one committed snapshot per consumed tick
type Renderer interface {
	Render(state *GameState)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(state *GameState)

// Render calls f(state)
func (f RendererFunc) Render(state *GameState) { f(state) }

// Loop drives a Game at a fixed tick rate, independent of how often it is woken.
type Loop struct {
	game        *Game
	renderer    Renderer
	clock       Clock
	period      time.Duration
	accumulator time.Duration
	last        time.Time
	logger      *logging.Logger
}

// NewLoop creates a loop ticking game at its configured rate. A nil clock
// uses the system clock; a nil renderer discards frames.
func NewLoop(game *Game, renderer Renderer, clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	if renderer == nil {
		renderer = RendererFunc(func(*GameState) {})
	}

	rate := game.Config.Physics.TickRate
	if rate <= 0 {
		rate = 60
	}

	return &Loop{
		game:     game,
		renderer: renderer,
		clock:    clock,
		period:   time.Second / time.Duration(rate),
		last:     clock.Now(),
		logger:   game.logger.WithComponent("loop"),
	}
}

// Period returns the duration of one tick
func (l *Loop) Period() time.Duration {
	return l.period
}

// Advance consumes every whole tick that has elapsed since the previous call,
// rendering after each one, and returns how many ticks ran.
func (l *Loop) Advance() int {
	now := l.clock.Now()
	elapsed := now.Sub(l.last)
	l.last = now

	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > maxFrame {
		elapsed = maxFrame
	}
	l.accumulator += elapsed

	ticks := 0
	for l.accumulator >= l.period {
		state := l.game.Step()
		l.renderer.Render(state)
		l.accumulator -= l.period
		ticks++
	}
	return ticks
}

// Run wakes once per period and advances the game until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	l.last = l.clock.Now()
	l.game.Start(ctx)
	defer l.game.Stop()

	l.logger.Info(ctx, "game loop started", "period", l.period.String())

	for {
		select {
		case <-ctx.Done():
			l.logger.Info(ctx, "game loop stopped", "tick", l.game.GetGameState().Tick)
			return ctx.Err()
		case <-ticker.C:
			l.Advance()
		}
	}
}
