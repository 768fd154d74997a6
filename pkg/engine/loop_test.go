package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoop_AdvanceConsumesWholeTicks(t *testing.T) {
	g := newTestGame(t, 21)
	clock := NewManualClock(time.Unix(0, 0))
	var frames []uint64
	loop := NewLoop(g, RendererFunc(func(s *GameState) { frames = append(frames, s.Tick) }), clock)

	period := loop.Period()
	if period != time.Second/60 {
		t.Fatalf("Period() = %v, expected 1/60 s", period)
	}

	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"no_time", 0, 0},
		{"less_than_a_tick", period / 2, 0},
		{"carry_over", period / 2, 1},
		{"three_ticks", 3*period + period/4, 3},
		{"cap_after_stall", 10 * time.Second, 15},
	}

	total := 0
	for _, tt := range tests {
		clock.Advance(tt.elapsed)
		got := loop.Advance()
		if got != tt.want {
			t.Errorf("%s: Advance() = %d, expected %d", tt.name, got, tt.want)
		}
		total += got
	}

	if len(frames) != total {
		t.Fatalf("rendered %d frames for %d ticks", len(frames), total)
	}
	for i, tick := range frames {
		if tick != uint64(i+1) {
			t.Errorf("frame %d has tick %d, expected %d", i, tick, i+1)
		}
	}
}

func TestLoop_ClockGoingBackwards(t *testing.T) {
	g := newTestGame(t, 22)
	clock := NewManualClock(time.Unix(100, 0))
	loop := NewLoop(g, nil, clock)

	clock.Set(time.Unix(50, 0))
	if n := loop.Advance(); n != 0 {
		t.Errorf("Advance() = %d after clock went backwards, expected 0", n)
	}
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	g := newTestGame(t, 23)
	loop := NewLoop(g, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for g.GetGameState().Tick == 0 {
		select {
		case <-deadline:
			t.Fatal("loop did not tick")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, expected context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if g.Running.Load() {
		t.Error("game still marked running")
	}
}
