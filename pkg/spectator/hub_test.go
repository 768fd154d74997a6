package spectator

import (
	"encoding/json"
	"testing"

	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/event"
)

func testSpectatorConfig() config.SpectatorConfig {
	return config.SpectatorConfig{
		Address:            "127.0.0.1:0",
		SendBuffer:         1,
		WriteTimeoutMs:     1000,
		BreakerMaxFailures: 2,
		BreakerTimeoutSec:  60,
	}
}

func decode(t *testing.T, data []byte) Message {
	t.Helper()
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("invalid frame %s: %v", data, err)
	}
	return msg
}

func TestHub_RenderWithoutClients(t *testing.T) {
	h := NewHub(testSpectatorConfig(), nil, nil)
	h.Render(&engine.GameState{Tick: 1})
	h.Render(nil)

	if got := h.Stats(); got != (Stats{}) {
		t.Errorf("Stats() = %+v, want zero", got)
	}
}

func TestHub_BreakerShedsSlowClient(t *testing.T) {
	h := NewHub(testSpectatorConfig(), nil, nil)
	c := h.newClient(nil)
	h.register(c)

	// buffer of one: first frame queued, next two dropped, breaker trips
	for tick := uint64(1); tick <= 4; tick++ {
		h.Render(&engine.GameState{Tick: tick, Phase: engine.RoundOver})
	}

	want := Stats{Clients: 1, Sent: 1, Dropped: 2, Shed: 1}
	if got := h.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	if st := c.breaker.State(); st != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", st)
	}

	msg := decode(t, <-c.send)
	if msg.Type != TypeState || msg.Tick != 1 || msg.State == nil {
		t.Fatalf("queued frame = %+v", msg)
	}
	if msg.Text != "Press n to start the next round." {
		t.Errorf("Text = %q", msg.Text)
	}

	h.Close()
	if h.Len() != 0 {
		t.Errorf("Len() after Close = %d", h.Len())
	}
	select {
	case <-c.closed:
	default:
		t.Error("client should be closed")
	}
}

func TestHub_RecoveredClientResetsFailures(t *testing.T) {
	h := NewHub(testSpectatorConfig(), nil, nil)
	c := h.newClient(nil)
	h.register(c)
	defer h.Close()

	h.Render(&engine.GameState{Tick: 1})
	h.Render(&engine.GameState{Tick: 2}) // dropped
	<-c.send
	h.Render(&engine.GameState{Tick: 3}) // queued, resets the streak
	<-c.send
	h.Render(&engine.GameState{Tick: 4})
	h.Render(&engine.GameState{Tick: 5}) // dropped

	if st := c.breaker.State(); st != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", st)
	}
	if got := h.Stats(); got.Sent != 3 || got.Dropped != 2 || got.Shed != 0 {
		t.Errorf("Stats() = %+v", got)
	}
}

func TestHub_ForwardsCues(t *testing.T) {
	cfg := testSpectatorConfig()
	cfg.SendBuffer = 4
	h := NewHub(cfg, nil, nil)
	bus := event.NewEventBus()
	h.Attach(bus)

	// no client yet: nothing to deliver
	bus.Publish(event.NewCueEvent(nil, event.Scored))

	c := h.newClient(nil)
	h.register(c)
	bus.Publish(event.NewCueEvent(nil, event.WallHit))
	bus.Publish(event.NewPhaseEvent(nil, "in_play", "round_over", 1, 0))

	if len(c.send) != 1 {
		t.Fatalf("queued %d frames, want 1", len(c.send))
	}
	msg := decode(t, <-c.send)
	if msg.Type != TypeCue || msg.Cue != event.WallHit {
		t.Errorf("frame = %+v", msg)
	}

	h.Close()
	bus.Publish(event.NewCueEvent(nil, event.Win))
	if got := h.Stats().Sent; got != 1 {
		t.Errorf("Sent = %d after Close, want 1", got)
	}
}
