// pkg/event/event_test.go
package event

import (
	"sync"
	"testing"
)

// TestNewEventBus tests the creation of a new event bus
func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	if bus == nil {
		t.Fatal("NewEventBus() returned nil")
	}

	if bus.handlers == nil {
		t.Error("handlers map not initialized")
	}

	if bus.nextID != 1 {
		t.Errorf("expected nextID to be 1, got %d", bus.nextID)
	}
}

func TestBaseEvent_GetType_ReturnsCorrectType(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		source    interface{}
	}{
		{
			name:      "cue event",
			eventType: CuePlayed,
			source:    "test_source",
		},
		{
			name:      "phase event",
			eventType: PhaseChanged,
			source:    123,
		},
		{
			name:      "empty source",
			eventType: MatchStarted,
			source:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &BaseEvent{
				EventType: tt.eventType,
				Source:    tt.source,
			}

			if event.GetType() != tt.eventType {
				t.Errorf("GetType() = %v, want %v", event.GetType(), tt.eventType)
			}

			if event.GetSource() != tt.source {
				t.Errorf("GetSource() = %v, want %v", event.GetSource(), tt.source)
			}
		})
	}
}

func TestBusSubscribe_SingleHandler_ReturnsValidSubscription(t *testing.T) {
	bus := NewEventBus()

	sub := bus.Subscribe(CuePlayed, func(e Event) {})

	if sub == nil {
		t.Fatal("Subscribe() returned nil subscription")
	}
	if sub.ID == 0 {
		t.Error("subscription ID should be non-zero")
	}
	if sub.Cancel == nil {
		t.Error("subscription Cancel should not be nil")
	}
	if sub.Type != CuePlayed {
		t.Errorf("subscription Type = %v, want %v", sub.Type, CuePlayed)
	}
}

func TestBusPublish_WithSubscribers_CallsAllHandlers(t *testing.T) {
	bus := NewEventBus()
	var received []Cue

	handler := func(e Event) {
		if ce, ok := e.(*CueEvent); ok {
			received = append(received, ce.Cue)
		}
	}

	bus.Subscribe(CuePlayed, handler)
	bus.Subscribe(CuePlayed, handler)

	bus.Publish(NewCueEvent("test", PaddleHit))

	if len(received) != 2 {
		t.Fatalf("expected 2 handler calls, got %d", len(received))
	}
	for _, c := range received {
		if c != PaddleHit {
			t.Errorf("expected cue %v, got %v", PaddleHit, c)
		}
	}
}

func TestBusPublish_NoSubscribers_NoError(t *testing.T) {
	bus := NewEventBus()

	// Should not panic or error
	bus.Publish(NewCueEvent("test", WallHit))
}

func TestBusPublish_WrongEventType_HandlersNotCalled(t *testing.T) {
	bus := NewEventBus()
	handlerCalled := false

	bus.Subscribe(CuePlayed, func(e Event) {
		handlerCalled = true
	})

	bus.Publish(NewPhaseEvent("test", "in_play", "round_over", 1, 0))

	if handlerCalled {
		t.Error("handler should not have been called for different event type")
	}
}

func TestSubscriptionCancel_ValidSubscription_RemovesHandler(t *testing.T) {
	bus := NewEventBus()
	firstCalled, secondCalled := false, false

	first := bus.Subscribe(CuePlayed, func(e Event) { firstCalled = true })
	bus.Subscribe(CuePlayed, func(e Event) { secondCalled = true })

	first.Cancel()

	bus.mu.RLock()
	remaining := len(bus.handlers[CuePlayed])
	bus.mu.RUnlock()
	if remaining != 1 {
		t.Errorf("expected 1 handler after cancel, got %d", remaining)
	}

	bus.Publish(NewCueEvent("test", Scored))

	if firstCalled {
		t.Error("cancelled handler should not be called")
	}
	if !secondCalled {
		t.Error("remaining handler should still be called")
	}

	// cancelling twice is harmless
	first.Cancel()
}

func TestBusSubscribe_ConcurrentAccess_ThreadSafe(t *testing.T) {
	bus := NewEventBus()
	var wg sync.WaitGroup
	var mu sync.Mutex
	handlerCount := 0

	handler := func(e Event) {
		mu.Lock()
		handlerCount++
		mu.Unlock()
	}

	numGoroutines := 10
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			bus.Subscribe(CuePlayed, handler)
		}()
	}
	wg.Wait()

	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			bus.Publish(NewCueEvent("test", Win))
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if expected := numGoroutines * 3; handlerCount != expected {
		t.Errorf("expected %d handler calls, got %d", expected, handlerCount)
	}
}

func TestEventConstructors_ValidParameters_ReturnCorrectEvents(t *testing.T) {
	phase := NewPhaseEvent("game", "in_play", "game_over", 4, 10)
	if phase.GetType() != PhaseChanged || phase.From != "in_play" || phase.To != "game_over" {
		t.Errorf("NewPhaseEvent() = %+v", phase)
	}
	if phase.Left != 4 || phase.Right != 10 {
		t.Errorf("NewPhaseEvent() scores = %d:%d, want 4:10", phase.Left, phase.Right)
	}

	score := NewScoreEvent("game", "left", 3, 2)
	if score.GetType() != ScoreChanged || score.Scorer != "left" {
		t.Errorf("NewScoreEvent() = %+v", score)
	}

	match := NewMatchEvent(MatchEnded, "game", "right", 7, 10)
	if match.GetType() != MatchEnded || match.Winner != "right" || match.GetSource() != "game" {
		t.Errorf("NewMatchEvent() = %+v", match)
	}
}

func TestCues_AllDefined(t *testing.T) {
	seen := make(map[Cue]bool)
	for _, c := range Cues() {
		if c == "" {
			t.Error("empty cue name")
		}
		if seen[c] {
			t.Errorf("duplicate cue %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 cues, got %d", len(seen))
	}
}
