// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Common event types
const (
	CuePlayed    Type = "cue_played"
	PhaseChanged Type = "phase_changed"
	ScoreChanged Type = "score_changed"
	MatchStarted Type = "match_started"
	MatchEnded   Type = "match_ended"
)

// Cue names a discrete sound the game asks the audio layer to play
type Cue string

// Sound cues raised by the simulation
const (
	WallHit            Cue = "wall_hit"
	PaddleHit          Cue = "paddle_hit"
	Scored             Cue = "scored"
	Win                Cue = "win"
	RandomiseLoopStart Cue = "randomise_loop_start"
	RandomiseLoopStop  Cue = "randomise_loop_stop"
)

// Cues lists every cue in a stable order
func Cues() []Cue {
	return []Cue{WallHit, PaddleHit, Scored, Win, RandomiseLoopStart, RandomiseLoopStop}
}

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe; Cancel removes the handler
type Subscription struct {
	ID     uint64
	Type   Type
	Cancel func()
}

type registered struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]registered
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registered),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registered{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Type:   eventType,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.handlers[eventType]
	for i, h := range handlers {
		if h.id == id {
			// copy so an in-flight Publish keeps iterating its own slice
			next := make([]registered, 0, len(handlers)-1)
			next = append(next, handlers[:i]...)
			b.handlers[eventType] = append(next, handlers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, h := range handlers {
		h.handler(event)
	}
}

// Specific event implementations

// CueEvent asks the audio layer to play a sound
type CueEvent struct {
	BaseEvent
	Cue Cue
}

// NewCueEvent creates a new cue event
func NewCueEvent(source interface{}, cue Cue) *CueEvent {
	return &CueEvent{
		BaseEvent: BaseEvent{
			EventType: CuePlayed,
			Source:    source,
		},
		Cue: cue,
	}
}

// PhaseEvent reports a match state transition
type PhaseEvent struct {
	BaseEvent
	From  string
	To    string
	Left  int
	Right int
}

// NewPhaseEvent creates a new phase transition event
func NewPhaseEvent(source interface{}, from, to string, left, right int) *PhaseEvent {
	return &PhaseEvent{
		BaseEvent: BaseEvent{
			EventType: PhaseChanged,
			Source:    source,
		},
		From:  from,
		To:    to,
		Left:  left,
		Right: right,
	}
}

// ScoreEvent contains the totals after a point is scored
type ScoreEvent struct {
	BaseEvent
	Scorer string
	Left   int
	Right  int
}

// NewScoreEvent creates a new score event
func NewScoreEvent(source interface{}, scorer string, left, right int) *ScoreEvent {
	return &ScoreEvent{
		BaseEvent: BaseEvent{
			EventType: ScoreChanged,
			Source:    source,
		},
		Scorer: scorer,
		Left:   left,
		Right:  right,
	}
}

// MatchEvent marks the start or end of a match
type MatchEvent struct {
	BaseEvent
	Winner string
	Left   int
	Right  int
}

// NewMatchEvent creates a new match event of the given type
func NewMatchEvent(eventType Type, source interface{}, winner string, left, right int) *MatchEvent {
	return &MatchEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		Winner: winner,
		Left:   left,
		Right:  right,
	}
}
