// Package health aggregates component checks for the pong process and
// exposes them as liveness and readiness endpoints on the spectator server.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Check is a single named probe of one component.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

// Status is the aggregated result of every registered check.
type Status struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentStatus `json:"checks"`
}

// Healthy reports whether every check passed
func (s Status) Healthy() bool {
	return s.Status == StatusHealthy
}

// ComponentStatus is the result of one check.
type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// readinessTimeout bounds how long the readiness endpoint waits on checks.
const readinessTimeout = 2 * time.Second

// Checker holds the registered checks.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewChecker creates an empty checker
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// Add registers check, replacing any check with the same name.
func (c *Checker) Add(check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[check.Name()] = check
}

// Remove unregisters the named check
func (c *Checker) Remove(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Names lists the registered checks in sorted order
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check. The result is healthy only if all of them pass.
func (c *Checker) Run(ctx context.Context) Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := Status{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentStatus, len(c.checks)),
	}
	for name, check := range c.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentStatus{Status: StatusUnhealthy, Message: err.Error()}
			continue
		}
		status.Checks[name] = ComponentStatus{Status: StatusHealthy}
	}
	return status
}

// LivenessHandler answers 200 while the process can serve requests at all.
func (c *Checker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler runs every check and answers 503 if any fails.
func (c *Checker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := c.Run(ctx)
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// TickSource is the part of the game the engine check observes.
type TickSource interface {
	IsRunning() bool
	LastTickAt() time.Time
}

// EngineCheck fails when the loop is stopped or has not ticked recently.
type EngineCheck struct {
	source   TickSource
	maxStale time.Duration
	now      func() time.Time
}

// NewEngineCheck creates an engine check. A zero maxStale only checks that
// the loop is running.
func NewEngineCheck(source TickSource, maxStale time.Duration) *EngineCheck {
	return &EngineCheck{source: source, maxStale: maxStale, now: time.Now}
}

func (e *EngineCheck) Name() string { return "engine" }

func (e *EngineCheck) Check(ctx context.Context) error {
	if !e.source.IsRunning() {
		return fmt.Errorf("game loop is not running")
	}
	if e.maxStale <= 0 {
		return nil
	}
	last := e.source.LastTickAt()
	if last.IsZero() {
		return fmt.Errorf("game loop has not ticked yet")
	}
	if age := e.now().Sub(last); age > e.maxStale {
		return fmt.Errorf("last tick %s ago exceeds %s", age.Round(time.Millisecond), e.maxStale)
	}
	return nil
}

// AudioState is the part of the sound manager the audio check observes.
type AudioState interface {
	Active() bool
	Muted() bool
}

// AudioCheck passes when audio is either playing or deliberately muted.
type AudioCheck struct {
	audio AudioState
}

// NewAudioCheck creates an audio check
func NewAudioCheck(audio AudioState) *AudioCheck {
	return &AudioCheck{audio: audio}
}

func (a *AudioCheck) Name() string { return "audio" }

func (a *AudioCheck) Check(ctx context.Context) error {
	if a.audio.Muted() || a.audio.Active() {
		return nil
	}
	return fmt.Errorf("audio device is not active")
}

// ListenerCheck fails until a listener reports its bound address.
type ListenerCheck struct {
	name string
	addr func() string
}

// NewListenerCheck creates a check named name over addr
func NewListenerCheck(name string, addr func() string) *ListenerCheck {
	return &ListenerCheck{name: name, addr: addr}
}

func (l *ListenerCheck) Name() string { return l.name }

func (l *ListenerCheck) Check(ctx context.Context) error {
	if l.addr() == "" {
		return fmt.Errorf("%s listener is not active", l.name)
	}
	return nil
}

// CheckFunc adapts a function into a named Check.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// NewCheckFunc wraps fn as a check named name
func NewCheckFunc(name string, fn func(ctx context.Context) error) CheckFunc {
	return CheckFunc{name: name, fn: fn}
}

func (f CheckFunc) Name() string { return f.name }

func (f CheckFunc) Check(ctx context.Context) error { return f.fn(ctx) }
