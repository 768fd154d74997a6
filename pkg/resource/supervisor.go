// pkg/resource/supervisor.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-pong/pkg/logging"
)

// ErrTaskLimit is returned by Go when the supervisor is already running its
// maximum number of tasks.
var ErrTaskLimit = errors.New("task limit reached")

// ErrStopped is returned by Go after Shutdown.
var ErrStopped = errors.New("supervisor stopped")

// Task is a long-running unit of work. It must return once ctx is done.
type Task func(ctx context.Context) error

// Supervisor runs the process's long-lived goroutines (game loop, key
// pump, spectator server). The first task to fail cancels the others.
type Supervisor struct {
	ctx    context.Context
	cancel context.CancelFunc

	maxTasks int64
	running  atomic.Int64
	started  atomic.Uint64
	panics   atomic.Uint64

	wg      sync.WaitGroup
	mu      sync.Mutex
	err     error
	stopped bool

	logger *logging.Logger
}

// NewSupervisor creates a supervisor whose tasks run under a child of
// parent. maxTasks <= 0 means no limit.
func NewSupervisor(parent context.Context, maxTasks int, logger *logging.Logger) *Supervisor {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{
		ctx:      ctx,
		cancel:   cancel,
		maxTasks: int64(maxTasks),
		logger:   logger.WithComponent("supervisor"),
	}
}

// Context is cancelled when any task fails or the supervisor shuts down.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// Go starts task on its own goroutine. A panic inside task is recovered,
// logged and treated as a failure.
func (s *Supervisor) Go(name string, task Task) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("start %s: %w", name, ErrStopped)
	}
	current := s.running.Load()
	if s.maxTasks > 0 && current >= s.maxTasks {
		s.mu.Unlock()
		s.logger.Warn(s.ctx, "task limit reached", "task", name, "running", current, "limit", s.maxTasks)
		return fmt.Errorf("start %s: %w (%d/%d)", name, ErrTaskLimit, current, s.maxTasks)
	}
	s.running.Add(1)
	s.started.Add(1)
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Debug(s.ctx, "task started", "task", name)

	go func() {
		defer s.wg.Done()
		defer s.running.Add(-1)

		err := s.run(name, task)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			s.logger.Debug(s.ctx, "task finished", "task", name)
		default:
			s.logger.Error(s.ctx, "task failed", err, "task", name)
			s.fail(fmt.Errorf("%s: %w", name, err))
		}
	}()
	return nil
}

func (s *Supervisor) run(name string, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.panics.Add(1)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(s.ctx)
}

func (s *Supervisor) fail(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
	s.cancel()
}

// Err returns the first task failure, if any.
func (s *Supervisor) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until every task has returned and reports the first failure.
func (s *Supervisor) Wait() error {
	s.wg.Wait()
	return s.Err()
}

// Shutdown cancels every task and waits for them until ctx is done.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.logger.Info(ctx, "shutting down", "running", s.running.Load())
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return s.Err()
	case <-ctx.Done():
		remaining := s.running.Load()
		s.logger.Warn(ctx, "shutdown timed out", "remaining", remaining)
		return fmt.Errorf("shutdown: %d tasks still running: %w", remaining, ctx.Err())
	}
}

// Stats is a point-in-time view of the supervisor and process.
type Stats struct {
	Running    int64     `json:"running"`
	MaxTasks   int64     `json:"max_tasks"`
	Started    uint64    `json:"started"`
	Panics     uint64    `json:"panics"`
	Goroutines int       `json:"goroutines"`
	HeapMB     uint64    `json:"heap_mb"`
	SampledAt  time.Time `json:"sampled_at"`
}

// Stats samples the counters and the runtime's memory statistics.
func (s *Supervisor) Stats() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		Running:    s.running.Load(),
		MaxTasks:   s.maxTasks,
		Started:    s.started.Load(),
		Panics:     s.panics.Load(),
		Goroutines: runtime.NumGoroutine(),
		HeapMB:     m.HeapAlloc / 1024 / 1024,
		SampledAt:  time.Now(),
	}
}
