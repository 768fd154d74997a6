// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// HealthCheck reports the supervisor unhealthy once a task has failed or
// the task count nears its limit.
type HealthCheck struct {
	supervisor *Supervisor
}

// NewHealthCheck creates a health check for s
func NewHealthCheck(s *Supervisor) *HealthCheck {
	return &HealthCheck{supervisor: s}
}

func (h *HealthCheck) Name() string {
	return "supervisor"
}

func (h *HealthCheck) Check(ctx context.Context) error {
	if err := h.supervisor.Err(); err != nil {
		return fmt.Errorf("task failed: %w", err)
	}

	stats := h.supervisor.Stats()
	if stats.MaxTasks > 0 {
		threshold := stats.MaxTasks * 8 / 10
		if threshold > 0 && stats.Running > threshold {
			return fmt.Errorf("task count %d exceeds 80%% of limit %d", stats.Running, stats.MaxTasks)
		}
	}
	return nil
}
