package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/engine"
)

// TestEngineCheckIntegration drives a real game through start, tick and stop.
func TestEngineCheckIntegration(t *testing.T) {
	game := engine.NewSeededGame(config.DefaultConfig(), 7, nil)

	checker := NewChecker()
	checker.Add(NewEngineCheck(game, time.Minute))
	ctx := context.Background()

	if checker.Run(ctx).Healthy() {
		t.Fatal("engine should be unhealthy before the loop starts")
	}

	game.Start(ctx)
	if st := checker.Run(ctx); st.Checks["engine"].Status != StatusUnhealthy {
		t.Errorf("engine should be unhealthy until the first tick, got %+v", st.Checks["engine"])
	}

	game.Step()
	if st := checker.Run(ctx); !st.Healthy() {
		t.Errorf("engine should be healthy after a tick, got %+v", st)
	}

	w := httptest.NewRecorder()
	checker.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusOK {
		t.Errorf("readiness = %d, want 200", w.Code)
	}

	game.Stop()
	w = httptest.NewRecorder()
	checker.ReadinessHandler(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness after stop = %d, want 503", w.Code)
	}
}

// TestEngineCheckWithLoop runs the fixed-timestep loop on its own goroutine.
func TestEngineCheckWithLoop(t *testing.T) {
	game := engine.NewSeededGame(config.DefaultConfig(), 7, nil)
	loop := engine.NewLoop(game, nil, nil)
	check := NewEngineCheck(game, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for check.Check(ctx) != nil {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("engine never became healthy: %v", check.Check(ctx))
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done
	if err := check.Check(context.Background()); err == nil {
		t.Error("engine should be unhealthy after the loop exits")
	}
}
