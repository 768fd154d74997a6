package spectator

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/opd-ai/go-pong/pkg/config"
)

func TestConnLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	l := newConnLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	steps := []struct {
		advance time.Duration
		addr    string
		allow   bool
	}{
		{addr: "10.0.0.1", allow: true},
		{addr: "10.0.0.1", allow: true},
		{addr: "10.0.0.1", allow: false},
		{addr: "10.0.0.2", allow: true},
		{advance: 20 * time.Second, addr: "10.0.0.1", allow: false}, // 2/3 of a token
		{advance: 10 * time.Second, addr: "10.0.0.1", allow: true},  // one token back
		{addr: "10.0.0.1", allow: false},
		{advance: 5 * time.Minute, addr: "10.0.0.1", allow: true}, // idle buckets swept, fresh bucket
		{addr: "10.0.0.1", allow: true},
		{addr: "10.0.0.1", allow: false},
	}

	for i, step := range steps {
		now = now.Add(step.advance)
		if got := l.Allow(step.addr); got != step.allow {
			t.Errorf("step %d: Allow(%s) = %v, want %v", i, step.addr, got, step.allow)
		}
	}

	// 10.0.0.2 has been idle for more than two windows
	if got := l.Len(); got != 1 {
		t.Errorf("Len() = %d after sweep, want 1", got)
	}
}

func TestServer_RejectsConnectFlood(t *testing.T) {
	cfg := config.DefaultConfig().Spectator
	cfg.ConnectsPerMinute = 1
	srv := NewServer(cfg, nil, nil, nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		req.RemoteAddr = "192.0.2.7:4000"
		srv.Handler().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	// the first attempt reaches the upgrader and fails the handshake
	if codes[0] != http.StatusBadRequest {
		t.Errorf("first attempt = %d, want 400 from the upgrader", codes[0])
	}
	if codes[1] != http.StatusTooManyRequests {
		t.Errorf("second attempt = %d, want 429", codes[1])
	}
}
