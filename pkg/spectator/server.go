// Package spectator serves a read-only view of a running match: health
// probes, the latest snapshot as JSON, and a websocket stream of frames
// and sound cues.
package spectator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/health"
	"github.com/opd-ai/go-pong/pkg/logging"
)

const shutdownTimeout = 5 * time.Second

// Server owns the HTTP listener and the hub behind it.
type Server struct {
	cfg     config.SpectatorConfig
	source  SnapshotSource
	checker *health.Checker
	hub     *Hub
	limiter *connLimiter
	router  *gin.Engine
	logger  *logging.Logger

	mu       sync.Mutex
	listener net.Listener
	http     *http.Server
}

// NewServer builds the routes. A nil checker serves readiness with no checks.
func NewServer(cfg config.SpectatorConfig, source SnapshotSource, checker *health.Checker, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	if checker == nil {
		checker = health.NewChecker()
	}

	s := &Server{
		cfg:     cfg,
		source:  source,
		checker: checker,
		hub:     NewHub(cfg, source, logger),
		logger:  logger.WithComponent("spectator"),
	}
	if cfg.ConnectsPerMinute > 0 {
		s.limiter = newConnLimiter(cfg.ConnectsPerMinute, time.Minute)
	}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", gin.WrapF(s.checker.LivenessHandler))
	router.GET("/readyz", gin.WrapF(s.checker.ReadinessHandler))

	router.GET("/state", s.handleState)
	router.GET("/stats", s.handleStats)
	router.GET("/ws", s.limitConnects(), func(c *gin.Context) {
		s.hub.ServeWS(c.Writer, c.Request)
	})
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}
}

func (s *Server) handleState(c *gin.Context) {
	if s.source == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no game attached"})
		return
	}
	state := s.source.GetGameState()
	if state == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no snapshot yet"})
		return
	}
	c.JSON(http.StatusOK, stateMessage(state))
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.hub.Stats())
}

// Handler exposes the routes, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the broadcaster; install it as the loop's renderer.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("spectator server already listening on %s", s.listener.Addr())
	}

	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %q: %w", s.cfg.Address, err)
	}
	s.listener = ln
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info(context.Background(), "spectator server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve handles requests until ctx is cancelled, then shuts down
// gracefully and disconnects every spectator.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln, srv := s.listener, s.http
	s.mu.Unlock()
	if ln == nil {
		return errors.New("spectator server is not listening")
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		s.hub.Close()
		s.clearListener()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("spectator server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.hub.Close()
	err := srv.Shutdown(shutdownCtx)
	<-errc
	s.clearListener()
	s.logger.Info(ctx, "spectator server stopped")
	if err != nil {
		return fmt.Errorf("spectator shutdown: %w", err)
	}
	return nil
}

func (s *Server) clearListener() {
	s.mu.Lock()
	s.listener = nil
	s.mu.Unlock()
}
