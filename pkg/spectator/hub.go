package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/event"
	"github.com/opd-ai/go-pong/pkg/logging"
)

const (
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// errBufferFull is recorded by a client's breaker when a frame is dropped.
var errBufferFull = errors.New("send buffer full")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one frame of the spectator feed.
type Message struct {
	Type    string            `json:"type"`
	State   *engine.GameState `json:"state,omitempty"`
	Text    string            `json:"text,omitempty"`
	Cue     event.Cue         `json:"cue,omitempty"`
	Tick    uint64            `json:"tick,omitempty"`
	Elapsed int64             `json:"elapsedMs,omitempty"`
}

// Message types
const (
	TypeState = "state"
	TypeCue   = "cue"
)

// SnapshotSource is the read side of the game the spectators watch.
type SnapshotSource interface {
	GetGameState() *engine.GameState
}

// Stats counts what the hub has delivered.
type Stats struct {
	Clients int    `json:"clients"`
	Sent    uint64 `json:"sent"`
	Dropped uint64 `json:"dropped"`
	Shed    uint64 `json:"shed"`
}

// client is one connected spectator. Delivery runs through a breaker: a
// client whose buffer stays full trips it and stops receiving frames
// until the breaker half-opens again.
type client struct {
	id      uint64
	conn    *websocket.Conn
	send    chan []byte
	breaker *gobreaker.CircuitBreaker
	closed  chan struct{}
	once    sync.Once
}

// Hub fans committed snapshots and sound cues out to every spectator.
type Hub struct {
	cfg    config.SpectatorConfig
	source SnapshotSource
	logger *logging.Logger
	ctx    context.Context
	start  time.Time

	mu      sync.RWMutex
	clients map[uint64]*client
	nextID  uint64
	subs    []*event.Subscription

	sent    atomic.Uint64
	dropped atomic.Uint64
	shed    atomic.Uint64
}

// NewHub creates a hub serving snapshots from source.
func NewHub(cfg config.SpectatorConfig, source SnapshotSource, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 8
	}
	return &Hub{
		cfg:     cfg,
		source:  source,
		logger:  logger.WithComponent("spectator"),
		ctx:     logging.WithCorrelationID(context.Background(), logging.GenerateCorrelationID()),
		start:   time.Now(),
		clients: make(map[uint64]*client),
	}
}

// Render broadcasts state to every spectator. It never blocks the loop.
func (h *Hub) Render(state *engine.GameState) {
	if state == nil || h.Len() == 0 {
		return
	}
	h.broadcast(stateMessage(state))
}

// Attach forwards every sound cue on bus to the spectators.
func (h *Hub) Attach(bus *event.Bus) {
	sub := bus.Subscribe(event.CuePlayed, func(e event.Event) {
		ce, ok := e.(*event.CueEvent)
		if !ok || h.Len() == 0 {
			return
		}
		h.broadcast(Message{Type: TypeCue, Cue: ce.Cue, Elapsed: time.Since(h.start).Milliseconds()})
	})

	h.mu.Lock()
	h.subs = append(h.subs, sub)
	h.mu.Unlock()
}

func stateMessage(state *engine.GameState) Message {
	return Message{
		Type:  TypeState,
		State: state,
		Text:  state.Message(),
		Tick:  state.Tick,
	}
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(h.ctx, "failed to encode spectator frame", err, "type", msg.Type)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.deliver(c, data)
	}
}

func (h *Hub) deliver(c *client, data []byte) {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		select {
		case c.send <- data:
			return nil, nil
		default:
			return nil, errBufferFull
		}
	})

	switch {
	case err == nil:
		h.sent.Add(1)
	case errors.Is(err, errBufferFull):
		h.dropped.Add(1)
	default:
		h.shed.Add(1)
	}
}

func (h *Hub) newClient(conn *websocket.Conn) *client {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.mu.Unlock()

	maxFailures := h.cfg.BreakerMaxFailures
	if maxFailures <= 0 {
		maxFailures = 3
	}
	settings := gobreaker.Settings{
		Name:        fmt.Sprintf("spectator-%d", id),
		MaxRequests: 1,
		Timeout:     time.Duration(h.cfg.BreakerTimeoutSec) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			h.logger.Info(h.ctx, "spectator breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &client{
		id:      id,
		conn:    conn,
		send:    make(chan []byte, h.cfg.SendBuffer),
		breaker: gobreaker.NewCircuitBreaker(settings),
		closed:  make(chan struct{}),
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info(h.ctx, "spectator connected", "client", c.id, "clients", n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	c.close()
	if ok {
		h.logger.Info(h.ctx, "spectator disconnected", "client", c.id, "clients", n)
	}
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.closed)
		if c.conn != nil {
			deadline := time.Now().Add(time.Second)
			c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), deadline)
			c.conn.Close()
		}
	})
}

// ServeWS upgrades r to a websocket, sends the current snapshot and then
// streams frames until the spectator goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(h.ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	c := h.newClient(conn)
	if h.source != nil {
		if state := h.source.GetGameState(); state != nil {
			if data, err := json.Marshal(stateMessage(state)); err == nil {
				c.send <- data
			}
		}
	}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

// readPump discards anything the spectator sends; it exists to process
// control frames and notice disconnects.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug(h.ctx, "spectator read error", "client", c.id, "error", err.Error())
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.unregister(c)
	}()

	for {
		select {
		case <-c.closed:
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout()))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug(h.ctx, "spectator write failed", "client", c.id, "error", err.Error())
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout()))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) writeTimeout() time.Duration {
	if h.cfg.WriteTimeoutMs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(h.cfg.WriteTimeoutMs) * time.Millisecond
}

// Len returns the number of connected spectators
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns the delivery counters
func (h *Hub) Stats() Stats {
	return Stats{
		Clients: h.Len(),
		Sent:    h.sent.Load(),
		Dropped: h.dropped.Load(),
		Shed:    h.shed.Load(),
	}
}

// Close detaches from the bus and disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = nil
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
	for _, c := range clients {
		h.unregister(c)
	}
}
