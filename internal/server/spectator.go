package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/arena/internal/arena"
	bus "github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// SnapshotSource provides the current arena view for new spectators.
type SnapshotSource interface {
	Snapshot() arena.Snapshot
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Spectator streams one JSON snapshot per tick to every connected
// websocket client. Spectators are read-only; anything they send is
// discarded.
type Spectator struct {
	config Config
	source SnapshotSource
	logger log.Log

	mu      sync.Mutex
	clients map[*client]struct{}

	server   *http.Server
	listener net.Listener
	sub      bus.Subscription
	running  atomic.Bool
	frames   atomic.Uint64
}

func NewSpectator(config Config, source SnapshotSource, logger log.Log) (*Spectator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	return &Spectator{
		config:  config,
		source:  source,
		logger:  logger.With(log.String("component", "spectator")),
		clients: make(map[*client]struct{}),
	}, nil
}

// Attach forwards every arena tick published on events to the spectators.
func (s *Spectator) Attach(events bus.EventBus) error {
	sub, err := events.Subscribe(arena.EventTick, func(e bus.Event) error {
		snap, ok := e.Data().(arena.Snapshot)
		if !ok {
			return fmt.Errorf("%w: tick carries %T", ErrInvalidMessage, e.Data())
		}
		return s.Broadcast(snap)
	})
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

// Handler serves /ws for the feed and /snapshot for a one-off JSON view.
func (s *Spectator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Spectator) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.listener = ln
	s.server = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("spectator server stopped", log.Error(err))
		}
	}()
	s.logger.Info("spectator feed listening", log.String("addr", ln.Addr().String()))
	return nil
}

// Addr is the bound address once started.
func (s *Spectator) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down and disconnects every spectator.
func (s *Spectator) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	if s.sub != nil {
		_ = s.sub.Cancel()
	}
	err := s.server.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.clients {
		s.dropLocked(c)
	}
	s.mu.Unlock()

	s.logger.Info("spectator feed stopped", log.Uint64("frames", s.frames.Load()))
	return err
}

// Broadcast queues snap for every spectator. Spectators whose queue is
// full are disconnected instead of stalling the tick.
func (s *Spectator) Broadcast(snap arena.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.frames.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- b:
		default:
			s.logger.Warn("dropping slow spectator", log.String("client", c.id))
			s.dropLocked(c)
		}
	}
	return nil
}

// Clients is the number of connected spectators.
func (s *Spectator) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Spectator) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Snapshot()); err != nil {
		s.logger.Warn("write snapshot", log.Error(err))
	}
}

func (s *Spectator) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxClients > 0 && s.Clients() >= s.config.MaxClients {
		http.Error(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{id: conn.RemoteAddr().String(), conn: conn, send: make(chan []byte, s.config.SendBuffer)}
	// the current view goes first so a new spectator never starts blank
	if b, err := json.Marshal(s.source.Snapshot()); err == nil {
		c.send <- b
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("spectator connected", log.String("client", c.id))

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Spectator) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Debug("spectator write failed", log.String("client", c.id), log.Error(err))
			s.drop(c)
			c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(s.config.WriteTimeout))
	c.conn.Close()
}

func (s *Spectator) readLoop(c *client) {
	defer s.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Spectator) drop(c *client) {
	s.mu.Lock()
	s.dropLocked(c)
	s.mu.Unlock()
}

// dropLocked unregisters c and closes its queue exactly once.
func (s *Spectator) dropLocked(c *client) {
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	s.logger.Debug("spectator disconnected", log.String("client", c.id))
}
