package live

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/lexmart/pkg/tooltip"
)

// Config configures a Server.
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the upgrade request origin. Nil accepts
	// same-origin requests only.
	CheckOrigin func(r *http.Request) bool

	// ReadTimeout bounds the silence between client frames or pongs.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// HeartbeatInterval is the ping period. Must be below ReadTimeout.
	HeartbeatInterval time.Duration

	// MaxFrameBytes caps the size of a client frame.
	MaxFrameBytes int64

	// SendQueueSize is the number of outbound frames buffered per session.
	SendQueueSize int

	// LoopQueueSize is the per-session event loop capacity.
	LoopQueueSize int

	// MaxTooltips caps registered tooltips per session.
	MaxTooltips int

	// Observer receives tooltip lifecycle notifications from every session.
	// If it also implements SessionObserver it is told about sessions.
	Observer tooltip.Observer

	Logger *slog.Logger
}

// SessionObserver is notified when sessions start and end.
type SessionObserver interface {
	SessionStarted()
	SessionEnded()
}

// DefaultConfig returns the defaults applied to zero fields.
func DefaultConfig() Config {
	return Config{
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxFrameBytes:     16 << 10,
		SendQueueSize:     64,
		LoopQueueSize:     256,
		MaxTooltips:       256,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = d.ReadBufferSize
	}
	if c.WriteBufferSize <= 0 {
		c.WriteBufferSize = d.WriteBufferSize
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval <= 0 || c.HeartbeatInterval >= c.ReadTimeout {
		c.HeartbeatInterval = c.ReadTimeout / 2
	}
	if c.MaxFrameBytes <= 0 {
		c.MaxFrameBytes = d.MaxFrameBytes
	}
	if c.SendQueueSize <= 0 {
		c.SendQueueSize = d.SendQueueSize
	}
	if c.LoopQueueSize <= 0 {
		c.LoopQueueSize = d.LoopQueueSize
	}
	if c.MaxTooltips <= 0 {
		c.MaxTooltips = d.MaxTooltips
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Server upgrades HTTP requests to live sessions.
type Server struct {
	config   Config
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	wg       sync.WaitGroup
}

// NewServer creates a Server.
func NewServer(cfg Config) *Server {
	cfg = cfg.withDefaults()
	return &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     cfg.CheckOrigin,
		},
		logger:   cfg.Logger.With("component", "live"),
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the request and serves the session until the
// connection closes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		s.logger.Debug("upgrade failed", "error", err)
		return
	}

	cfg := s.config
	cfg.Logger = s.logger
	sess := newSession(conn, cfg)

	if !s.add(sess) {
		sess.Close()
		return
	}
	defer s.remove(sess)

	s.logger.Info("session started", "session", sess.id, "remote", r.RemoteAddr)
	sess.run()
}

func (s *Server) add(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	if so, ok := s.config.Observer.(SessionObserver); ok {
		so.SessionStarted()
	}
	return true
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	if so, ok := s.config.Observer.(SessionObserver); ok {
		so.SessionEnded()
	}
	s.wg.Done()
}

// Session returns the live session with the given id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown closes every session and waits for them to finish or for ctx
// to end. New connections are refused once Shutdown has been called.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}

	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
