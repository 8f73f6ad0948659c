package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	lexerrors "github.com/vango-dev/lexmart/internal/errors"
	"github.com/vango-dev/lexmart/pkg/loop"
	"github.com/vango-dev/lexmart/pkg/overlay"
	"github.com/vango-dev/lexmart/pkg/tooltip"
	"github.com/vango-dev/lexmart/pkg/ui"
)

// Session is one browser connection.
type Session struct {
	id     string
	conn   *websocket.Conn
	config Config
	logger *slog.Logger

	loop   *loop.Loop
	layer  *overlay.Layer
	layout *remoteLayout
	tips   map[string]*tip // owned by loop

	send       chan ServerFrame
	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once
}

type tip struct {
	p       *tooltip.Positioner
	trigger *remoteElement
}

func newSession(conn *websocket.Conn, cfg Config) *Session {
	id := uuid.NewString()
	logger := cfg.Logger.With("session", id)

	s := &Session{
		id:         id,
		conn:       conn,
		config:     cfg,
		logger:     logger,
		loop:       loop.New(loop.Config{QueueSize: cfg.LoopQueueSize, Logger: logger}),
		layout:     newRemoteLayout(),
		tips:       make(map[string]*tip),
		send:       make(chan ServerFrame, cfg.SendQueueSize),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	s.layer = overlay.New(overlay.WithListener(s.onOverlay))
	go s.writeLoop()
	return s
}

// ID returns the session id sent in the hello frame.
func (s *Session) ID() string { return s.id }

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// run serves the connection until it fails or the session is closed.
func (s *Session) run() {
	defer s.Close()

	s.enqueue(ServerFrame{Type: FrameHello, Session: s.id})
	s.readLoop()
}

func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.config.MaxFrameBytes)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		f, err := decodeFrame(msg)
		if err != nil {
			s.sendError(lexerrors.New("E300").Wrap(err))
			continue
		}

		if err := s.loop.Post(func() { s.handle(f) }); err != nil {
			if errors.Is(err, loop.ErrClosed) {
				return
			}
			s.sendError(lexerrors.New("E304").Wrap(err))
		}
	}
}

func (s *Session) writeLoop() {
	defer close(s.writerDone)

	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := s.conn.WriteJSON(f); err != nil {
				s.logger.Debug("write error", "error", err)
				s.conn.Close()
				return
			}

		case <-ticker.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping error", "error", err)
				s.conn.Close()
				return
			}

		case <-s.done:
			return
		}
	}
}

// handle runs on the session loop.
func (s *Session) handle(f ClientFrame) {
	switch f.Type {
	case FrameRegister:
		s.register(f)

	case FrameUnregister:
		if t := s.lookup(f.ID); t != nil {
			t.p.Unmount()
			delete(s.tips, f.ID)
		}

	case FrameEnter:
		if t := s.lookup(f.ID); t != nil {
			t.p.PointerEnter()
		}

	case FrameLeave:
		if t := s.lookup(f.ID); t != nil {
			t.p.PointerLeave()
		}

	case FrameLayout:
		s.layout.apply(f)

	case FrameMeasure:
		t := s.lookup(f.ID)
		if t == nil {
			return
		}
		if f.Trigger != nil {
			t.trigger.set(*f.Trigger)
		}
		if f.Surface != nil {
			if surf, ok := s.layer.Get(f.ID); ok {
				surf.SetRect(*f.Surface)
			}
		}
		if t.p.Visible() {
			t.p.ComputePosition()
		}

	default:
		s.sendError(lexerrors.New("E301").WithDetail(fmt.Sprintf("frame type %q", f.Type)))
	}
}

func (s *Session) register(f ClientFrame) {
	if f.ID == "" {
		s.sendError(lexerrors.New("E302").WithDetail("register frame without id"))
		return
	}

	cfg := ui.TooltipSpec{
		ID:        f.ID,
		Content:   f.Content,
		Side:      f.Side,
		Delay:     f.Delay,
		ClassName: f.ClassName,
	}.Config()

	if t, ok := s.tips[f.ID]; ok {
		if f.Trigger != nil {
			t.trigger.set(*f.Trigger)
		}
		t.p.Reconfigure(cfg)
		return
	}

	if len(s.tips) >= s.config.MaxTooltips {
		s.sendError(lexerrors.New("E303").WithDetail(fmt.Sprintf("limit is %d", s.config.MaxTooltips)))
		return
	}

	trigger := newRemoteElement(s.layout)
	if f.Trigger != nil {
		trigger.set(*f.Trigger)
	}
	p := tooltip.New(trigger, s.layout, tipOverlay{layer: s.layer, id: f.ID}, s.loop, cfg,
		tooltip.WithLogger(s.logger.With("tooltip", f.ID)),
		tooltip.WithObserver(s.config.Observer),
	)
	s.tips[f.ID] = &tip{p: p, trigger: trigger}
}

func (s *Session) lookup(id string) *tip {
	t, ok := s.tips[id]
	if !ok {
		s.sendError(lexerrors.New("E302").WithDetail(fmt.Sprintf("tooltip %q", id)))
		return nil
	}
	return t
}

// onOverlay turns surface changes into frames. Surfaces are only touched
// by positioners, so this runs on the session loop.
func (s *Session) onOverlay(ev overlay.Event) {
	switch ev.Type {
	case overlay.EventMount:
		content, _ := ev.Content.(string)
		if content == "" && ev.Content != nil {
			content = fmt.Sprint(ev.Content)
		}
		s.enqueue(ServerFrame{Type: FrameMount, ID: ev.ID, Content: content, ClassName: ev.ClassName})
	case overlay.EventMove:
		s.enqueue(moveFrame(ev.ID, ev.Position))
	case overlay.EventUnmount:
		s.enqueue(ServerFrame{Type: FrameUnmount, ID: ev.ID})
	}
}

func (s *Session) sendError(err *lexerrors.LexError) {
	s.logger.Debug("frame rejected", "error", err.FormatCompact())
	msg := err.Message
	if err.Detail != "" {
		msg += ": " + err.Detail
	}
	s.enqueue(ServerFrame{Type: FrameError, Code: err.Code, Message: msg})
}

func (s *Session) enqueue(f ServerFrame) {
	select {
	case s.send <- f:
	case <-s.done:
	default:
		s.logger.Warn("send queue full, dropping frame", "type", f.Type)
	}
}

// Close unmounts every tooltip, stops the loop and closes the connection.
// It is safe to call more than once and from any goroutine except the
// session loop.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
		defer cancel()
		if err := s.loop.Do(ctx, s.unmountAll); err != nil {
			s.logger.Warn("tooltip cleanup did not complete", "error", err)
		}
		s.loop.Close()

		close(s.done)
		<-s.writerDone

		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.conn.Close()
		s.logger.Info("session closed")
	})
}

func (s *Session) unmountAll() {
	for id, t := range s.tips {
		t.p.Unmount()
		delete(s.tips, id)
	}
}

// tipOverlay mounts a positioner's surface under its tooltip id so frames
// can address it.
type tipOverlay struct {
	layer *overlay.Layer
	id    string
}

func (o tipOverlay) Mount(content any, className string) tooltip.Surface {
	return o.layer.MountID(o.id, content, className)
}
