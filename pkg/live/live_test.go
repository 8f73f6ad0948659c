package live

import (
	"context"
	"io"
	"math"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"go.uber.org/goleak"

	"github.com/vango-dev/lexmart/pkg/tooltip"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingObserver struct {
	shown, hidden, sessions atomic.Int32
}

func (o *countingObserver) Shown()               { o.shown.Add(1) }
func (o *countingObserver) Hidden()              { o.hidden.Add(1) }
func (o *countingObserver) ActivationCancelled() {}
func (o *countingObserver) ListenersChanged(int) {}
func (o *countingObserver) Fault(error)          {}
func (o *countingObserver) SessionStarted()      { o.sessions.Add(1) }
func (o *countingObserver) SessionEnded()        { o.sessions.Add(-1) }

type harness struct {
	t   *testing.T
	srv *Server
	ts  *httptest.Server
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := NewServer(cfg)
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		ts.Close()
	})
	return &harness{t: t, srv: srv, ts: ts}
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
	id   string
}

func (h *harness) dial() *client {
	h.t.Helper()
	url := "ws" + strings.TrimPrefix(h.ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		h.t.Fatalf("dial: %v", err)
	}
	c := &client{t: h.t, conn: conn}
	h.t.Cleanup(func() { conn.Close() })

	hello := c.read()
	if hello.Type != FrameHello || hello.Session == "" {
		h.t.Fatalf("first frame = %+v, want hello", hello)
	}
	c.id = hello.Session
	return c
}

func (c *client) write(f ClientFrame) {
	c.t.Helper()
	if err := c.conn.WriteJSON(f); err != nil {
		c.t.Fatalf("write %s: %v", f.Type, err)
	}
}

func (c *client) writeRaw(data string) {
	c.t.Helper()
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(data)); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *client) read() ServerFrame {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f ServerFrame
	if err := c.conn.ReadJSON(&f); err != nil {
		c.t.Fatalf("read: %v", err)
	}
	return f
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func ptr(v float64) *float64 { return &v }

var (
	viewport = tooltip.Size{Width: 1024, Height: 768}
	trigger  = tooltip.Rect{Top: 100, Left: 100, Width: 50, Height: 20}
	surface  = tooltip.Rect{Width: 80, Height: 24}
)

func (c *client) setup(id string, side tooltip.Side, delay int64) {
	c.t.Helper()
	c.write(ClientFrame{Type: FrameLayout, Scroll: &tooltip.Scroll{}, Viewport: &viewport})
	c.write(ClientFrame{Type: FrameRegister, ID: id, Content: "Licensed in NY", Side: side, Delay: delay, ClassName: "dark", Trigger: &trigger})
}

func TestSession_ShowMeasureMoveHide(t *testing.T) {
	obs := &countingObserver{}
	h := newHarness(t, Config{Observer: obs})
	c := h.dial()

	c.setup("t1", tooltip.SideBottom, 0)
	c.write(ClientFrame{Type: FrameEnter, ID: "t1"})

	mount := c.read()
	want := ServerFrame{Type: FrameMount, ID: "t1", Content: "Licensed in NY", ClassName: "dark"}
	if diff := cmp.Diff(want, mount); diff != "" {
		t.Fatalf("mount mismatch (-want +got):\n%s", diff)
	}

	c.write(ClientFrame{Type: FrameMeasure, ID: "t1", Surface: &surface})
	move := c.read()
	if diff := cmp.Diff(ServerFrame{Type: FrameMove, ID: "t1", Top: ptr(128), Left: ptr(85)}, move); diff != "" {
		t.Fatalf("move mismatch (-want +got):\n%s", diff)
	}

	c.write(ClientFrame{Type: FrameLayout, Scroll: &tooltip.Scroll{Top: 40}, Cause: CauseScroll})
	move = c.read()
	if *move.Top != 128 || *move.Left != 85 {
		t.Fatalf("move after scroll = %v,%v want 128,85", *move.Top, *move.Left)
	}

	c.write(ClientFrame{Type: FrameLeave, ID: "t1"})
	if f := c.read(); f.Type != FrameUnmount || f.ID != "t1" {
		t.Fatalf("frame = %+v, want unmount", f)
	}

	waitFor(t, func() bool { return obs.hidden.Load() == 1 })
	if obs.shown.Load() != 1 {
		t.Fatalf("shown = %d, want 1", obs.shown.Load())
	}
	if obs.sessions.Load() != 1 {
		t.Fatalf("sessions = %d, want 1", obs.sessions.Load())
	}
}

func TestSession_ScrollKeepsDocumentPosition(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.dial()

	c.setup("t1", tooltip.SideTop, 0)
	c.write(ClientFrame{Type: FrameEnter, ID: "t1"})
	if f := c.read(); f.Type != FrameMount {
		t.Fatalf("frame = %+v, want mount", f)
	}
	c.write(ClientFrame{Type: FrameMeasure, ID: "t1", Surface: &surface})
	if move := c.read(); *move.Top != 68 || *move.Left != 85 {
		t.Fatalf("first move = %v,%v want 68,85", *move.Top, *move.Left)
	}

	// Exactly what the browser sends on scroll: no fresh trigger rect.
	c.write(ClientFrame{Type: FrameLayout, Scroll: &tooltip.Scroll{Top: 50}, Cause: CauseScroll})
	move := c.read()
	if move.Type != FrameMove || *move.Top != 68 || *move.Left != 85 {
		t.Fatalf("move after scroll = %+v, want 68,85", move)
	}

	// A measurement taken at the new offset agrees with the stored one.
	scrolled := trigger
	scrolled.Top -= 50
	c.write(ClientFrame{Type: FrameMeasure, ID: "t1", Trigger: &scrolled})
	if move := c.read(); *move.Top != 68 || *move.Left != 85 {
		t.Fatalf("move after re-measure = %v,%v want 68,85", *move.Top, *move.Left)
	}

	c.write(ClientFrame{Type: FrameLayout, Scroll: &tooltip.Scroll{Top: 50, Left: 30}, Cause: CauseScroll})
	if move := c.read(); *move.Top != 68 || *move.Left != 85 {
		t.Fatalf("move after horizontal scroll = %v,%v want 68,85", *move.Top, *move.Left)
	}
}

func TestSession_HugeDelayDoesNotShowImmediately(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.dial()

	c.setup("t1", tooltip.SideTop, math.MaxInt64)
	c.write(ClientFrame{Type: FrameEnter, ID: "t1"})
	time.Sleep(50 * time.Millisecond)

	c.write(ClientFrame{Type: FrameEnter, ID: "missing"})
	if f := c.read(); f.Type != FrameError || f.Code != "E302" {
		t.Fatalf("frame = %+v, want E302 error and no mount", f)
	}
}

func TestSession_LeaveBeforeDelay(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.dial()

	c.setup("t1", tooltip.SideTop, 50)
	c.write(ClientFrame{Type: FrameEnter, ID: "t1"})
	c.write(ClientFrame{Type: FrameLeave, ID: "t1"})
	time.Sleep(120 * time.Millisecond)

	c.write(ClientFrame{Type: FrameEnter, ID: "missing"})
	f := c.read()
	if f.Type != FrameError || f.Code != "E302" {
		t.Fatalf("frame = %+v, want E302 error and no mount", f)
	}
}

func TestSession_Errors(t *testing.T) {
	h := newHarness(t, Config{MaxTooltips: 1})
	c := h.dial()

	tests := []struct {
		name string
		send func()
		code string
	}{
		{"malformed", func() { c.writeRaw("{not json") }, "E300"},
		{"unknown type", func() { c.write(ClientFrame{Type: "wiggle"}) }, "E301"},
		{"unknown tooltip", func() { c.write(ClientFrame{Type: FrameLeave, ID: "nope"}) }, "E302"},
		{"register without id", func() { c.write(ClientFrame{Type: FrameRegister}) }, "E302"},
		{"too many", func() {
			c.write(ClientFrame{Type: FrameRegister, ID: "a"})
			c.write(ClientFrame{Type: FrameRegister, ID: "b"})
		}, "E303"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.send()
			f := c.read()
			if f.Type != FrameError || f.Code != tc.code {
				t.Fatalf("frame = %+v, want error %s", f, tc.code)
			}
			if f.Message == "" {
				t.Error("error frame without message")
			}
		})
	}
}

func TestSession_ReregisterReconfigures(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.dial()

	c.setup("t1", tooltip.SideBottom, 0)
	c.write(ClientFrame{Type: FrameEnter, ID: "t1"})
	if f := c.read(); f.Type != FrameMount {
		t.Fatalf("frame = %+v, want mount", f)
	}

	c.write(ClientFrame{Type: FrameRegister, ID: "t1", Content: "Updated", Side: tooltip.SideRight})
	if f := c.read(); f.Type != FrameUnmount {
		t.Fatalf("frame = %+v, want unmount on reconfigure", f)
	}

	c.write(ClientFrame{Type: FrameEnter, ID: "t1"})
	if f := c.read(); f.Type != FrameMount || f.Content != "Updated" {
		t.Fatalf("frame = %+v, want mount with new content", f)
	}
}

func TestSession_DisconnectReleasesEverything(t *testing.T) {
	h := newHarness(t, Config{})
	c := h.dial()

	c.setup("visible", tooltip.SideTop, 0)
	c.write(ClientFrame{Type: FrameRegister, ID: "pending", Delay: 60_000, Trigger: &trigger})
	c.write(ClientFrame{Type: FrameEnter, ID: "visible"})
	c.write(ClientFrame{Type: FrameEnter, ID: "pending"})
	if f := c.read(); f.Type != FrameMount || f.ID != "visible" {
		t.Fatalf("frame = %+v, want mount", f)
	}

	sess, ok := h.srv.Session(c.id)
	if !ok {
		t.Fatal("session not tracked")
	}
	c.conn.Close()

	select {
	case <-sess.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not close")
	}

	if n := sess.loop.Pending(); n != 0 {
		t.Errorf("pending timers = %d, want 0", n)
	}
	if n := sess.layout.listeners(); n != 0 {
		t.Errorf("layout listeners = %d, want 0", n)
	}
	if n := sess.layer.Len(); n != 0 {
		t.Errorf("mounted surfaces = %d, want 0", n)
	}
	if len(sess.tips) != 0 {
		t.Errorf("tooltips = %d, want 0", len(sess.tips))
	}
}

func TestServer_Shutdown(t *testing.T) {
	obs := &countingObserver{}
	h := newHarness(t, Config{Observer: obs})
	c := h.dial()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if h.srv.Sessions() != 0 {
		t.Fatalf("Sessions = %d, want 0", h.srv.Sessions())
	}
	if obs.sessions.Load() != 0 {
		t.Fatalf("session gauge = %d, want 0", obs.sessions.Load())
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{ReadTimeout: 10 * time.Second, HeartbeatInterval: time.Minute}.withDefaults()
	if cfg.HeartbeatInterval != 5*time.Second {
		t.Errorf("HeartbeatInterval = %v, want half the read timeout", cfg.HeartbeatInterval)
	}
	if cfg.MaxTooltips != DefaultConfig().MaxTooltips || cfg.Logger == nil {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}
