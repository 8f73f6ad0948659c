package live

import (
	"encoding/json"

	"github.com/vango-dev/lexmart/pkg/tooltip"
)

// Client frame types.
const (
	FrameRegister   = "register"
	FrameUnregister = "unregister"
	FrameEnter      = "enter"
	FrameLeave      = "leave"
	FrameLayout     = "layout"
	FrameMeasure    = "measure"
)

// Server frame types.
const (
	FrameHello   = "hello"
	FrameMount   = "mount"
	FrameMove    = "move"
	FrameUnmount = "unmount"
	FrameError   = "error"
)

// Layout causes carried by layout frames.
const (
	CauseResize = "resize"
	CauseScroll = "scroll"
)

// ClientFrame is a message from the browser. Fields not used by a frame
// type are left zero.
type ClientFrame struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	// register
	Content   string       `json:"content,omitempty"`
	Side      tooltip.Side `json:"side,omitempty"`
	Delay     int64        `json:"delay,omitempty"`
	ClassName string       `json:"className,omitempty"`

	// layout
	Scroll   *tooltip.Scroll `json:"scroll,omitempty"`
	Viewport *tooltip.Size   `json:"viewport,omitempty"`
	Cause    string          `json:"cause,omitempty"`

	// register, measure
	Trigger *tooltip.Rect `json:"trigger,omitempty"`
	Surface *tooltip.Rect `json:"surface,omitempty"`
}

// ServerFrame is a message to the browser.
type ServerFrame struct {
	Type      string   `json:"type"`
	ID        string   `json:"id,omitempty"`
	Session   string   `json:"session,omitempty"`
	Content   string   `json:"content,omitempty"`
	ClassName string   `json:"className,omitempty"`
	Top       *float64 `json:"top,omitempty"`
	Left      *float64 `json:"left,omitempty"`
	Code      string   `json:"code,omitempty"`
	Message   string   `json:"message,omitempty"`
}

func decodeFrame(data []byte) (ClientFrame, error) {
	var f ClientFrame
	err := json.Unmarshal(data, &f)
	return f, err
}

func moveFrame(id string, pos tooltip.Position) ServerFrame {
	top, left := pos.Top, pos.Left
	return ServerFrame{Type: FrameMove, ID: id, Top: &top, Left: &left}
}
