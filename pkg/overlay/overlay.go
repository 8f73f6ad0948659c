// Package overlay provides the top-level mount target tooltips render into.
//
// Surfaces belong to one browser, so a Layer is created once per live
// session and passed by reference to every positioner in it. There is no
// package-level portal: tests build their own Layer, and two Layers never
// share state. Server-rendered pages carry only the empty Root, which the
// browser runtime mounts surfaces into.
package overlay

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/vango-dev/lexmart/pkg/tooltip"
	"github.com/vango-dev/lexmart/pkg/vdom"
)

// RootID is the id of the element Render returns.
const RootID = "overlay-root"

// EventType identifies a change to a Layer.
type EventType string

const (
	EventMount   EventType = "mount"
	EventMove    EventType = "move"
	EventUnmount EventType = "unmount"
)

// Event describes one change to a Layer. Listeners receive events after the
// Layer's lock has been released.
type Event struct {
	Type      EventType
	ID        string
	Content   any
	ClassName string
	Position  tooltip.Position
}

// Option configures a Layer.
type Option func(*Layer)

// WithListener registers fn to receive every Event.
func WithListener(fn func(Event)) Option {
	return func(l *Layer) {
		l.listener = fn
	}
}

// WithIDPrefix sets the prefix of generated surface ids. The default is "tip".
func WithIDPrefix(prefix string) Option {
	return func(l *Layer) {
		l.prefix = prefix
	}
}

// Layer holds the surfaces currently mounted. It is safe for concurrent use.
type Layer struct {
	mu       sync.Mutex
	seq      uint64
	surfaces map[string]*Surface
	prefix   string
	listener func(Event)
}

var _ tooltip.Overlay = (*Layer)(nil)

// New creates an empty Layer.
func New(opts ...Option) *Layer {
	l := &Layer{
		surfaces: make(map[string]*Surface),
		prefix:   "tip",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Mount implements tooltip.Overlay with a generated id.
func (l *Layer) Mount(content any, className string) tooltip.Surface {
	l.mu.Lock()
	l.seq++
	id := l.prefix + "-" + strconv.FormatUint(l.seq, 10)
	l.mu.Unlock()
	return l.MountID(id, content, className)
}

// MountID mounts content under a caller-chosen id. Mounting an id that is
// already present replaces the previous surface.
func (l *Layer) MountID(id string, content any, className string) *Surface {
	s := &Surface{
		layer:     l,
		id:        id,
		content:   content,
		className: className,
	}

	l.mu.Lock()
	prev := l.surfaces[id]
	if prev != nil {
		prev.unmounted = true
	}
	l.surfaces[id] = s
	l.mu.Unlock()

	if prev != nil {
		l.emit(Event{Type: EventUnmount, ID: id})
	}
	l.emit(Event{Type: EventMount, ID: id, Content: content, ClassName: className})
	return s
}

// Get returns the mounted surface with the given id.
func (l *Layer) Get(id string) (*Surface, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.surfaces[id]
	return s, ok
}

// Len returns the number of mounted surfaces.
func (l *Layer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.surfaces)
}

// Surfaces returns a snapshot of the mounted surfaces ordered by id.
func (l *Layer) Surfaces() []Snapshot {
	l.mu.Lock()
	out := make([]Snapshot, 0, len(l.surfaces))
	for _, s := range l.surfaces {
		out = append(out, s.snapshot())
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Root returns the portal root element holding children.
func Root(children ...*vdom.VNode) *vdom.VNode {
	return vdom.Div(
		vdom.ID(RootID),
		vdom.Data("overlay", "true"),
		children,
	)
}

// Render returns the portal root holding every mounted surface. Surfaces
// that have not been positioned yet render hidden.
func (l *Layer) Render() *vdom.VNode {
	snaps := l.Surfaces()
	return Root(vdom.Range(snaps, func(s Snapshot, _ int) *vdom.VNode {
		return renderSurface(s)
	})...)
}

func renderSurface(s Snapshot) *vdom.VNode {
	style := "position:absolute;visibility:hidden"
	if s.Placed {
		style = fmt.Sprintf("position:absolute;top:%gpx;left:%gpx", s.Position.Top, s.Position.Left)
	}
	return vdom.Div(
		vdom.Key(s.ID),
		vdom.ID(s.ID),
		vdom.Class("tooltip"),
		vdom.Class(s.ClassName),
		vdom.Role("tooltip"),
		vdom.StyleAttr(style),
		ContentNode(s.Content),
	)
}

// ContentNode converts opaque tooltip content into a node. Nodes and
// components are used as-is; anything else is rendered as text.
func ContentNode(content any) *vdom.VNode {
	switch c := content.(type) {
	case nil:
		return nil
	case *vdom.VNode:
		return c
	case vdom.Component:
		return vdom.Fragment(c)
	case string:
		return vdom.Text(c)
	case fmt.Stringer:
		return vdom.Text(c.String())
	default:
		return vdom.Text(fmt.Sprint(c))
	}
}

func (l *Layer) emit(ev Event) {
	if l.listener != nil {
		l.listener(ev)
	}
}

// Snapshot is a point-in-time copy of a surface.
type Snapshot struct {
	ID        string
	Content   any
	ClassName string
	Position  tooltip.Position
	Placed    bool
}

// Surface is a mounted tooltip node. It implements tooltip.Surface.
type Surface struct {
	layer     *Layer
	id        string
	content   any
	className string

	// guarded by layer.mu
	rect      tooltip.Rect
	measured  bool
	pos       tooltip.Position
	placed    bool
	unmounted bool
}

var _ tooltip.Surface = (*Surface)(nil)

// ID returns the surface id.
func (s *Surface) ID() string { return s.id }

// SetRect records the rendered size of the surface, as measured by the
// client.
func (s *Surface) SetRect(r tooltip.Rect) {
	s.layer.mu.Lock()
	s.rect = r
	s.measured = true
	s.layer.mu.Unlock()
}

// BoundingRect implements tooltip.Element. It reports false until SetRect
// has been called and after Unmount.
func (s *Surface) BoundingRect() (tooltip.Rect, bool) {
	s.layer.mu.Lock()
	defer s.layer.mu.Unlock()
	return s.rect, s.measured && !s.unmounted
}

// Move implements tooltip.Surface. Moving an unmounted surface does nothing.
func (s *Surface) Move(pos tooltip.Position) {
	s.layer.mu.Lock()
	if s.unmounted {
		s.layer.mu.Unlock()
		return
	}
	s.pos = pos
	s.placed = true
	s.layer.mu.Unlock()

	s.layer.emit(Event{Type: EventMove, ID: s.id, Position: pos})
}

// Unmount implements tooltip.Surface. It is idempotent.
func (s *Surface) Unmount() {
	l := s.layer
	l.mu.Lock()
	if s.unmounted {
		l.mu.Unlock()
		return
	}
	s.unmounted = true
	if l.surfaces[s.id] == s {
		delete(l.surfaces, s.id)
	}
	l.mu.Unlock()

	l.emit(Event{Type: EventUnmount, ID: s.id})
}

func (s *Surface) snapshot() Snapshot {
	return Snapshot{
		ID:        s.id,
		Content:   s.content,
		ClassName: s.className,
		Position:  s.pos,
		Placed:    s.placed,
	}
}
