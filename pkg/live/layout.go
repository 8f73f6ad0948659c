package live

import (
	"sort"

	"github.com/vango-dev/lexmart/pkg/tooltip"
)

// remoteLayout mirrors the browser viewport as reported by layout frames.
// It is owned by the session loop.
type remoteLayout struct {
	scroll   tooltip.Scroll
	viewport tooltip.Size
	seq      int
	resize   map[int]func()
	scrolled map[int]func()
}

var _ tooltip.Layout = (*remoteLayout)(nil)

func newRemoteLayout() *remoteLayout {
	return &remoteLayout{
		resize:   make(map[int]func()),
		scrolled: make(map[int]func()),
	}
}

func (l *remoteLayout) Scroll() tooltip.Scroll { return l.scroll }
func (l *remoteLayout) Viewport() tooltip.Size { return l.viewport }

func (l *remoteLayout) OnResize(fn func()) func() { return l.add(l.resize, fn) }
func (l *remoteLayout) OnScroll(fn func()) func() { return l.add(l.scrolled, fn) }

func (l *remoteLayout) add(set map[int]func(), fn func()) func() {
	l.seq++
	id := l.seq
	set[id] = fn
	return func() { delete(set, id) }
}

func (l *remoteLayout) listeners() int {
	return len(l.resize) + len(l.scrolled)
}

// apply records a layout report and notifies the listeners for its cause.
// Reports without a cause only update state.
func (l *remoteLayout) apply(f ClientFrame) {
	if f.Scroll != nil {
		l.scroll = *f.Scroll
	}
	if f.Viewport != nil {
		l.viewport = *f.Viewport
	}

	switch f.Cause {
	case CauseResize:
		notify(l.resize)
	case CauseScroll:
		notify(l.scrolled)
	}
}

// notify runs listeners in registration order. A listener removed by an
// earlier one is skipped.
func notify(set map[int]func()) {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := set[id]; ok {
			fn()
		}
	}
}

// remoteElement is a trigger whose rectangle the browser reports. The rect
// arrives in viewport coordinates and is stored in document coordinates,
// so later scroll reports move it without a fresh measurement.
type remoteElement struct {
	layout   *remoteLayout
	doc      tooltip.Rect
	measured bool
}

func newRemoteElement(l *remoteLayout) *remoteElement {
	return &remoteElement{layout: l}
}

// BoundingRect returns the rect in viewport coordinates for the current
// scroll offsets.
func (e *remoteElement) BoundingRect() (tooltip.Rect, bool) {
	scroll := e.layout.Scroll()
	r := e.doc
	r.Top -= scroll.Top
	r.Left -= scroll.Left
	return r, e.measured
}

// set records a viewport rect measured at the current scroll offsets.
func (e *remoteElement) set(r tooltip.Rect) {
	scroll := e.layout.Scroll()
	r.Top += scroll.Top
	r.Left += scroll.Left
	e.doc = r
	e.measured = true
}
