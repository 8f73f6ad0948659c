package tooltip

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already ran or was already stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the UI goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Element is a rendered node whose geometry can be queried.
// ok is false while the node is not mounted or not yet laid out.
type Element interface {
	BoundingRect() (r Rect, ok bool)
}

// Layout exposes the viewport to a Positioner.
type Layout interface {
	Scroll() Scroll
	Viewport() Size

	// OnResize and OnScroll register fn and return a function that removes
	// the registration. The returned function must be safe to call twice.
	OnResize(fn func()) (remove func())
	OnScroll(fn func()) (remove func())
}

// Surface is a tooltip node mounted in an Overlay.
type Surface interface {
	Element

	// Move applies a document-coordinate position to the surface.
	Move(pos Position)

	// Unmount removes the surface from its overlay.
	Unmount()
}

// Overlay is the top-level mount point surfaces are rendered into.
type Overlay interface {
	Mount(content any, className string) Surface
}

// Release collects cleanup functions for resources acquired while a
// Positioner is visible. The zero value is ready to use.
type Release struct {
	fns []func()
}

// Add records fn to run on the next Run.
func (r *Release) Add(fn func()) {
	if fn != nil {
		r.fns = append(r.fns, fn)
	}
}

// Len returns the number of pending cleanups.
func (r *Release) Len() int {
	return len(r.fns)
}

// Run calls the recorded functions in reverse order and forgets them.
// Calling Run on an empty Release does nothing.
func (r *Release) Run() {
	fns := r.fns
	r.fns = nil
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
