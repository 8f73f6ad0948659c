// Package tooltiptest provides deterministic fakes for the tooltip runtime
// boundary. Every fake counts the resources it hands out so tests can assert
// that nothing leaks.
//
//	sched := tooltiptest.NewScheduler()
//	layout := tooltiptest.NewLayout(tooltip.Size{Width: 1024, Height: 768})
//	ov := tooltiptest.NewOverlay(tooltip.Rect{Width: 80, Height: 24})
//	trigger := tooltiptest.NewElement(tooltip.Rect{Top: 100, Left: 100, Width: 50, Height: 20})
//
//	p := tooltip.New(trigger, layout, ov, sched, tooltip.Config{Delay: 200 * time.Millisecond})
//	p.PointerEnter()
//	sched.Advance(200 * time.Millisecond)
package tooltiptest

import (
	"sort"
	"time"

	"github.com/vango-dev/lexmart/pkg/tooltip"
)

// Scheduler is a manual-clock tooltip.Scheduler. Callbacks run
// synchronously inside Advance or Flush.
type Scheduler struct {
	now     time.Duration
	seq     int
	pending map[int]*timer
	maxLive int
}

type timer struct {
	s  *Scheduler
	id int
	at time.Duration
	fn func()
}

// NewScheduler returns a Scheduler at time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[int]*timer)}
}

// AfterFunc implements tooltip.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) tooltip.Timer {
	s.seq++
	t := &timer{s: s, id: s.seq, at: s.now + d, fn: fn}
	s.pending[t.id] = t
	if len(s.pending) > s.maxLive {
		s.maxLive = len(s.pending)
	}
	return t
}

func (t *timer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *Scheduler) Pending() int {
	return len(s.pending)
}

// MaxPending returns the highest Pending value observed.
func (s *Scheduler) MaxPending() int {
	return s.maxLive
}

// Now returns the current manual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Advance moves the clock forward by d, running due callbacks in deadline
// order.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.next(target)
		if t == nil {
			break
		}
		s.now = t.at
		delete(s.pending, t.id)
		t.fn()
	}
	s.now = target
}

// Flush runs every callback due at the current time. It models the next
// scheduling opportunity for zero-delay timers.
func (s *Scheduler) Flush() {
	s.Advance(0)
}

func (s *Scheduler) next(limit time.Duration) *timer {
	due := make([]*timer, 0, len(s.pending))
	for _, t := range s.pending {
		if t.at <= limit {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

// Element is a trigger whose rectangle tests set directly.
type Element struct {
	rect    tooltip.Rect
	mounted bool
}

// NewElement returns a mounted Element with rect r.
func NewElement(r tooltip.Rect) *Element {
	return &Element{rect: r, mounted: true}
}

// BoundingRect implements tooltip.Element.
func (e *Element) BoundingRect() (tooltip.Rect, bool) {
	return e.rect, e.mounted
}

// SetRect replaces the rectangle.
func (e *Element) SetRect(r tooltip.Rect) {
	e.rect = r
}

// SetMounted toggles geometry availability.
func (e *Element) SetMounted(mounted bool) {
	e.mounted = mounted
}

// Layout is a tooltip.Layout whose viewport and scroll tests drive.
type Layout struct {
	scroll   tooltip.Scroll
	viewport tooltip.Size
	seq      int
	resize   map[int]func()
	onScroll map[int]func()
}

// NewLayout returns a Layout with the given viewport and zero scroll.
func NewLayout(viewport tooltip.Size) *Layout {
	return &Layout{
		viewport: viewport,
		resize:   make(map[int]func()),
		onScroll: make(map[int]func()),
	}
}

// Scroll implements tooltip.Layout.
func (l *Layout) Scroll() tooltip.Scroll { return l.scroll }

// Viewport implements tooltip.Layout.
func (l *Layout) Viewport() tooltip.Size { return l.viewport }

// OnResize implements tooltip.Layout.
func (l *Layout) OnResize(fn func()) func() {
	return l.add(l.resize, fn)
}

// OnScroll implements tooltip.Layout.
func (l *Layout) OnScroll(fn func()) func() {
	return l.add(l.onScroll, fn)
}

func (l *Layout) add(set map[int]func(), fn func()) func() {
	l.seq++
	id := l.seq
	set[id] = fn
	return func() { delete(set, id) }
}

// Listeners returns the number of live resize and scroll registrations.
func (l *Layout) Listeners() int {
	return len(l.resize) + len(l.onScroll)
}

// Resize changes the viewport and notifies resize listeners.
func (l *Layout) Resize(viewport tooltip.Size) {
	l.viewport = viewport
	fire(l.resize)
}

// ScrollTo changes the scroll offsets and notifies scroll listeners.
func (l *Layout) ScrollTo(scroll tooltip.Scroll) {
	l.scroll = scroll
	fire(l.onScroll)
}

func fire(set map[int]func()) {
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

// Overlay is a tooltip.Overlay that records mounts.
type Overlay struct {
	// SurfaceRect is the rectangle new surfaces report.
	SurfaceRect tooltip.Rect
	// Unmeasured makes new surfaces report no geometry.
	Unmeasured bool

	mounted map[*Surface]struct{}
	mounts  int
	last    *Surface
}

// NewOverlay returns an Overlay whose surfaces measure as r.
func NewOverlay(r tooltip.Rect) *Overlay {
	return &Overlay{SurfaceRect: r, mounted: make(map[*Surface]struct{})}
}

// Mount implements tooltip.Overlay.
func (o *Overlay) Mount(content any, className string) tooltip.Surface {
	s := &Surface{
		o:         o,
		Content:   content,
		ClassName: className,
		rect:      o.SurfaceRect,
		measured:  !o.Unmeasured,
	}
	o.mounted[s] = struct{}{}
	o.mounts++
	o.last = s
	return s
}

// Mounted returns the number of surfaces currently mounted.
func (o *Overlay) Mounted() int {
	return len(o.mounted)
}

// Mounts returns the total number of Mount calls.
func (o *Overlay) Mounts() int {
	return o.mounts
}

// Last returns the most recently mounted surface, or nil.
func (o *Overlay) Last() *Surface {
	return o.last
}

// Surface is a fake mounted surface.
type Surface struct {
	Content   any
	ClassName string

	o        *Overlay
	rect     tooltip.Rect
	measured bool
	moves    []tooltip.Position
	unmounts int
}

// BoundingRect implements tooltip.Element.
func (s *Surface) BoundingRect() (tooltip.Rect, bool) {
	return s.rect, s.measured
}

// SetMeasured makes the surface report r from now on.
func (s *Surface) SetMeasured(r tooltip.Rect) {
	s.rect = r
	s.measured = true
}

// Move implements tooltip.Surface.
func (s *Surface) Move(pos tooltip.Position) {
	s.moves = append(s.moves, pos)
}

// Moves returns every position applied, oldest first.
func (s *Surface) Moves() []tooltip.Position {
	return s.moves
}

// Unmount implements tooltip.Surface.
func (s *Surface) Unmount() {
	s.unmounts++
	delete(s.o.mounted, s)
}

// Unmounts returns how many times Unmount was called.
func (s *Surface) Unmounts() int {
	return s.unmounts
}
