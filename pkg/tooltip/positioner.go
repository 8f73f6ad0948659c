package tooltip

import (
	"log/slog"
	"time"
)

// State is the visibility state of a Positioner.
type State uint8

const (
	StateHidden  State = iota // no timer, no surface
	StatePending              // activation scheduled
	StateVisible              // surface mounted and tracking layout
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateHidden:
		return "hidden"
	case StatePending:
		return "pending"
	case StateVisible:
		return "visible"
	default:
		return "unknown"
	}
}

// Config is the host-supplied tooltip configuration.
type Config struct {
	// Content is passed to Overlay.Mount unchanged.
	Content any

	// Side is the placement side. Empty means DefaultSide.
	Side Side

	// Delay is the time between pointer entry and the surface appearing.
	// Negative values are treated as zero.
	Delay time.Duration

	// ClassName is passed to Overlay.Mount unchanged.
	ClassName string
}

func (c Config) normalize() Config {
	if c.Side == "" {
		c.Side = DefaultSide
	}
	if c.Delay < 0 {
		c.Delay = 0
	}
	return c
}

// Observer receives lifecycle notifications. Implementations must not call
// back into the Positioner.
type Observer interface {
	Shown()
	Hidden()
	ActivationCancelled()
	// ListenersChanged reports a change in the number of live layout
	// subscriptions held by the Positioner.
	ListenersChanged(delta int)
	Fault(err error)
}

type nopObserver struct{}

func (nopObserver) Shown()               {}
func (nopObserver) Hidden()              {}
func (nopObserver) ActivationCancelled() {}
func (nopObserver) ListenersChanged(int) {}
func (nopObserver) Fault(error)          {}

// Option configures a Positioner.
type Option func(*Positioner)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Positioner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(obs Observer) Option {
	return func(p *Positioner) {
		if obs != nil {
			p.obs = obs
		}
	}
}

// Positioner owns the show/hide lifecycle of one tooltip.
//
// The surface is mounted if and only if State() == StateVisible, and at
// most one activation timer is outstanding at any time.
type Positioner struct {
	cfg     Config
	trigger Element
	layout  Layout
	overlay Overlay
	sched   Scheduler
	logger  *slog.Logger
	obs     Observer

	state   State
	timer   Timer
	gen     uint64
	surface Surface
	pos     Position
	placed  bool

	listeners Release
	disposed  bool
}

// New creates a hidden Positioner for trigger.
// layout, overlay and sched are required.
func New(trigger Element, layout Layout, overlay Overlay, sched Scheduler, cfg Config, opts ...Option) *Positioner {
	if layout == nil || overlay == nil || sched == nil {
		panic("tooltip: New requires a layout, an overlay and a scheduler")
	}

	p := &Positioner{
		trigger: trigger,
		layout:  layout,
		overlay: overlay,
		sched:   sched,
		logger:  slog.Default(),
		obs:     nopObserver{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.setConfig(cfg)
	return p
}

// State returns the current visibility state.
func (p *Positioner) State() State {
	return p.state
}

// Visible reports whether the surface is mounted.
func (p *Positioner) Visible() bool {
	return p.state == StateVisible
}

// Config returns the effective configuration.
func (p *Positioner) Config() Config {
	return p.cfg
}

// Position returns the last applied position. ok is false until a position
// has been applied since the surface was mounted.
func (p *Positioner) Position() (pos Position, ok bool) {
	return p.pos, p.placed
}

// PointerEnter schedules the surface to appear after the configured delay.
// A zero delay still goes through the Scheduler. Entering while visible
// does nothing.
func (p *Positioner) PointerEnter() {
	if p.disposed || p.state == StateVisible {
		return
	}

	p.cancelTimer()
	p.state = StatePending
	gen := p.gen
	p.timer = p.sched.AfterFunc(p.cfg.Delay, func() {
		p.activate(gen)
	})
}

// PointerLeave cancels a pending activation and hides immediately.
func (p *Positioner) PointerLeave() {
	p.hide()
}

// Hide cancels a pending activation and unmounts the surface.
// Calling Hide on a hidden Positioner does nothing.
func (p *Positioner) Hide() {
	p.hide()
}

// Unmount hides the Positioner and detaches it permanently. Later pointer
// events are ignored.
func (p *Positioner) Unmount() {
	p.hide()
	p.disposed = true
}

// Reconfigure applies a new configuration. Any timer, subscription and
// surface held under the old configuration is released first.
func (p *Positioner) Reconfigure(cfg Config) {
	p.hide()
	p.setConfig(cfg)
}

// ComputePosition measures the trigger and the surface, computes the
// clamped position and applies it to the surface. It does nothing and
// returns false when either cannot be measured.
func (p *Positioner) ComputePosition() (Position, bool) {
	return p.place(true)
}

// place is ComputePosition. Missing geometry is reported to the observer
// only when report is set.
func (p *Positioner) place(report bool) (Position, bool) {
	if p.surface == nil || p.trigger == nil {
		p.skip(report)
		return Position{}, false
	}

	trigger, ok := p.trigger.BoundingRect()
	if !ok {
		p.skip(report)
		return Position{}, false
	}
	surface, ok := p.surface.BoundingRect()
	if !ok {
		p.skip(report)
		return Position{}, false
	}

	pos := Compute(p.cfg.Side, trigger, surface, p.layout.Scroll(), p.layout.Viewport())
	p.surface.Move(pos)
	p.pos = pos
	p.placed = true
	return pos, true
}

func (p *Positioner) setConfig(cfg Config) {
	p.cfg = cfg.normalize()
	if !p.cfg.Side.Valid() {
		p.logger.Debug("tooltip placement not recognized, using top",
			"side", string(p.cfg.Side))
		p.obs.Fault(ErrInvalidPlacement)
	}
}

// activate is the timer callback. gen identifies the PointerEnter that
// scheduled it; any later enter or leave bumps the generation.
func (p *Positioner) activate(gen uint64) {
	if p.disposed || gen != p.gen || p.state != StatePending {
		return
	}
	p.timer = nil
	p.show()
}

func (p *Positioner) show() {
	p.state = StateVisible
	p.surface = p.overlay.Mount(p.cfg.Content, p.cfg.ClassName)

	p.listeners.Add(p.layout.OnResize(p.recompute))
	p.listeners.Add(p.layout.OnScroll(p.recompute))
	p.obs.ListenersChanged(p.listeners.Len())
	p.obs.Shown()

	// A surface mounted remotely has no geometry until it is measured.
	p.place(false)
}

func (p *Positioner) recompute() {
	if p.state != StateVisible {
		return
	}
	p.ComputePosition()
}

func (p *Positioner) hide() {
	p.cancelTimer()

	if p.state == StateVisible {
		n := p.listeners.Len()
		p.listeners.Run()
		p.obs.ListenersChanged(-n)

		if p.surface != nil {
			p.surface.Unmount()
			p.surface = nil
		}
		p.placed = false
		p.obs.Hidden()
	}
	p.state = StateHidden
}

// cancelTimer invalidates any scheduled activation. The generation bump
// covers callbacks that fired but have not reached the UI goroutine yet.
func (p *Positioner) cancelTimer() {
	p.gen++
	if p.timer == nil {
		return
	}
	p.timer.Stop()
	p.timer = nil
	p.obs.ActivationCancelled()
}

func (p *Positioner) skip(report bool) {
	p.logger.Debug("tooltip position skipped", "error", ErrGeometryUnavailable)
	if report {
		p.obs.Fault(ErrGeometryUnavailable)
	}
}
