// Package loop provides a single-goroutine UI event loop.
//
// Everything posted to a Loop runs on the same goroutine, in order. Timers
// created with AfterFunc deliver their callbacks through the same queue, so
// state owned by the loop (a tooltip.Positioner, for example) never needs a
// lock.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/lexmart/pkg/tooltip"
)

// ErrClosed is returned when posting to a closed Loop.
var ErrClosed = errors.New("loop: closed")

// ErrQueueFull is returned when the queue has no room for another callback.
var ErrQueueFull = errors.New("loop: queue full")

// DefaultQueueSize is the queue capacity used when Config.QueueSize is zero.
const DefaultQueueSize = 256

// Config configures a Loop.
type Config struct {
	// QueueSize is the number of callbacks that may wait to run.
	QueueSize int

	// Logger receives panics recovered from callbacks.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Loop runs callbacks on a dedicated goroutine.
type Loop struct {
	queue   chan func()
	done    chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
	once    sync.Once
	pending atomic.Int64
	logger  *slog.Logger
}

var _ tooltip.Scheduler = (*Loop)(nil)

// New starts a Loop.
func New(cfg Config) *Loop {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	l := &Loop{
		queue:   make(chan func(), cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		logger:  cfg.Logger,
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.queue:
			l.call(fn)
		case <-l.done:
			return
		}
	}
}

func (l *Loop) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop callback panicked",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Post queues fn without waiting for it to run. It is safe to call from any
// goroutine.
func (l *Loop) Post(fn func()) error {
	if l.closed.Load() {
		return ErrClosed
	}
	select {
	case l.queue <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	default:
		l.logger.Warn("loop queue full, dropping callback")
		return ErrQueueFull
	}
}

// Do runs fn on the loop and waits for it to return or for ctx to end.
// It must not be called from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrClosed
	}
}

// AfterFunc implements tooltip.Scheduler. fn runs on the loop goroutine once
// d has elapsed. Stopping the timer from the loop goroutine also suppresses a
// callback that has already fired but is still queued.
func (l *Loop) AfterFunc(d time.Duration, fn func()) tooltip.Timer {
	t := &timer{l: l}
	l.pending.Add(1)
	t.t = time.AfterFunc(d, func() {
		if !t.fired.CompareAndSwap(false, true) {
			return
		}
		l.pending.Add(-1)
		if err := l.Post(func() {
			if t.stopped.Load() {
				return
			}
			fn()
		}); err != nil {
			l.logger.Debug("timer callback dropped", "error", err)
		}
	})
	return t
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (l *Loop) Pending() int {
	return int(l.pending.Load())
}

// Close stops the loop and waits for the running callback to return.
// Queued callbacks are discarded. Close must not be called from the loop
// goroutine.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
	<-l.stopped
}

type timer struct {
	l       *Loop
	t       *time.Timer
	fired   atomic.Bool
	stopped atomic.Bool
}

func (t *timer) Stop() bool {
	t.stopped.Store(true)
	if !t.fired.CompareAndSwap(false, true) {
		return false
	}
	t.t.Stop()
	t.l.pending.Add(-1)
	return true
}
