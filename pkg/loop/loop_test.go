package loop

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	l := New(Config{QueueSize: 16, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	t.Cleanup(l.Close)
	return l
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

func TestLoop_RunsInOrder(t *testing.T) {
	l := newTestLoop(t)

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		if err := l.Post(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Post: %v", err)
		}
	}
	if err := l.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do: %v", err)
	}

	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want ascending order", got)
		}
	}
}

func TestLoop_AfterFuncRunsOnLoop(t *testing.T) {
	l := newTestLoop(t)

	var loopCalls, timerCalls atomic.Int32
	done := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() {
		timerCalls.Add(1)
		close(done)
	})
	if l.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", l.Pending())
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
	_ = l.Do(context.Background(), func() { loopCalls.Add(1) })

	if timerCalls.Load() != 1 || loopCalls.Load() != 1 {
		t.Fatalf("timer=%d loop=%d", timerCalls.Load(), loopCalls.Load())
	}
	if l.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", l.Pending())
	}
}

func TestLoop_StopBeforeFire(t *testing.T) {
	l := newTestLoop(t)

	var ran atomic.Bool
	tm := l.AfterFunc(20*time.Millisecond, func() { ran.Store(true) })
	if !tm.Stop() {
		t.Fatal("Stop before fire should report true")
	}
	if tm.Stop() {
		t.Fatal("second Stop should report false")
	}

	time.Sleep(40 * time.Millisecond)
	_ = l.Do(context.Background(), func() {})
	if ran.Load() {
		t.Fatal("stopped timer ran")
	}
	if l.Pending() != 0 {
		t.Fatalf("pending = %d, want 0", l.Pending())
	}
}

func TestLoop_StopSuppressesQueuedCallback(t *testing.T) {
	l := newTestLoop(t)

	block := make(chan struct{})
	if err := l.Post(func() { <-block }); err != nil {
		t.Fatalf("Post: %v", err)
	}

	var ran atomic.Bool
	tm := l.AfterFunc(time.Millisecond, func() { ran.Store(true) })
	waitFor(t, func() bool { return l.Pending() == 0 })

	if tm.Stop() {
		t.Fatal("Stop after fire should report false")
	}
	close(block)
	_ = l.Do(context.Background(), func() {})

	if ran.Load() {
		t.Fatal("queued callback ran after Stop")
	}
}

func TestLoop_RecoversFromPanic(t *testing.T) {
	l := newTestLoop(t)

	_ = l.Post(func() { panic("boom") })
	var ok bool
	if err := l.Do(context.Background(), func() { ok = true }); err != nil {
		t.Fatalf("Do after panic: %v", err)
	}
	if !ok {
		t.Fatal("loop stopped after panic")
	}
}

func TestLoop_Closed(t *testing.T) {
	l := New(Config{})
	l.Close()
	l.Close()

	if err := l.Post(func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Post after Close = %v, want ErrClosed", err)
	}
	if err := l.Do(context.Background(), func() {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Do after Close = %v, want ErrClosed", err)
	}
}

func TestLoop_DoHonoursContext(t *testing.T) {
	l := newTestLoop(t)

	block := make(chan struct{})
	defer close(block)
	_ = l.Post(func() { <-block })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Do(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Do = %v, want deadline exceeded", err)
	}
}

func TestLoop_QueueFull(t *testing.T) {
	l := New(Config{QueueSize: 1, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	defer l.Close()

	block := make(chan struct{})
	defer close(block)
	started := make(chan struct{})
	_ = l.Post(func() {
		close(started)
		<-block
	})
	<-started

	if err := l.Post(func() {}); err != nil {
		t.Fatalf("first queued Post: %v", err)
	}
	if err := l.Post(func() {}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Post = %v, want ErrQueueFull", err)
	}
}
