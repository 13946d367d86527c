package event

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// LoopOptions tunes a Loop.
type LoopOptions struct {
	// FrameInterval is the paint cycle used for RequestFrame. Default: 16ms.
	FrameInterval time.Duration
	// Logger receives handler panics. Default: slog.Default().
	Logger *slog.Logger
}

func (o *LoopOptions) defaults() {
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Loop is a single-goroutine dispatcher. Every posted task, timer callback and
// frame callback runs on the goroutine that called Run, in arrival order, and
// runs to completion before the next one starts.
type Loop struct {
	opts LoopOptions

	mu      sync.Mutex
	queue   []func()
	frames  []func()
	framing bool
	closed  bool

	wake chan struct{}
}

// NewLoop creates a Loop. Call Run to start dispatching.
func NewLoop(opts LoopOptions) *Loop {
	opts.defaults()
	return &Loop{
		opts: opts,
		wake: make(chan struct{}, 1),
	}
}

// Post enqueues fn. It never blocks, so it is safe to call from handlers
// running on the loop itself. It reports false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run dispatches tasks until ctx is cancelled. Pending tasks are dropped on
// return, the way a page discards callbacks on unload.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.closed = true
		l.queue = nil
		l.frames = nil
		l.mu.Unlock()
	}()

	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.dispatch(fn)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.opts.Logger.Error("event handler panicked", "panic", r)
		}
	}()
	fn()
}

// AfterFunc schedules fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			// The timer may have been stopped after it fired but before
			// this task reached the front of the queue.
			if lt.stopped.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return lt
}

// RequestFrame queues fn for the next frame tick.
func (l *Loop) RequestFrame(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.frames = append(l.frames, fn)
	if l.framing {
		return
	}
	l.framing = true
	time.AfterFunc(l.opts.FrameInterval, func() { l.Post(l.runFrame) })
}

func (l *Loop) runFrame() {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.framing = false
	l.mu.Unlock()

	for _, fn := range frames {
		l.dispatch(fn)
	}
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (lt *loopTimer) Stop() bool {
	lt.t.Stop()
	return lt.stopped.CompareAndSwap(false, true)
}
