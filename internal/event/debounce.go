package event

import "time"

// DefaultDebounce is the quiet period applied to query input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer collapses a burst of triggers into one call fired Wait after the
// last trigger. There is at most one pending call at any time: each Trigger
// cancels the previous one. Trigger and Cancel must be called from the
// scheduler's dispatch thread.
type Debouncer struct {
	sched Scheduler
	wait  time.Duration
	fn    func(string)
	timer Timer
}

// NewDebouncer creates a Debouncer that calls fn with the last triggered
// value. A non-positive wait uses DefaultDebounce.
func NewDebouncer(sched Scheduler, wait time.Duration, fn func(string)) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{sched: sched, wait: wait, fn: fn}
}

// Trigger (re)starts the window with value v.
func (d *Debouncer) Trigger(v string) {
	d.Cancel()
	d.timer = d.sched.AfterFunc(d.wait, func() {
		d.timer = nil
		d.fn(v)
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool { return d.timer != nil }

// Throttle coalesces requests so fn runs at most once per animation frame,
// however many raw events arrive in between.
type Throttle struct {
	sched   Scheduler
	fn      func()
	ticking bool
}

// NewThrottle creates a frame-rate Throttle around fn.
func NewThrottle(sched Scheduler, fn func()) *Throttle {
	return &Throttle{sched: sched, fn: fn}
}

// Request schedules fn for the next frame unless one is already scheduled.
func (t *Throttle) Request() {
	if t.ticking {
		return
	}
	t.ticking = true
	t.sched.RequestFrame(func() {
		t.ticking = false
		t.fn()
	})
}
