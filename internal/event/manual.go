package event

import (
	"sort"
	"time"
)

// Manual is a deterministic Scheduler driven by explicit calls to Advance and
// Frame. Callbacks run synchronously on the caller's goroutine. It is meant
// for tests and for replaying recorded event sequences; it is not safe for
// concurrent use.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
	frames []func()
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	m.seq++
	t := &manualTimer{due: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(fn func()) {
	m.frames = append(m.frames, fn)
}

// Advance moves virtual time forward by d, firing every timer that falls due
// in order of due time, then scheduling order. Timers scheduled by a firing
// callback are honoured if they fall inside the same window.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		next := m.nextDue(end)
		if next == nil {
			break
		}
		m.now = next.due
		next.stopped = true
		next.fn()
	}
	m.now = end
	m.compact()
}

func (m *Manual) nextDue(end time.Duration) *manualTimer {
	var pending []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && t.due <= end {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return nil
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].due != pending[j].due {
			return pending[i].due < pending[j].due
		}
		return pending[i].seq < pending[j].seq
	})
	return pending[0]
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	m.timers = live
}

// Frame runs the callbacks queued before the call and returns how many ran.
// Callbacks requested while the frame runs wait for the next Frame.
func (m *Manual) Frame() int {
	frames := m.frames
	m.frames = nil
	for _, fn := range frames {
		fn()
	}
	return len(frames)
}

// PendingTimers reports how many timers have not fired or been stopped.
func (m *Manual) PendingTimers() int {
	n := 0
	for _, t := range m.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// PendingFrames reports how many frame callbacks are queued.
func (m *Manual) PendingFrames() int { return len(m.frames) }
