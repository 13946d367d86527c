// Package event models the page's single-threaded event loop: handlers run to
// completion one at a time, timers and animation frames are delivered on the
// same loop, and nothing in the navigation layer needs a lock.
package event

import "time"

// DefaultFrameInterval approximates one paint cycle at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// callback was still pending.
	Stop() bool
}

// Scheduler delivers deferred work onto a single dispatch thread.
type Scheduler interface {
	// AfterFunc runs fn once, d after the call, unless the returned Timer
	// is stopped first.
	AfterFunc(d time.Duration, fn func()) Timer

	// RequestFrame runs fn once on the next animation frame.
	RequestFrame(fn func())
}
