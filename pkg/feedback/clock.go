package feedback

import "time"

// Clock abstracts wall time and timer scheduling so the lifecycle state
// machine can be driven deterministically in tests. Production code uses
// SystemClock.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules fn to run after d. A zero d still defers: fn
	// never runs synchronously inside AfterFunc.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is an outstanding scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the cancellation
	// prevented the callback from running.
	Stop() bool
}

// systemClock delegates to the time package.
type systemClock struct{}

// SystemClock returns the real-time Clock used by default.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{time.AfterFunc(d, fn)}
}

type systemTimer struct{ t *time.Timer }

func (t systemTimer) Stop() bool { return t.t.Stop() }
