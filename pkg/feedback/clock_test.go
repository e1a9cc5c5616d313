package feedback

import (
	"sync"
	"testing"
	"time"
)

// fakeClock drives scheduled transitions deterministically. Advance fires
// due timers in deadline order, breaking ties by scheduling order, so
// equal-delay callbacks never starve or reorder.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

type fakeTimer struct {
	clock    *fakeClock
	deadline time.Time
	seq      uint64
	fn       func()
	stopped  bool
	fired    bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &fakeTimer{clock: c, deadline: c.now.Add(d), seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d, firing every due timer in order.
// Callbacks run without the clock lock held, so they may schedule further
// timers; a callback scheduled within the advanced window fires in the
// same call.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		next := c.nextDueLocked(target)
		if next == nil {
			break
		}
		if next.deadline.After(c.now) {
			c.now = next.deadline
		}
		next.fired = true
		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

func (c *fakeClock) nextDueLocked(target time.Time) *fakeTimer {
	var next *fakeTimer
	for _, t := range c.timers {
		if t.fired || t.stopped || t.deadline.After(target) {
			continue
		}
		if next == nil ||
			t.deadline.Before(next.deadline) ||
			(t.deadline.Equal(next.deadline) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func TestFakeClockFiresInDeadlineOrder(t *testing.T) {
	clock := newFakeClock()

	var order []string
	clock.AfterFunc(20*time.Millisecond, func() { order = append(order, "b") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "a2") })

	clock.Advance(30 * time.Millisecond)

	want := []string{"a", "a2", "b"}
	for i, w := range want {
		if i >= len(order) || order[i] != w {
			t.Fatalf("fire order = %v, want %v", order, want)
		}
	}
}

func TestFakeClockStop(t *testing.T) {
	clock := newFakeClock()

	fired := false
	timer := clock.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop on pending timer returned false")
	}
	clock.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
	if timer.Stop() {
		t.Error("second Stop returned true")
	}
}

func TestFakeClockZeroDelayDefers(t *testing.T) {
	clock := newFakeClock()

	fired := false
	clock.AfterFunc(0, func() { fired = true })

	if fired {
		t.Fatal("zero-delay callback ran synchronously")
	}
	clock.Advance(0)
	if !fired {
		t.Fatal("zero-delay callback did not fire on Advance(0)")
	}
}
