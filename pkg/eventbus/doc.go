// Package eventbus provides a typed, synchronous in-process publish/subscribe
// hub for feedback lifecycle events.
//
// Handlers run synchronously on the emitting goroutine, in subscription
// order. A handler that panics is recovered and logged; remaining handlers
// still run, so one faulty listener cannot break the others.
//
// Usage:
//
//	bus := eventbus.New(nil)
//
//	unsub := bus.On("feedback:added", func(payload any) {
//	    item := payload.(*feedback.Item)
//	    render(item)
//	})
//	defer unsub()
//
//	bus.Emit("feedback:added", item)
//
// There is no queuing and no async scheduling: Emit returns after every
// handler has run.
package eventbus
