package eventbus

import (
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// Event names a bus topic, e.g. "feedback:added".
type Event string

// Handler receives the payload passed to Emit.
type Handler func(payload any)

// UnsubscribeFunc removes the handler it was returned for. Calling it more
// than once is a no-op.
type UnsubscribeFunc func()

// entry is a single registered handler.
type entry struct {
	id   uint64
	fn   Handler
	once bool
}

// Bus is a synchronous publish/subscribe hub.
// The zero value is not usable; construct with New.
type Bus struct {
	mu       sync.Mutex
	handlers map[Event][]*entry
	nextID   uint64

	logger *slog.Logger
}

// New creates a Bus. A nil logger defaults to slog.Default().
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[Event][]*entry),
		logger:   logger.With("component", "eventbus"),
	}
}

// On registers a handler for event and returns an unsubscribe function that
// removes exactly this registration.
func (b *Bus) On(event Event, fn Handler) UnsubscribeFunc {
	return b.subscribe(event, fn, false)
}

// Once registers a handler that fires at most once and then removes itself.
// The returned unsubscribe function is valid even before the first emission.
func (b *Bus) Once(event Event, fn Handler) UnsubscribeFunc {
	return b.subscribe(event, fn, true)
}

func (b *Bus) subscribe(event Event, fn Handler, once bool) UnsubscribeFunc {
	if fn == nil {
		return func() {}
	}

	b.mu.Lock()
	b.nextID++
	e := &entry{id: b.nextID, fn: fn, once: once}
	b.handlers[event] = append(b.handlers[event], e)
	b.mu.Unlock()

	id := e.id
	return func() {
		b.removeByID(event, id)
	}
}

// Off removes a specific handler from event. The handler is matched by
// function identity, so the caller must pass the same func value that was
// registered. A handler that is not found is a no-op.
func (b *Bus) Off(event Event, fn Handler) {
	if fn == nil {
		return
	}
	ptr := reflect.ValueOf(fn).Pointer()

	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.handlers[event]
	for i, e := range entries {
		if reflect.ValueOf(e.fn).Pointer() == ptr {
			b.handlers[event] = append(entries[:i:i], entries[i+1:]...)
			b.compact(event)
			return
		}
	}
}

// Emit invokes all handlers registered for event synchronously, in
// subscription order. Handlers may subscribe or unsubscribe re-entrantly;
// the dispatch list is snapshotted before the first invocation.
func (b *Bus) Emit(event Event, payload any) {
	b.mu.Lock()
	entries := b.handlers[event]
	snapshot := make([]*entry, len(entries))
	copy(snapshot, entries)

	// Claim once-handlers before dispatch so a re-entrant Emit cannot
	// fire them twice.
	for _, e := range snapshot {
		if e.once {
			b.removeLocked(event, e.id)
		}
	}
	b.mu.Unlock()

	for _, e := range snapshot {
		b.invoke(event, e, payload)
	}
}

// invoke runs a single handler with panic isolation.
func (b *Bus) invoke(event Event, e *entry, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				"event", string(event),
				"panic", r)
		}
	}()
	e.fn(payload)
}

// RemoveListeners removes every handler registered for event.
func (b *Bus) RemoveListeners(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, event)
}

// RemoveAllListeners removes every handler for every event.
func (b *Bus) RemoveAllListeners() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[Event][]*entry)
}

// ListenerCount returns the number of handlers registered for event.
func (b *Bus) ListenerCount(event Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[event])
}

// HasListeners reports whether any handler is registered for event.
func (b *Bus) HasListeners(event Event) bool {
	return b.ListenerCount(event) > 0
}

// EventNames returns the events that currently have at least one handler,
// sorted for deterministic output.
func (b *Bus) EventNames() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]Event, 0, len(b.handlers))
	for event, entries := range b.handlers {
		if len(entries) > 0 {
			names = append(names, event)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (b *Bus) removeByID(event Event, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(event, id)
}

func (b *Bus) removeLocked(event Event, id uint64) {
	entries := b.handlers[event]
	for i, e := range entries {
		if e.id == id {
			b.handlers[event] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	b.compact(event)
}

func (b *Bus) compact(event Event) {
	if len(b.handlers[event]) == 0 {
		delete(b.handlers, event)
	}
}
