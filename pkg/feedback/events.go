package feedback

import "github.com/vango-dev/feedback/pkg/eventbus"

// Events emitted by the Manager. Payloads are documented per constant;
// every event fires synchronously after the corresponding store mutation
// has committed.
const (
	// EventAdded fires after an item is inserted. Payload: *Item.
	EventAdded eventbus.Event = "feedback:added"

	// EventUpdated fires after an options patch. Payload: *Item.
	EventUpdated eventbus.Event = "feedback:updated"

	// EventStatusChanged fires on every lifecycle transition.
	// Payload: StatusChange.
	EventStatusChanged eventbus.Event = "feedback:statusChanged"

	// EventRemoved fires after an item is deleted from the store.
	// Payload: Removed.
	EventRemoved eventbus.Event = "feedback:removed"

	// EventCleared fires once per RemoveAll batch. Payload: Cleared.
	EventCleared eventbus.Event = "feedback:cleared"

	// EventQueueOverflow fires when admission control rejects an Add.
	// Payload: Overflow.
	EventQueueOverflow eventbus.Event = "queue:overflow"
)

// Events lists every event the Manager emits, in a stable order. Consumers
// that relay the full stream (e.g. the websocket server) subscribe to each.
var Events = []eventbus.Event{
	EventAdded,
	EventUpdated,
	EventStatusChanged,
	EventRemoved,
	EventCleared,
	EventQueueOverflow,
}

// StatusChange is the EventStatusChanged payload.
type StatusChange struct {
	ID   string `json:"id"`
	From Status `json:"from"`
	To   Status `json:"to"`
}

// Removed is the EventRemoved payload.
type Removed struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`
}

// Cleared is the EventCleared payload.
type Cleared struct {
	Type Type `json:"type"`
}

// Overflow is the EventQueueOverflow payload. Rejected is the candidate
// item that admission control refused; it was never inserted into the
// store.
type Overflow struct {
	Rejected *Item `json:"rejected"`
}
