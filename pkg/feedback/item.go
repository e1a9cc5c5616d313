package feedback

import "time"

// Type identifies the kind of feedback widget an item drives.
type Type string

const (
	TypeToast      Type = "toast"
	TypeModal      Type = "modal"
	TypeLoading    Type = "loading"
	TypeAlert      Type = "alert"
	TypeProgress   Type = "progress"
	TypeConfirm    Type = "confirm"
	TypeBanner     Type = "banner"
	TypeDrawer     Type = "drawer"
	TypePopconfirm Type = "popconfirm"
	TypeSkeleton   Type = "skeleton"
	TypeResult     Type = "result"
	TypeConnection Type = "connection"
	TypePrompt     Type = "prompt"
	TypeSheet      Type = "sheet"
)

// Types lists every feedback type, in a stable order.
var Types = []Type{
	TypeToast, TypeModal, TypeLoading, TypeAlert, TypeProgress,
	TypeConfirm, TypeBanner, TypeDrawer, TypePopconfirm, TypeSkeleton,
	TypeResult, TypeConnection, TypePrompt, TypeSheet,
}

// Valid reports whether t is a known feedback type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Status is an item's position in the lifecycle state machine.
//
//	pending → entering → visible → exiting → removed
//
// Transitions are monotonic: an item never moves backwards, and removed is
// terminal (the store drops the record).
type Status string

const (
	StatusPending  Status = "pending"
	StatusEntering Status = "entering"
	StatusVisible  Status = "visible"
	StatusExiting  Status = "exiting"
	StatusRemoved  Status = "removed"
)

// statusRank orders statuses along the state machine. Used to reject
// out-of-order transitions from stale timer callbacks.
func statusRank(s Status) int {
	switch s {
	case StatusPending:
		return 0
	case StatusEntering:
		return 1
	case StatusVisible:
		return 2
	case StatusExiting:
		return 3
	case StatusRemoved:
		return 4
	}
	return -1
}

// Variant is the semantic severity of an item. It drives both presentation
// (color, icon) and the admission queue's priority strategy.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

// Priority returns the base admission priority for the variant.
// Higher values displace lower ones under the priority overflow strategy.
func (v Variant) Priority() int {
	switch v {
	case VariantError:
		return 100
	case VariantWarning:
		return 75
	case VariantSuccess:
		return 50
	case VariantInfo:
		return 25
	default:
		return 0
	}
}

// Options is the per-item configuration payload. The core inspects only
// Duration, Priority and Variant; everything else is carried opaquely for
// the rendering layer.
type Options struct {
	// ID, when non-empty, is used as the item id. Must be unique among
	// live items; duplicates are rejected by Manager.Add.
	ID string `json:"id,omitempty"`

	// Title and Message are the rendered text. Opaque to the core.
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`

	// Variant defaults to VariantDefault.
	Variant Variant `json:"variant,omitempty"`

	// Duration is how long the item stays visible before it auto-exits.
	// nil means "use Config.DefaultDuration"; an explicit 0 makes the
	// item sticky: it stays visible until removed.
	Duration *time.Duration `json:"duration,omitempty"`

	// Priority stacks additively on the variant's base priority for the
	// priority overflow strategy. Negative values are clamped to 0, so a
	// custom priority can promote an item but never demote it below its
	// variant baseline.
	Priority int `json:"priority,omitempty"`

	// Extra carries arbitrary rendering payload (confirm labels,
	// progress percentages, callbacks routed by the adapter layer, …).
	Extra map[string]any `json:"extra,omitempty"`
}

// Item is one live feedback instance tracked by the core.
// All fields are owned and mutated exclusively by the Manager; consumers
// must treat an Item obtained from accessors as read-only.
type Item struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	Status  Status  `json:"status"`
	Options Options `json:"options"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// duration is the resolved auto-dismiss window (defaulting applied).
	duration time.Duration

	// seq breaks CreatedAt ties: clocks are not guaranteed to advance
	// between two Adds in the same tick.
	seq uint64
}

// Duration returns the resolved auto-dismiss window. Zero means sticky.
func (it *Item) Duration() time.Duration { return it.duration }

// EffectivePriority is the admission priority used by the priority
// overflow strategy: variant baseline plus the clamped custom priority.
func (it *Item) EffectivePriority() int {
	custom := it.Options.Priority
	if custom < 0 {
		custom = 0
	}
	return it.Options.Variant.Priority() + custom
}

// olderThan reports whether it was created before other, falling back to
// insertion order when timestamps collide.
func (it *Item) olderThan(other *Item) bool {
	if it.CreatedAt.Equal(other.CreatedAt) {
		return it.seq < other.seq
	}
	return it.CreatedAt.Before(other.CreatedAt)
}

// clone returns a shallow copy with its own Extra map, so event payloads
// and snapshots cannot be mutated out from under the store.
func (it *Item) clone() *Item {
	cp := *it
	if it.Options.Extra != nil {
		extra := make(map[string]any, len(it.Options.Extra))
		for k, v := range it.Options.Extra {
			extra[k] = v
		}
		cp.Options.Extra = extra
	}
	return &cp
}
