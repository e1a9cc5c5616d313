// Package feedback implements the lifecycle core for transient UI feedback
// widgets: toasts, modals, banners, drawers, progress indicators and the
// rest of the feedback family.
//
// The package is rendering-agnostic. A Manager accepts requests to show
// feedback items, drives each item through an animation-aware status state
// machine (pending → entering → visible → exiting → removed), enforces
// per-type visibility caps, gates admission through a bounded overflow
// queue, and publishes change events that reactive consumers subscribe to.
// Visual components consume the Manager's API (Add/Update/Remove/On) and
// render according to Status; they contain no lifecycle logic of their own.
//
// # Construction
//
// Applications construct one long-lived Manager at startup and pass it by
// reference (or via context, see NewContext) to everything that shows
// feedback:
//
//	mgr := feedback.NewManager(feedback.DefaultConfig())
//	defer mgr.Close()
//
//	id := mgr.Add(feedback.TypeToast, feedback.Options{
//	    Message: "Changes saved",
//	    Variant: feedback.VariantSuccess,
//	})
//
// A process-wide default instance is available through Default for code
// that cannot thread a reference; ResetDefault exists for test isolation.
//
// # Events
//
// Every mutation is observable through the Manager's event bus:
//
//	mgr.On(feedback.EventStatusChanged, func(payload any) {
//	    ch := payload.(feedback.StatusChange)
//	    log.Printf("%s: %s -> %s", ch.ID, ch.From, ch.To)
//	})
//
// Events fire synchronously after the mutation has committed, so a handler
// always observes consistent store state.
package feedback
