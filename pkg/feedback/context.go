package feedback

import "context"

// ctxKey is the unexported context key for the Manager.
type ctxKey struct{}

// NewContext returns a copy of ctx carrying the Manager, so handlers and
// components receive it by injection instead of ambient lookup.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the Manager carried by ctx, if any.
func FromContext(ctx context.Context) (*Manager, bool) {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	return m, ok
}

// MustFromContext returns the Manager carried by ctx and panics when there
// is none. Calling it outside a NewContext scope is a usage-contract
// violation (a programmer error), which is the only condition the core
// treats as panic-worthy.
func MustFromContext(ctx context.Context) *Manager {
	m, ok := FromContext(ctx)
	if !ok {
		panic("feedback: MustFromContext called outside a feedback.NewContext scope; " +
			"wrap the context with feedback.NewContext(ctx, manager) at application start")
	}
	return m
}
