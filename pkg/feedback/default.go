package feedback

import "sync"

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default returns the process-wide Manager, constructing it with
// DefaultConfig on first use. Prefer passing a Manager explicitly; the
// default instance exists for code that cannot thread a reference,
// mirroring slog.Default.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewManager(DefaultConfig())
	}
	return defaultManager
}

// SetDefault replaces the process-wide Manager. The previous instance, if
// any, is not closed; the caller owns both lifecycles.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = m
}

// ResetDefault closes and discards the process-wide Manager so the next
// Default call constructs a fresh one. Tests call this between cases to
// force re-construction; production code should never need it.
func ResetDefault() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager != nil {
		defaultManager.Close()
		defaultManager = nil
	}
}
