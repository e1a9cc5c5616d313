package feedback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vango-dev/feedback/pkg/eventbus"
)

// Manager orchestrates the feedback lifecycle: it creates items, drives
// the status state machine via scheduled transitions, applies per-type
// max-visible eviction, and connects the admission queue, the store, and
// the event bus.
//
// Construct one Manager at application start and pass it by reference to
// every consumer. All public operations are non-blocking; the only
// asynchrony is transition scheduling through the Clock.
type Manager struct {
	cfg     Config
	store   *Store
	queue   *Queue // nil when admission control is disabled
	bus     *eventbus.Bus
	clock   Clock
	metrics *Metrics
	logger  *slog.Logger

	mu     sync.Mutex // guards timers, seq, closed
	timers map[string]Timer
	seq    uint64
	closed bool
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the Clock driving scheduled transitions. Defaults to
// SystemClock. Tests substitute a fake clock for deterministic timing.
func WithClock(clock Clock) Option {
	return func(m *Manager) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a Manager with the given configuration.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg.normalize(),
		store:  NewStore(),
		clock:  SystemClock(),
		logger: slog.Default(),
		timers: make(map[string]Timer),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "feedback_manager")
	m.bus = eventbus.New(m.logger)
	if m.cfg.Queue != nil {
		m.queue = NewQueue(*m.cfg.Queue)
	}
	return m
}

// Add creates a feedback item of the given type and returns its id.
//
// When admission control rejects the item, Add emits EventQueueOverflow
// with the rejected candidate and returns the empty string; nothing is
// inserted into the store. Callers that surface must-see feedback should
// check the returned id or listen for the overflow event.
//
// The item is inserted with StatusPending and transitioned to
// StatusEntering by a zero-delay scheduled callback, then onward per the
// configured animation windows and its resolved duration. A duration of 0
// pins the item until Remove.
func (m *Manager) Add(t Type, opts Options) string {
	if !t.Valid() {
		m.logger.Warn("rejected add with unknown feedback type", "type", string(t))
		return ""
	}
	if m.isClosed() {
		return ""
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	} else if m.store.Has(id) {
		m.logger.Warn("rejected add with duplicate id", "id", id, "type", string(t))
		return ""
	}
	opts.ID = id
	if opts.Variant == "" {
		opts.Variant = VariantDefault
	}
	if opts.Priority < 0 {
		opts.Priority = 0
	}

	duration := m.cfg.DefaultDuration
	if opts.Duration != nil {
		duration = *opts.Duration
		if duration < 0 {
			duration = m.cfg.DefaultDuration
		}
	}

	now := m.clock.Now()
	item := &Item{
		ID:        id,
		Type:      t,
		Status:    StatusPending,
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
		duration:  duration,
		seq:       m.nextSeq(),
	}

	if m.queue != nil {
		// The queue keeps its own snapshot: entries are immutable
		// admission records, so a later Update to the live item cannot
		// race Enqueue's priority reads.
		admitted, evicted := m.queue.Enqueue(item.clone())
		if !admitted {
			m.metrics.recordOverflow(t)
			m.logger.Debug("add rejected by admission control",
				"type", string(t), "strategy", string(m.queue.Config().Strategy))
			m.bus.Emit(EventQueueOverflow, Overflow{Rejected: item.clone()})
			return ""
		}
		if evicted != nil && m.store.Has(evicted.ID) {
			m.metrics.recordEviction(evicted.Type, "queue")
			m.startExit(evicted.ID)
		}
	}

	m.store.set(item)
	m.metrics.recordAdd(t)
	m.bus.Emit(EventAdded, item.clone())

	// Zero delay still defers: callers observe pending until the
	// scheduler ticks.
	m.schedule(id, 0, func() { m.toEntering(id) })

	m.enforceMaxVisible(t)
	return id
}

// Update merges the non-zero fields of patch into the item's options,
// bumps UpdatedAt, and emits EventUpdated. Updating an unknown id is a
// no-op. A patched Duration reschedules the auto-dismiss timer of a
// visible item; 0 cancels it.
func (m *Manager) Update(id string, patch Options) {
	var snapshot *Item
	applied := m.store.update(id, func(it *Item) bool {
		if patch.Title != "" {
			it.Options.Title = patch.Title
		}
		if patch.Message != "" {
			it.Options.Message = patch.Message
		}
		if patch.Variant != "" {
			it.Options.Variant = patch.Variant
		}
		if patch.Priority != 0 {
			p := patch.Priority
			if p < 0 {
				p = 0
			}
			it.Options.Priority = p
		}
		if patch.Duration != nil {
			d := *patch.Duration
			if d < 0 {
				d = 0
			}
			it.Options.Duration = &d
			it.duration = d
		}
		if len(patch.Extra) > 0 {
			if it.Options.Extra == nil {
				it.Options.Extra = make(map[string]any, len(patch.Extra))
			}
			for k, v := range patch.Extra {
				it.Options.Extra[k] = v
			}
		}
		it.UpdatedAt = m.clock.Now()
		snapshot = it.clone()
		return true
	})
	if !applied {
		return
	}

	if patch.Duration != nil && snapshot.Status == StatusVisible {
		if snapshot.duration > 0 {
			m.schedule(id, snapshot.duration, func() { m.autoDismiss(id) })
		} else {
			m.cancelTimer(id)
		}
	}
	m.bus.Emit(EventUpdated, snapshot)
}

// Remove transitions the item toward removal. Items already exiting or
// unknown ids are safe no-ops, so racing a manual close against an
// auto-dismiss timer is idempotent.
func (m *Manager) Remove(id string) {
	m.startExit(id)
}

// RemoveAll transitions every live item of the given type to exiting and
// emits a single EventCleared for the batch.
func (m *Manager) RemoveAll(t Type) {
	for _, it := range m.store.GetByType(t) {
		m.startExit(it.ID)
	}
	m.bus.Emit(EventCleared, Cleared{Type: t})
}

// Get returns a snapshot of the item with the given id, or nil.
func (m *Manager) Get(id string) *Item {
	return m.store.Get(id)
}

// GetByType returns snapshots of all live items of the given type in
// creation order.
func (m *Manager) GetByType(t Type) []*Item {
	return m.store.GetByType(t)
}

// Config returns a copy of the manager's configuration.
func (m *Manager) Config() Config {
	return m.cfg.normalize()
}

// Store exposes the canonical item table for reactive consumers. The
// rendering layer subscribes to slices through it; all mutation still
// flows through the Manager.
func (m *Manager) Store() *Store {
	return m.store
}

// On subscribes to a lifecycle event and returns an unsubscribe function.
func (m *Manager) On(event eventbus.Event, fn eventbus.Handler) eventbus.UnsubscribeFunc {
	return m.bus.On(event, fn)
}

// Once subscribes to a single occurrence of a lifecycle event.
func (m *Manager) Once(event eventbus.Event, fn eventbus.Handler) eventbus.UnsubscribeFunc {
	return m.bus.Once(event, fn)
}

// UpdateQueueConfig hot-swaps the admission queue's bounds. No-op when
// admission control is disabled.
func (m *Manager) UpdateQueueConfig(patch QueuePatch) {
	if m.queue != nil {
		m.queue.UpdateConfig(patch)
	}
}

// Close cancels all outstanding timers, clears the store, and detaches
// every listener. The Manager must not be used afterwards. Intended for
// application shutdown and test isolation.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
	m.mu.Unlock()

	m.store.Clear()
	m.bus.RemoveAllListeners()
}

// --- state machine ---

// toEntering commits pending → entering and schedules the enter-animation
// window. Fired by the zero-delay callback scheduled in Add.
func (m *Manager) toEntering(id string) {
	var t Type
	applied := m.store.update(id, func(it *Item) bool {
		if it.Status != StatusPending {
			return false
		}
		it.Status = StatusEntering
		it.UpdatedAt = m.clock.Now()
		t = it.Type
		return true
	})
	if !applied {
		// Raced with a remove; the stale callback must no-op.
		return
	}
	m.metrics.recordTransition(t, StatusEntering)
	m.bus.Emit(EventStatusChanged, StatusChange{ID: id, From: StatusPending, To: StatusEntering})
	m.schedule(id, m.cfg.EnterAnimationDuration, func() { m.toVisible(id) })
}

// toVisible commits entering → visible and, for non-sticky items, arms the
// auto-dismiss timer.
func (m *Manager) toVisible(id string) {
	var (
		t        Type
		duration time.Duration
	)
	applied := m.store.update(id, func(it *Item) bool {
		if it.Status != StatusEntering {
			return false
		}
		it.Status = StatusVisible
		it.UpdatedAt = m.clock.Now()
		t = it.Type
		duration = it.duration
		return true
	})
	if !applied {
		return
	}
	m.metrics.recordTransition(t, StatusVisible)
	m.bus.Emit(EventStatusChanged, StatusChange{ID: id, From: StatusEntering, To: StatusVisible})

	if duration > 0 {
		m.schedule(id, duration, func() { m.autoDismiss(id) })
	}
	// duration == 0: sticky; the item stays visible until Remove.
}

// autoDismiss is the timer callback armed when an item becomes visible.
func (m *Manager) autoDismiss(id string) {
	m.startExit(id)
}

// startExit commits <any pre-exit status> → exiting, cancels the item's
// outstanding transition timer, and schedules the final removal. Reports
// whether it performed the transition; already-exiting items and unknown
// ids return false without side effects.
func (m *Manager) startExit(id string) bool {
	var (
		t    Type
		from Status
	)
	applied := m.store.update(id, func(it *Item) bool {
		if statusRank(it.Status) >= statusRank(StatusExiting) {
			return false
		}
		from = it.Status
		it.Status = StatusExiting
		it.UpdatedAt = m.clock.Now()
		t = it.Type
		return true
	})
	if !applied {
		return false
	}

	m.metrics.recordTransition(t, StatusExiting)
	m.bus.Emit(EventStatusChanged, StatusChange{ID: id, From: from, To: StatusExiting})
	m.schedule(id, m.cfg.ExitAnimationDuration, func() { m.finishRemove(id) })
	return true
}

// finishRemove deletes the item once its exit-animation window elapsed.
func (m *Manager) finishRemove(id string) {
	removed := m.store.delete(id)
	if removed == nil {
		return
	}
	if m.queue != nil {
		m.queue.Dequeue(id)
	}
	m.cancelTimer(id)

	m.metrics.recordTransition(removed.Type, StatusRemoved)
	m.metrics.recordRemove(removed.Type)
	m.bus.Emit(EventStatusChanged, StatusChange{ID: id, From: StatusExiting, To: StatusRemoved})
	m.bus.Emit(EventRemoved, Removed{ID: id, Type: removed.Type})
}

// enforceMaxVisible forces the oldest excess non-exiting items of type t
// into exiting, regardless of their own duration timers.
func (m *Manager) enforceMaxVisible(t Type) {
	limit, bounded := m.cfg.MaxVisible[t]
	if !bounded {
		return
	}

	var active []*Item
	for _, it := range m.store.GetByType(t) {
		if statusRank(it.Status) < statusRank(StatusExiting) {
			active = append(active, it)
		}
	}
	excess := len(active) - limit
	for i := 0; i < excess; i++ {
		// GetByType is creation-ordered, so active[i] is the oldest.
		if m.startExit(active[i].ID) {
			m.metrics.recordEviction(t, "max_visible")
		}
	}
}

// --- scheduling ---

// schedule arms the item's next transition, replacing any outstanding
// timer for the id. Tracking one handle per item lets a competing
// operation cancel a stale transition before it fires.
func (m *Manager) schedule(id string, d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	if old, ok := m.timers[id]; ok {
		old.Stop()
	}
	m.timers[id] = m.clock.AfterFunc(d, fn)
}

func (m *Manager) cancelTimer(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
}

func (m *Manager) nextSeq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return m.seq
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
