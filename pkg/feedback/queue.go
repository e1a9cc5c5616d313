package feedback

import "sync"

// Strategy selects the queue's behavior when an item arrives at capacity.
type Strategy string

const (
	// StrategyFIFO evicts the oldest queued item to admit the new one.
	StrategyFIFO Strategy = "fifo"

	// StrategyPriority admits the new item only if its effective
	// priority strictly exceeds the current minimum, evicting the single
	// lowest-priority item (oldest first on ties). Equal priority never
	// displaces.
	StrategyPriority Strategy = "priority"

	// StrategyReject refuses the new item and leaves the queue untouched.
	StrategyReject Strategy = "reject"
)

// Valid reports whether s is a known overflow strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyFIFO, StrategyPriority, StrategyReject:
		return true
	}
	return false
}

// QueueConfig bounds the admission queue.
type QueueConfig struct {
	// MaxSize is the capacity. Zero rejects every enqueue regardless of
	// strategy.
	MaxSize int

	// Strategy defaults to StrategyReject when empty or unknown.
	Strategy Strategy
}

// QueuePatch is a partial QueueConfig for hot reconfiguration. nil fields
// keep their current value.
type QueuePatch struct {
	MaxSize  *int
	Strategy *Strategy
}

// Queue gates admission of new feedback items against a maximum size using
// a pluggable overflow strategy. Queue membership is independent of store
// membership: the queue decides admission, the store holds live items.
type Queue struct {
	mu      sync.Mutex
	cfg     QueueConfig
	entries []*Item
}

// NewQueue creates a Queue with the given bounds.
func NewQueue(cfg QueueConfig) *Queue {
	if !cfg.Strategy.Valid() {
		cfg.Strategy = StrategyReject
	}
	return &Queue{cfg: cfg}
}

// Enqueue offers item for admission. It reports whether the item was
// admitted, along with the entry that was evicted to make room, if any.
//
// Below capacity the item is always admitted. At capacity the configured
// Strategy decides. A MaxSize of 0 rejects everything.
func (q *Queue) Enqueue(item *Item) (admitted bool, evicted *Item) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.cfg.MaxSize <= 0 {
		return false, nil
	}
	if len(q.entries) < q.cfg.MaxSize {
		q.entries = append(q.entries, item)
		return true, nil
	}

	switch q.cfg.Strategy {
	case StrategyFIFO:
		// Capacity may have shrunk via UpdateConfig; evict until the
		// new item fits.
		for len(q.entries) >= q.cfg.MaxSize {
			ev := q.evictOldestLocked()
			if evicted == nil {
				evicted = ev
			}
		}
		q.entries = append(q.entries, item)
		return true, evicted

	case StrategyPriority:
		lowest := q.lowestPriorityLocked()
		// Strictly greater only: an item cannot replace an
		// equally-ranked one.
		if lowest == nil || item.EffectivePriority() <= lowest.EffectivePriority() {
			return false, nil
		}
		q.removeLocked(lowest.ID)
		q.entries = append(q.entries, item)
		return true, lowest

	default: // StrategyReject
		return false, nil
	}
}

// Dequeue removes the entry with the given id, if present.
func (q *Queue) Dequeue(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(id)
}

// Has reports whether an entry with the given id is queued.
func (q *Queue) Has(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Size returns the number of queued entries.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// IsFull reports whether the queue is at or over capacity.
func (q *Queue) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries) >= q.cfg.MaxSize
}

// Config returns the current queue configuration.
func (q *Queue) Config() QueueConfig {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cfg
}

// UpdateConfig hot-swaps capacity and strategy without dropping existing
// entries. Enforcement of a smaller MaxSize resumes on the next Enqueue.
func (q *Queue) UpdateConfig(patch QueuePatch) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if patch.MaxSize != nil {
		q.cfg.MaxSize = *patch.MaxSize
	}
	if patch.Strategy != nil && patch.Strategy.Valid() {
		q.cfg.Strategy = *patch.Strategy
	}
}

// evictOldestLocked removes and returns the entry with the lowest
// CreatedAt, breaking ties by insertion order.
func (q *Queue) evictOldestLocked() *Item {
	if len(q.entries) == 0 {
		return nil
	}
	oldest := q.entries[0]
	for _, e := range q.entries[1:] {
		if e.olderThan(oldest) {
			oldest = e
		}
	}
	q.removeLocked(oldest.ID)
	return oldest
}

// lowestPriorityLocked returns the entry with the minimum effective
// priority, oldest first among ties.
func (q *Queue) lowestPriorityLocked() *Item {
	var lowest *Item
	for _, e := range q.entries {
		if lowest == nil {
			lowest = e
			continue
		}
		p, lp := e.EffectivePriority(), lowest.EffectivePriority()
		if p < lp || (p == lp && e.olderThan(lowest)) {
			lowest = e
		}
	}
	return lowest
}

func (q *Queue) removeLocked(id string) bool {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}
