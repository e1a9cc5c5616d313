package feedback

import (
	"sort"
	"sync"
	"time"
)

// Selector filters items for a store subscription.
type Selector func(*Item) bool

// Store is the canonical in-memory table of live feedback items.
//
// All mutation flows through the Manager; consumers read through the
// accessors and react through Subscribe. Subscribers are notified
// synchronously after a mutation has fully committed, never mid-mutation.
type Store struct {
	mu    sync.Mutex
	items map[string]*Item

	subs      []*subscription
	nextSubID uint64
}

// subscription tracks one selector with the fingerprint of its last
// delivered slice, so handlers only fire when the derived slice changed.
type subscription struct {
	id      uint64
	sel     Selector
	handler func([]*Item)
	lastSig []itemSig
}

// itemSig captures the fields whose change is observable through a
// subscription.
type itemSig struct {
	id        string
	status    Status
	updatedAt time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{items: make(map[string]*Item)}
}

// Get returns the item with the given id, or nil.
func (s *Store) Get(id string) *Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[id]; ok {
		return it.clone()
	}
	return nil
}

// GetByType returns all live items of the given type in creation order.
func (s *Store) GetByType(t Type) []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(func(it *Item) bool { return it.Type == t })
}

// Items returns a snapshot of every live item, keyed by id.
func (s *Store) Items() map[string]*Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]*Item, len(s.items))
	for id, it := range s.items {
		out[id] = it.clone()
	}
	return out
}

// List returns snapshots of every live item in creation order.
func (s *Store) List() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(func(*Item) bool { return true })
}

// Len returns the number of live items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Has reports whether an item with the given id is live.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return ok
}

// Subscribe registers a handler that receives the slice of items matched
// by sel, in creation order, whenever that slice changes. The handler
// fires once immediately with the current slice, then after each mutation
// that alters it. The returned function removes the subscription.
func (s *Store) Subscribe(sel Selector, handler func([]*Item)) func() {
	if sel == nil {
		sel = func(*Item) bool { return true }
	}

	s.mu.Lock()
	s.nextSubID++
	sub := &subscription{id: s.nextSubID, sel: sel, handler: handler}
	s.subs = append(s.subs, sub)
	initial := s.selectLocked(sel)
	sub.lastSig = signature(initial)
	s.mu.Unlock()

	handler(initial)

	id := sub.id
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.subs {
			if existing.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// set inserts the item, replacing any existing entry with the same id.
// Manager use only.
func (s *Store) set(it *Item) {
	s.mu.Lock()
	s.items[it.ID] = it
	s.mu.Unlock()
	s.notify()
}

// update applies fn to the item with the given id under the store lock.
// fn reports whether it mutated the item; subscribers are notified only
// when it did. Returns false when the id is unknown or fn declined, which
// makes status transitions atomic check-and-set operations. Manager use
// only.
func (s *Store) update(id string, fn func(*Item) bool) bool {
	s.mu.Lock()
	it, ok := s.items[id]
	applied := ok && fn(it)
	s.mu.Unlock()
	if applied {
		s.notify()
	}
	return applied
}

// delete removes the item with the given id and returns a snapshot of the
// removed entry, or nil. Manager use only.
func (s *Store) delete(id string) *Item {
	s.mu.Lock()
	it, ok := s.items[id]
	var removed *Item
	if ok {
		removed = it.clone()
		delete(s.items, id)
	}
	s.mu.Unlock()
	if ok {
		s.notify()
	}
	return removed
}

// Clear wipes all items and notifies subscribers. Used in teardown and
// tests.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = make(map[string]*Item)
	s.mu.Unlock()
	s.notify()
}

// notify re-evaluates every subscription against the committed state and
// invokes handlers whose derived slice changed. The subscriber list and
// each slice are snapshotted first, so handlers may re-enter the store.
func (s *Store) notify() {
	type delivery struct {
		handler func([]*Item)
		items   []*Item
	}

	s.mu.Lock()
	var pending []delivery
	for _, sub := range s.subs {
		derived := s.selectLocked(sub.sel)
		sig := signature(derived)
		if sigEqual(sig, sub.lastSig) {
			continue
		}
		sub.lastSig = sig
		pending = append(pending, delivery{sub.handler, derived})
	}
	s.mu.Unlock()

	for _, d := range pending {
		d.handler(d.items)
	}
}

// selectLocked returns clones of all matching items in creation order.
func (s *Store) selectLocked(sel Selector) []*Item {
	matched := make([]*Item, 0, len(s.items))
	for _, it := range s.items {
		if sel(it) {
			matched = append(matched, it.clone())
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].olderThan(matched[j])
	})
	return matched
}

func signature(items []*Item) []itemSig {
	sigs := make([]itemSig, len(items))
	for i, it := range items {
		sigs[i] = itemSig{id: it.ID, status: it.Status, updatedAt: it.UpdatedAt}
	}
	return sigs
}

func sigEqual(a, b []itemSig) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].id != b[i].id || a[i].status != b[i].status || !a[i].updatedAt.Equal(b[i].updatedAt) {
			return false
		}
	}
	return true
}
