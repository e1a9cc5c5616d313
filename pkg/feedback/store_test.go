package feedback

import (
	"testing"
	"time"
)

func storeItem(id string, t Type, age int) *Item {
	created := time.Unix(1700000000, 0).Add(time.Duration(age) * time.Millisecond)
	return &Item{
		ID:        id,
		Type:      t,
		Status:    StatusPending,
		Options:   Options{ID: id},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestStoreSetAndGet(t *testing.T) {
	s := NewStore()

	s.set(storeItem("a", TypeToast, 0))

	it := s.Get("a")
	if it == nil || it.ID != "a" {
		t.Fatalf("Get returned %v", it)
	}
	if s.Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}
	if !s.Has("a") || s.Has("missing") {
		t.Error("Has answers wrong")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestStoreSetReplacesExistingID(t *testing.T) {
	s := NewStore()

	s.set(storeItem("a", TypeToast, 0))
	replacement := storeItem("a", TypeToast, 1)
	replacement.Options.Message = "second"
	s.set(replacement)

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1: set must replace, not append", s.Len())
	}
	if got := s.Get("a").Options.Message; got != "second" {
		t.Errorf("message = %q", got)
	}
}

func TestStoreGetByTypeOrdered(t *testing.T) {
	s := NewStore()

	s.set(storeItem("b", TypeToast, 1))
	s.set(storeItem("a", TypeToast, 0))
	s.set(storeItem("m", TypeModal, 2))

	toasts := s.GetByType(TypeToast)
	if len(toasts) != 2 {
		t.Fatalf("toasts = %d", len(toasts))
	}
	if toasts[0].ID != "a" || toasts[1].ID != "b" {
		t.Errorf("order = %s, %s; want a, b", toasts[0].ID, toasts[1].ID)
	}
}

func TestStoreListOrderedAcrossTypes(t *testing.T) {
	s := NewStore()

	s.set(storeItem("m", TypeModal, 2))
	s.set(storeItem("b", TypeToast, 1))
	s.set(storeItem("a", TypeToast, 0))

	all := s.List()
	if len(all) != 3 {
		t.Fatalf("List len = %d", len(all))
	}
	for i, want := range []string{"a", "b", "m"} {
		if all[i].ID != want {
			t.Errorf("List[%d] = %s, want %s", i, all[i].ID, want)
		}
	}
}

func TestStoreUpdateConditional(t *testing.T) {
	s := NewStore()
	s.set(storeItem("a", TypeToast, 0))

	applied := s.update("a", func(it *Item) bool {
		if it.Status != StatusPending {
			return false
		}
		it.Status = StatusEntering
		return true
	})
	if !applied {
		t.Fatal("conditional update declined unexpectedly")
	}

	// Second CAS with the same precondition must decline.
	applied = s.update("a", func(it *Item) bool {
		if it.Status != StatusPending {
			return false
		}
		it.Status = StatusEntering
		return true
	})
	if applied {
		t.Fatal("stale update applied twice")
	}

	if s.update("missing", func(*Item) bool { return true }) {
		t.Fatal("update on unknown id applied")
	}
}

func TestStoreDeleteReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.set(storeItem("a", TypeBanner, 0))

	removed := s.delete("a")
	if removed == nil || removed.Type != TypeBanner {
		t.Fatalf("delete returned %v", removed)
	}
	if s.delete("a") != nil {
		t.Error("second delete returned a snapshot")
	}
	if s.Len() != 0 {
		t.Error("item survived delete")
	}
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	s := NewStore()
	it := storeItem("a", TypeToast, 0)
	it.Options.Extra = map[string]any{"k": "v"}
	s.set(it)

	snap := s.Get("a")
	snap.Status = StatusRemoved
	snap.Options.Extra["k"] = "mutated"

	fresh := s.Get("a")
	if fresh.Status != StatusPending {
		t.Error("snapshot mutation leaked into store status")
	}
	if fresh.Options.Extra["k"] != "v" {
		t.Error("snapshot mutation leaked into store extra map")
	}
}

func TestStoreSubscribeFiltersAndDeduplicates(t *testing.T) {
	s := NewStore()

	var toastSlices [][]*Item
	unsub := s.Subscribe(func(it *Item) bool { return it.Type == TypeToast },
		func(items []*Item) { toastSlices = append(toastSlices, items) })
	defer unsub()

	if len(toastSlices) != 1 || len(toastSlices[0]) != 0 {
		t.Fatalf("initial delivery = %v", toastSlices)
	}

	s.set(storeItem("a", TypeToast, 0))
	if len(toastSlices) != 2 {
		t.Fatalf("notifications after toast add = %d, want 2", len(toastSlices))
	}

	// A modal mutation does not change the toast slice: no notification.
	s.set(storeItem("m", TypeModal, 1))
	if len(toastSlices) != 2 {
		t.Fatalf("unrelated mutation notified toast subscriber")
	}

	s.delete("a")
	if len(toastSlices) != 3 || len(toastSlices[2]) != 0 {
		t.Fatalf("delete notification missing: %v", toastSlices)
	}
}

func TestStoreSubscribeUnsubscribe(t *testing.T) {
	s := NewStore()

	calls := 0
	unsub := s.Subscribe(nil, func([]*Item) { calls++ })
	unsub()
	unsub() // idempotent

	s.set(storeItem("a", TypeToast, 0))
	if calls != 1 { // only the initial delivery
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestStoreClearNotifies(t *testing.T) {
	s := NewStore()
	s.set(storeItem("a", TypeToast, 0))

	var last []*Item
	s.Subscribe(nil, func(items []*Item) { last = items })

	s.Clear()
	if len(last) != 0 {
		t.Fatalf("slice after Clear = %d items", len(last))
	}
	if s.Len() != 0 {
		t.Error("store not empty after Clear")
	}
}

func TestStoreReentrantSubscribeFromHandler(t *testing.T) {
	s := NewStore()

	nested := 0
	s.Subscribe(nil, func(items []*Item) {
		if len(items) == 1 && nested == 0 {
			nested++
			s.Subscribe(nil, func([]*Item) {})
		}
	})

	// Must not deadlock or skip the notification.
	s.set(storeItem("a", TypeToast, 0))
	if nested != 1 {
		t.Fatal("handler did not observe the mutation")
	}
}
