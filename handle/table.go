package handle

import "sync"

// Table maps handles to live instance values. Safe for concurrent use.
//
// Slots are allocated densely and recycled through a free list. The
// table lives for the whole process; instances persist until removed.
type Table struct {
	mu       sync.RWMutex
	entries  []entry
	freeList []uint32
}

type entry struct {
	value any
	tag   uint32
	valid bool
}

// NewTable creates an empty instance table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Insert stores value under the given type tag and returns its handle.
func (t *Table) Insert(tag uint32, value any) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := entry{value: value, tag: tag, valid: true}

	// Reuse most recently freed slot.
	if n := len(t.freeList); n > 0 {
		slot := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[slot-1] = e
		return New(tag, slot)
	}

	t.entries = append(t.entries, e)
	return New(tag, uint32(len(t.entries)))
}

// Lookup returns the value and stored tag for the handle's slot. The
// tag embedded in the handle is not checked here; use GetTyped when
// the caller knows which tag it expects.
func (t *Table) Lookup(h Handle) (any, uint32, bool) {
	slot := h.Slot()
	if slot == 0 {
		return nil, 0, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if int(slot) > len(t.entries) {
		return nil, 0, false
	}
	e := t.entries[slot-1]
	if !e.valid {
		return nil, 0, false
	}
	return e.value, e.tag, true
}

// GetTyped returns the value only when the handle's embedded tag
// matches the tag it was stored under.
func (t *Table) GetTyped(h Handle) (any, bool) {
	value, tag, ok := t.Lookup(h)
	if !ok || tag != h.Tag() {
		return nil, false
	}
	return value, true
}

// Remove deletes the instance and returns it. When the value
// implements Dropper, Drop runs after the slot is released.
func (t *Table) Remove(h Handle) (any, bool) {
	slot := h.Slot()
	if slot == 0 {
		return nil, false
	}

	t.mu.Lock()
	if int(slot) > len(t.entries) || !t.entries[slot-1].valid {
		t.mu.Unlock()
		return nil, false
	}
	value := t.entries[slot-1].value
	t.entries[slot-1] = entry{}
	t.freeList = append(t.freeList, slot)
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	return value, true
}

// Len returns the number of live instances.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each calls fn for every live instance until fn returns false.
// The table lock is held for the duration.
func (t *Table) Each(fn func(Handle, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if !e.valid {
			continue
		}
		if !fn(New(e.tag, uint32(i+1)), e.value) {
			return
		}
	}
}
