package resource

import (
	"sync"

	palerrors "github.com/wippyai/pal/errors"
)

// Table is the handle registry shared by every stateful subsystem. It maps
// opaque handles to owned native resources and is internally thread-safe
// for allocation and deallocation bookkeeping. What callers do with the
// values handed out is governed by each subsystem's own contract.
type Table struct {
	entries   []entry
	freeList  []uint32
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
	debug     bool
	closed    bool
}

type entry struct {
	value  any
	typeID uint32
	gen    uint8
	valid  bool
	dead   bool // destroyed, slot not yet reused (debug bookkeeping)
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithDebug enables instrumented-mode checks. A debug table never reuses a
// destroyed slot, so destroying a handle twice is reported as an explicit
// already_closed failure instead of being the caller's problem.
func WithDebug(debug bool) TableOption {
	return func(t *Table) {
		t.debug = debug
	}
}

// NewTable creates an empty handle table.
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Debug reports whether instrumented-mode checks are enabled.
func (t *Table) Debug() bool {
	return t.debug
}

// Insert adds a value and returns its handle. Returns 0 if the table is
// closed or full.
func (t *Table) Insert(typeID uint32, value any) Handle {
	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return 0
	}

	e := entry{
		typeID: typeID,
		value:  value,
		valid:  true,
	}

	var h Handle
	if n := len(t.freeList); n > 0 && !t.debug {
		idx := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e.gen = t.entries[idx].gen + 1
		t.entries[idx] = e
		h = makeHandle(int(idx), e.gen)
	} else {
		if len(t.entries) >= maxEntries {
			t.mu.Unlock()
			return 0
		}
		t.entries = append(t.entries, e)
		h = makeHandle(len(t.entries)-1, 0)
	}
	t.mu.Unlock()

	t.notify(Event{
		Type:   EventCreated,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return h
}

// Get retrieves a value by handle.
func (t *Table) Get(h Handle) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(h Handle, typeID uint32) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.lookup(h)
	if !ok || e.typeID != typeID {
		return nil, false
	}
	return e.value, true
}

// Remove destroys a resource and returns its value. The value's Drop method
// is invoked if implemented. Destroying an already-destroyed handle returns
// an already_closed failure when the table is in debug mode; in release
// mode the single-owner discipline is the caller's responsibility and a
// dead handle is reported as not found.
func (t *Table) Remove(h Handle) (any, error) {
	t.mu.Lock()

	idx, err := t.checkLive(h)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}

	e := &t.entries[idx]
	value := e.value
	typeID := e.typeID
	e.valid = false
	e.dead = true
	e.value = nil
	if !t.debug {
		t.freeList = append(t.freeList, idx)
	}
	t.mu.Unlock()

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDestroyed,
		Handle: h,
		TypeID: typeID,
		Value:  value,
	})

	return value, nil
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of active resources.
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

// Each iterates over all active resources.
func (t *Table) Each(fn func(Handle, uint32, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.typeID, e.value) {
				break
			}
		}
	}
}

// Clear destroys all resources.
func (t *Table) Clear() {
	// Collect handles first to avoid holding the lock across Drop calls.
	var handles []Handle
	t.Each(func(h Handle, typeID uint32, value any) bool {
		handles = append(handles, h)
		return true
	})
	for _, h := range handles {
		t.Remove(h) //nolint:errcheck // live when collected; racing removals are fine
	}
}

// Close destroys all resources and stops accepting operations. Each
// resource dropped here is reported to observers the same way Remove
// reports it, so lifecycle counters balance across teardown.
func (t *Table) Close() error {
	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var dropped []Event
	for i := range t.entries {
		if t.entries[i].valid {
			dropped = append(dropped, Event{
				Type:   EventDestroyed,
				Handle: makeHandle(i, t.entries[i].gen),
				TypeID: t.entries[i].typeID,
				Value:  t.entries[i].value,
			})
			t.entries[i].valid = false
			t.entries[i].value = nil
		}
	}

	t.entries = nil
	t.freeList = nil
	t.mu.Unlock()

	for _, ev := range dropped {
		if d, ok := ev.Value.(Dropper); ok {
			d.Drop()
		}
		t.notify(ev)
	}
	return nil
}

// lookup resolves a handle to a live entry. Caller holds at least a read lock.
func (t *Table) lookup(h Handle) (*entry, bool) {
	if h == 0 {
		return nil, false
	}
	idx := h.Index() - 1
	if int(idx) >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid || e.gen != h.generation() {
		return nil, false
	}
	return e, true
}

// checkLive resolves a handle for destruction. Caller holds the write lock.
func (t *Table) checkLive(h Handle) (uint32, error) {
	if t.closed {
		return 0, palerrors.AlreadyClosed(palerrors.DomainResource, "destroy")
	}
	if h == 0 {
		return 0, palerrors.InvalidArgument(palerrors.DomainResource, "destroy", "zero handle")
	}
	idx := h.Index() - 1
	if int(idx) >= len(t.entries) {
		return 0, palerrors.NotFound(palerrors.DomainResource, "destroy", "")
	}
	e := &t.entries[idx]
	if t.debug && e.gen == h.generation() && e.dead {
		return 0, palerrors.AlreadyClosed(palerrors.DomainResource, "destroy")
	}
	if !e.valid || e.gen != h.generation() {
		return 0, palerrors.NotFound(palerrors.DomainResource, "destroy", "")
	}
	return idx, nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
