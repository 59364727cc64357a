package thread

import (
	"sync"
	"sync/atomic"

	"github.com/wippyai/pal"
	palerrors "github.com/wippyai/pal/errors"
	"github.com/wippyai/pal/resource"
)

// Mutex guards a critical section. At most one holder at any instant;
// acquiring it establishes a happens-before relationship with the previous
// holder's release. Lock and Unlock are safe for concurrent callers by
// definition; unlocking a mutex not held by the caller is a programming
// error.
type Mutex struct {
	sys    *pal.System
	mu     sync.Mutex
	held   atomic.Bool
	handle resource.Handle
}

// NewMutex creates a mutex registered in the System's handle table.
func NewMutex(sys *pal.System) (*Mutex, error) {
	m := &Mutex{sys: sys}
	m.handle = sys.Table().Insert(pal.TypeMutex, m)
	if m.handle == 0 {
		return nil, palerrors.CreationFailed(palerrors.DomainThread, "mutex-create", nil)
	}
	return m, nil
}

// Handle returns the mutex's registry handle.
func (m *Mutex) Handle() resource.Handle {
	return m.handle
}

// Lock blocks until the mutex is acquired. Always unbounded; use TryLock
// for non-blocking acquisition.
func (m *Mutex) Lock() {
	m.mu.Lock()
	m.held.Store(true)
}

// TryLock acquires the mutex if it is free. Never blocks.
func (m *Mutex) TryLock() bool {
	if !m.mu.TryLock() {
		return false
	}
	m.held.Store(true)
	return true
}

// Unlock releases the mutex.
func (m *Mutex) Unlock() {
	if m.sys.Instrumented() && !m.held.Load() {
		panic("pal/thread: unlock of mutex not held")
	}
	m.held.Store(false)
	m.mu.Unlock()
}

// Held reports whether the mutex is currently held. Diagnostics only;
// the answer may be stale by the time the caller observes it.
func (m *Mutex) Held() bool {
	return m.held.Load()
}

// Close destroys the mutex handle. The mutex must be free.
func (m *Mutex) Close() error {
	_, err := m.sys.Table().Remove(m.handle)
	return err
}
