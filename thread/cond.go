package thread

import (
	"sync"
	"time"

	"github.com/wippyai/pal"
	"github.com/wippyai/pal/clock"
	palerrors "github.com/wippyai/pal/errors"
	"github.com/wippyai/pal/resource"
)

// Cond is a condition variable. It has no state of its own beyond its
// waiter queue; correctness depends entirely on the predicate guarded by
// the paired mutex. Spurious wakeups are permitted: callers must re-test
// the predicate after every return and re-wait while it is false.
//
//	for !predicate() {
//		outcome, _ := cond.WaitDeadline(m, deadline)
//		if outcome == pal.OutcomeTimedOut {
//			break
//		}
//	}
type Cond struct {
	sys     *pal.System
	waiters []chan struct{}
	mu      sync.Mutex
	handle  resource.Handle
}

// NewCond creates a condition variable registered in the System's handle
// table.
func NewCond(sys *pal.System) (*Cond, error) {
	c := &Cond{sys: sys}
	c.handle = sys.Table().Insert(pal.TypeCond, c)
	if c.handle == 0 {
		return nil, palerrors.CreationFailed(palerrors.DomainThread, "cond-create", nil)
	}
	return c, nil
}

// Handle returns the condition variable's registry handle.
func (c *Cond) Handle() resource.Handle {
	return c.handle
}

// Wait converts the relative timeout into an absolute deadline once, at
// entry, and waits against it. A non-positive timeout waits without bound.
// See WaitDeadline for the contract.
func (c *Cond) Wait(m *Mutex, timeout time.Duration) (pal.Outcome, error) {
	return c.WaitDeadline(m, clock.After(c.sys.Clock(), timeout))
}

// WaitDeadline atomically releases m and blocks until woken or the
// deadline expires, then reacquires m before returning, regardless of
// outcome. The caller must hold m on entry. Re-waiting after a spurious
// wakeup against the same Deadline does not drift the effective timeout.
//
// When a wakeup and the deadline are logically simultaneous, the signal
// wins: a waiter already claimed by Signal or Broadcast reports
// completion even if its timer also fired.
func (c *Cond) WaitDeadline(m *Mutex, d clock.Deadline) (pal.Outcome, error) {
	if c.sys.Instrumented() && !m.Held() {
		panic("pal/thread: cond wait without holding the paired mutex")
	}

	// Enqueue before releasing the mutex. A signaler that changes the
	// predicate under the mutex and then signals is guaranteed to see
	// this waiter; the release-and-block is atomic with respect to the
	// paired mutex.
	w := make(chan struct{})
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	m.Unlock()
	outcome := pal.OutcomeCompleted
	switch {
	case !d.Bounded():
		<-w
	case d.Expired():
		if !c.abandon(w) {
			outcome = pal.OutcomeTimedOut
		}
	default:
		timer := time.NewTimer(d.Remaining())
		select {
		case <-w:
			timer.Stop()
		case <-timer.C:
			if !c.abandon(w) {
				outcome = pal.OutcomeTimedOut
			}
		}
	}
	m.Lock()

	return outcome, nil
}

// abandon removes a timed-out waiter from the queue. If the waiter is no
// longer queued it was already claimed by a wakeup, and the signal wins;
// abandon then reports true.
func (c *Cond) abandon(w chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, queued := range c.waiters {
		if queued == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return false
		}
	}
	return true
}

// Signal wakes at least one current waiter, with no ordering guarantee
// among multiple waiters. A signal with no waiters is lost.
func (c *Cond) Signal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waiters) == 0 {
		return
	}
	close(c.waiters[0])
	c.waiters = c.waiters[1:]
}

// Broadcast wakes all current waiters.
func (c *Cond) Broadcast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
}

// Close destroys the condition variable handle. No waiters may be blocked.
func (c *Cond) Close() error {
	_, err := c.sys.Table().Remove(c.handle)
	return err
}
