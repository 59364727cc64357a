package clock

import (
	"sync"
	"time"
)

// Clock is the monotonic time source used for timeout deadlines.
// Collaborators may supply their own; tests use Fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System returns the host monotonic clock.
func System() Clock {
	return systemClock{}
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake creates a fake clock starting at an arbitrary fixed instant.
func NewFake() *Fake {
	return &Fake{now: time.Unix(1000, 0)}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake clock forward.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Deadline is an absolute point in monotonic time, computed once from a
// relative timeout at wait entry. Re-waiting against the same Deadline
// after a spurious wakeup does not drift the effective timeout.
//
// The zero Deadline means unbounded: it never expires.
type Deadline struct {
	clock Clock
	at    time.Time
	set   bool
}

// After computes a deadline the given duration from now. A non-positive
// timeout yields an unbounded deadline.
func After(c Clock, timeout time.Duration) Deadline {
	if timeout <= 0 {
		return Deadline{}
	}
	return Deadline{clock: c, at: c.Now().Add(timeout), set: true}
}

// Bounded reports whether the deadline will ever expire.
func (d Deadline) Bounded() bool {
	return d.set
}

// Expired reports whether the deadline has passed.
func (d Deadline) Expired() bool {
	return d.set && !d.clock.Now().Before(d.at)
}

// Remaining returns the time left until expiry. Unbounded deadlines
// report a negative value; callers must check Bounded first when the
// distinction matters.
func (d Deadline) Remaining() time.Duration {
	if !d.set {
		return -1
	}
	r := d.at.Sub(d.clock.Now())
	if r < 0 {
		return 0
	}
	return r
}
