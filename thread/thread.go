package thread

import (
	"time"

	"github.com/wippyai/pal"
	"github.com/wippyai/pal/clock"
	palerrors "github.com/wippyai/pal/errors"
	"github.com/wippyai/pal/resource"
)

// Thread is one concurrently executing entry function. A thread is joined
// at most once; a successful join consumes the handle and releases the
// underlying resource.
type Thread struct {
	sys    *pal.System
	done   chan struct{}
	result any
	handle resource.Handle
	joined bool
}

// Create starts entry(arg) concurrently. Execution begins immediately;
// there is no guarantee on when the new thread is first scheduled relative
// to the caller continuing.
func Create(sys *pal.System, entry func(arg any) any, arg any) (*Thread, error) {
	if entry == nil {
		return nil, palerrors.InvalidArgument(palerrors.DomainThread, "create", "nil entry function")
	}

	t := &Thread{
		sys:  sys,
		done: make(chan struct{}),
	}
	t.handle = sys.Table().Insert(pal.TypeThread, t)
	if t.handle == 0 {
		return nil, palerrors.CreationFailed(palerrors.DomainThread, "create", nil)
	}

	go func() {
		t.result = entry(arg)
		close(t.done)
	}()

	return t, nil
}

// ID is unique among currently-live threads and stable for the thread's
// lifetime. After the thread is joined its ID is eligible for reuse.
func (t *Thread) ID() uint32 {
	return t.handle.Index()
}

// Handle returns the thread's registry handle.
func (t *Thread) Handle() resource.Handle {
	return t.handle
}

// Join blocks until the thread completes or the timeout elapses, then
// returns the entry function's return value. A timeout does not consume
// the handle; the caller may join again later. A non-positive timeout
// waits without bound.
func (t *Thread) Join(timeout time.Duration) (pal.Outcome, any, error) {
	if t.joined {
		return pal.OutcomeFailed, nil, palerrors.AlreadyClosed(palerrors.DomainThread, "join")
	}

	d := clock.After(t.sys.Clock(), timeout)
	if d.Bounded() {
		timer := time.NewTimer(d.Remaining())
		defer timer.Stop()
		select {
		case <-t.done:
		case <-timer.C:
			// Completion observed first wins over a simultaneous timeout.
			select {
			case <-t.done:
			default:
				return pal.OutcomeTimedOut, nil, nil
			}
		}
	} else {
		<-t.done
	}

	// Joining consumes the handle; the underlying resource passes to the
	// join call, which releases it.
	t.joined = true
	if _, err := t.sys.Table().Remove(t.handle); err != nil {
		return pal.OutcomeFailed, nil, err
	}
	return pal.OutcomeCompleted, t.result, nil
}
