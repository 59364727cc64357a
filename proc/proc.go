package proc

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/pal"
	"github.com/wippyai/pal/clock"
	palerrors "github.com/wippyai/pal/errors"
	"github.com/wippyai/pal/resource"
)

// State is a process's position in its lifecycle. A process moves
// strictly forward: Launched, then Running, then exactly one of
// Completed or Terminated.
type State uint8

const (
	StateLaunched State = iota
	StateRunning
	StateCompleted
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateLaunched:
		return "launched"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Cause explains how a finished process ended.
type Cause uint8

const (
	// CauseNone means the process has not finished yet.
	CauseNone Cause = iota
	// CauseExited means the process ran to completion and reported an
	// exit code.
	CauseExited
	// CauseKilled means the process was terminated externally.
	CauseKilled
)

func (c Cause) String() string {
	switch c {
	case CauseExited:
		return "exited"
	case CauseKilled:
		return "killed"
	}
	return "none"
}

// Process is one child process registered in a System's handle table.
// All methods are safe for concurrent use.
type Process struct {
	sys    *pal.System
	handle resource.Handle
	ph     pal.ProcessHandle
	path   string

	mu       sync.Mutex
	state    State
	exitCode int
	cause    Cause
}

// Launch starts a program. args are discrete argv tokens handed to the
// backend as-is; they are never joined into a command-line string, so
// tokens containing spaces or separator characters survive intact.
func Launch(sys *pal.System, path string, args ...string) (*Process, error) {
	if err := sys.Require(pal.CapProcesses); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, palerrors.InvalidArgument(palerrors.DomainProcess, "launch", "empty program path")
	}

	ph, err := sys.Processes().Start(path, args)
	if err != nil {
		return nil, palerrors.FromOS(palerrors.DomainProcess, "launch", path, err)
	}

	p := &Process{
		sys:   sys,
		ph:    ph,
		path:  path,
		state: StateLaunched,
	}
	p.handle = sys.Table().Insert(pal.TypeProcess, p)
	if p.handle == 0 {
		ph.Kill() //nolint:errcheck
		return nil, palerrors.CreationFailed(palerrors.DomainProcess, "launch", nil)
	}
	p.state = StateRunning

	sys.Logger().Debug("process launched",
		zap.String("path", path),
		zap.Int("pid", ph.PID()),
		zap.Int("argc", len(args)),
		zap.Uint32("handle", uint32(p.handle)))
	return p, nil
}

// Handle returns the process's registry handle.
func (p *Process) Handle() resource.Handle {
	return p.handle
}

// PID returns the native process identifier.
func (p *Process) PID() int {
	return p.ph.PID()
}

// State returns the current lifecycle state.
func (p *Process) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Wait blocks until the process finishes or the timeout elapses. A
// non-positive timeout waits without bound. Once a completion has been
// observed the outcome is recorded; repeat waits return it immediately
// without blocking.
func (p *Process) Wait(timeout time.Duration) (pal.Outcome, error) {
	p.mu.Lock()
	if p.state == StateCompleted || p.state == StateTerminated {
		p.mu.Unlock()
		return pal.OutcomeCompleted, nil
	}
	p.mu.Unlock()

	d := clock.After(p.sys.Clock(), timeout)
	if d.Bounded() {
		timer := time.NewTimer(d.Remaining())
		defer timer.Stop()
		select {
		case <-p.ph.Done():
		case <-timer.C:
			// Completion observed first wins over a simultaneous timeout.
			select {
			case <-p.ph.Done():
			default:
				return pal.OutcomeTimedOut, nil
			}
		}
	} else {
		<-p.ph.Done()
	}

	p.record()
	return pal.OutcomeCompleted, nil
}

// record captures the final status exactly once. Callers must have
// observed Done.
func (p *Process) record() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateCompleted || p.state == StateTerminated {
		return
	}
	p.exitCode = p.ph.ExitCode()
	if p.ph.Killed() {
		p.state = StateTerminated
		p.cause = CauseKilled
	} else {
		p.state = StateCompleted
		p.cause = CauseExited
	}

	p.sys.Logger().Debug("process finished",
		zap.String("path", p.path),
		zap.Int("pid", p.ph.PID()),
		zap.Int("exit_code", p.exitCode),
		zap.String("cause", p.cause.String()))
}

// ExitCode returns the recorded exit code. Valid only after a Wait has
// observed completion.
func (p *Process) ExitCode() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != StateCompleted && p.state != StateTerminated {
		return 0, palerrors.InvalidArgument(palerrors.DomainProcess, "exit-code", "process has not finished")
	}
	return p.exitCode, nil
}

// Cause returns how the process ended, or CauseNone while it runs.
func (p *Process) Cause() Cause {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cause
}

// Terminate forcefully stops the process. Best effort; the caller must
// still Wait to observe the final status.
func (p *Process) Terminate() error {
	if err := p.ph.Kill(); err != nil {
		return palerrors.FromOS(palerrors.DomainProcess, "terminate", p.path, err)
	}
	p.sys.Logger().Debug("process terminate requested",
		zap.String("path", p.path),
		zap.Int("pid", p.ph.PID()))
	return nil
}

// Free releases the process handle. A still-running process is killed
// through the table's drop hook; wait first to let it finish cleanly.
func (p *Process) Free() error {
	_, err := p.sys.Table().Remove(p.handle)
	return err
}

// Drop is invoked by the resource table when the handle is released
// with the process still running.
func (p *Process) Drop() {
	select {
	case <-p.ph.Done():
		return
	default:
	}
	if err := p.ph.Kill(); err != nil {
		p.sys.Logger().Warn("kill on drop failed",
			zap.String("path", p.path),
			zap.Int("pid", p.ph.PID()),
			zap.Error(err))
	}
}
