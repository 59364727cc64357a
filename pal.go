package pal

import (
	"io"
)

// Outcome is the tri-state result of a bounded blocking operation.
// A timeout is a normal outcome, not an error.
type Outcome uint8

const (
	// OutcomeFailed means the wait ended with an error; inspect the
	// accompanying error value.
	OutcomeFailed Outcome = iota
	// OutcomeCompleted means the awaited condition was met: the signal
	// was observed, the thread finished, the process exited.
	OutcomeCompleted
	// OutcomeTimedOut means the deadline elapsed first. The awaited
	// resource is untouched and may be waited on again.
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "failed"
	}
}

// OpenMode selects how a file stream is opened.
type OpenMode uint8

const (
	ModeRead      OpenMode = iota // fails if the path does not resolve
	ModeWrite                     // truncates
	ModeAppend                    // positions at end-of-stream
	ModeReadWrite                 // creates if absent
)

func (m OpenMode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeAppend:
		return "append"
	case ModeReadWrite:
		return "read-write"
	default:
		return "unknown"
	}
}

// File is one native file resource as handed out by a FileBackend.
type File interface {
	io.Reader
	io.Writer
	io.Closer
}

// FileBackend maps file operations onto one native I/O model. The concrete
// backend is selected once when the System is constructed and injected,
// never branched on per call.
type FileBackend interface {
	// Open opens a file. The path is already in the backend's native
	// separator form. Errors are native errors; the file subsystem maps
	// them into the library taxonomy.
	Open(nativePath string, mode OpenMode) (File, error)

	// Separator is the backend's native path separator.
	Separator() byte

	// LineTerminator is the native line-terminator sequence used by
	// text-mode streams on write.
	LineTerminator() []byte
}

// ProcessHandle is one running or finished child process.
type ProcessHandle interface {
	// PID returns the native process identifier.
	PID() int

	// Done is closed when the process has finished.
	Done() <-chan struct{}

	// ExitCode is valid only after Done is closed. Killed processes
	// report a negative exit code.
	ExitCode() int

	// Killed reports whether the process was terminated by a signal
	// rather than exiting normally. Valid only after Done is closed.
	Killed() bool

	// Kill forcefully terminates the process. Best effort; the caller
	// must still wait to observe final status.
	Kill() error
}

// ProcessBackend launches child processes on one native process model.
type ProcessBackend interface {
	// Start launches a program with discrete argument tokens. Arguments
	// are never joined into a command-line string by callers; the
	// backend quotes or escapes as its platform requires.
	Start(path string, args []string) (ProcessHandle, error)
}

// Capability identifies an optional subsystem of a System. Query before
// use on constrained builds.
type Capability uint32

const (
	CapFiles Capability = 1 << iota
	CapThreads
	CapProcesses
)

// Has reports whether all capabilities in want are present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Resource type IDs used in the System's handle table.
const (
	TypeFile uint32 = iota + 1
	TypeThread
	TypeMutex
	TypeCond
	TypeProcess
)
