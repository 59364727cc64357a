package pal

import (
	"go.uber.org/zap"

	"github.com/wippyai/pal/clock"
	palerrors "github.com/wippyai/pal/errors"
	"github.com/wippyai/pal/resource"
)

// System is an explicitly constructed library context: the handle table,
// the injected native backends, the clock and the logger. There is no
// process-wide mutable state; independent Systems do not interfere, so
// tests can hold several at once.
type System struct {
	table        *resource.Table
	files        FileBackend
	procs        ProcessBackend
	clk          clock.Clock
	log          *zap.Logger
	instrumented bool
}

// Option configures a System.
type Option func(*System)

// WithClock sets the monotonic clock source for timeout deadlines.
func WithClock(c clock.Clock) Option {
	return func(s *System) {
		s.clk = c
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *System) {
		s.log = l
	}
}

// WithFileBackend sets the file backend. Pass nil to build a System
// without file support; Capabilities will not report CapFiles.
func WithFileBackend(b FileBackend) Option {
	return func(s *System) {
		s.files = b
	}
}

// WithProcessBackend sets the process backend. Pass nil to build a System
// without process support.
func WithProcessBackend(b ProcessBackend) Option {
	return func(s *System) {
		s.procs = b
	}
}

// WithInstrumented enables instrumented-mode contract checks: double
// destroys are detected and reported, contract violations abort with a
// diagnostic instead of being unspecified.
func WithInstrumented(on bool) Option {
	return func(s *System) {
		s.instrumented = on
	}
}

// New constructs a System. By default it targets the host OS: native
// files, native child processes, the system monotonic clock and a no-op
// logger.
func New(opts ...Option) *System {
	s := &System{
		files: OSFiles(),
		procs: OSProcesses(),
		clk:   clock.System(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.table = resource.NewTable(resource.WithDebug(s.instrumented))
	return s
}

// Table returns the handle registry.
func (s *System) Table() *resource.Table {
	return s.table
}

// Files returns the file backend, or nil when files are unsupported.
func (s *System) Files() FileBackend {
	return s.files
}

// Processes returns the process backend, or nil when unsupported.
func (s *System) Processes() ProcessBackend {
	return s.procs
}

// Clock returns the monotonic clock source.
func (s *System) Clock() clock.Clock {
	return s.clk
}

// Logger returns the system logger.
func (s *System) Logger() *zap.Logger {
	return s.log
}

// Instrumented reports whether contract checks are enabled.
func (s *System) Instrumented() bool {
	return s.instrumented
}

// Capabilities reports which subsystems this System supports. Threads are
// always available.
func (s *System) Capabilities() Capability {
	caps := CapThreads
	if s.files != nil {
		caps |= CapFiles
	}
	if s.procs != nil {
		caps |= CapProcesses
	}
	return caps
}

// Require returns an unsupported failure unless all wanted capabilities
// are present.
func (s *System) Require(want Capability) error {
	if s.Capabilities().Has(want) {
		return nil
	}
	return palerrors.Unsupported(palerrors.DomainSystem, "capability absent on this build")
}

// Close tears down the handle table, releasing every live resource.
func (s *System) Close() error {
	return s.table.Close()
}
