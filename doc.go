// Package pal is a platform abstraction layer: one consistent API for file
// I/O, threads, mutexes and condition variables, process lifecycle control,
// and wire-safe binary layout, mapped internally onto the native platform
// primitives through injected backends.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	pal/           Root package with the System context and backend interfaces
//	├── errors/    Structured error model shared by every subsystem
//	├── resource/  Opaque-handle registry (create/use/destroy)
//	├── wire/      Byte-order detection and fixed-order serialization
//	├── pathutil/  Canonical path manipulation
//	├── fs/        File streams with text/binary translation
//	├── thread/    Threads, mutexes, condition variables
//	├── proc/      Child process launch, wait, terminate
//	└── clock/     Monotonic clock source and wait deadlines
//
// # Quick Start
//
// Construct a System and use the subsystems against it:
//
//	sys := pal.New()
//	defer sys.Close()
//
//	stream, err := fs.Open(sys, "data/report.txt", fs.Options{Mode: pal.ModeRead})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
// # Backends
//
// Platform differences live behind the FileBackend and ProcessBackend
// interfaces. The concrete backend is selected once when the System is
// constructed and injected; nothing branches on the platform per call.
// pal.OSFiles and pal.OSProcesses target the host; pal.MemFiles is an
// in-memory file backend for tests.
//
// # Failure Model
//
// Fallible operations return structured errors from the errors package.
// Bounded waits return an Outcome: completed, timed out, or failed.
// A timeout is not an error. Programming errors such as double-destroying
// a handle are detected in instrumented mode (pal.WithInstrumented) and
// are the caller's responsibility otherwise.
package pal
