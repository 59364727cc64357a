package pal

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync/atomic"
)

// osFileBackend maps file operations onto the host OS.
type osFileBackend struct {
	terminator []byte
	sep        byte
}

// OSFiles returns the native file backend for the host.
func OSFiles() FileBackend {
	term := []byte{'\n'}
	if runtime.GOOS == "windows" {
		term = []byte{'\r', '\n'}
	}
	return &osFileBackend{
		sep:        filepath.Separator,
		terminator: term,
	}
}

func (b *osFileBackend) Open(nativePath string, mode OpenMode) (File, error) {
	var flag int
	switch mode {
	case ModeRead:
		flag = os.O_RDONLY
	case ModeWrite:
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeAppend:
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ModeReadWrite:
		flag = os.O_RDWR | os.O_CREATE
	}
	return os.OpenFile(nativePath, flag, 0o644)
}

func (b *osFileBackend) Separator() byte {
	return b.sep
}

func (b *osFileBackend) LineTerminator() []byte {
	return b.terminator
}

// osProcessBackend launches child processes with the host process model.
type osProcessBackend struct{}

// OSProcesses returns the native process backend for the host.
func OSProcesses() ProcessBackend {
	return osProcessBackend{}
}

func (osProcessBackend) Start(path string, args []string) (ProcessHandle, error) {
	// exec.Command passes each argument as a discrete token; tokens with
	// spaces or separators survive intact without caller-side quoting.
	cmd := exec.Command(path, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &osProcess{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	go func() {
		err := cmd.Wait()
		ps := cmd.ProcessState
		if ps != nil {
			h.exitCode.Store(int64(ps.ExitCode()))
			if !ps.Exited() {
				h.killed.Store(true)
			}
		} else if err != nil {
			h.exitCode.Store(-1)
		}
		close(h.done)
	}()

	return h, nil
}

type osProcess struct {
	cmd      *exec.Cmd
	done     chan struct{}
	exitCode atomic.Int64
	killed   atomic.Bool
}

func (h *osProcess) PID() int {
	return h.cmd.Process.Pid
}

func (h *osProcess) Done() <-chan struct{} {
	return h.done
}

func (h *osProcess) ExitCode() int {
	return int(h.exitCode.Load())
}

func (h *osProcess) Killed() bool {
	return h.killed.Load()
}

func (h *osProcess) Kill() error {
	return h.cmd.Process.Kill()
}
