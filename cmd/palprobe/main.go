package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/pal"
	"github.com/wippyai/pal/fs"
	"github.com/wippyai/pal/pathutil"
	"github.com/wippyai/pal/proc"
	"github.com/wippyai/pal/thread"
	"github.com/wippyai/pal/wire"
)

// A probe exercises one subsystem against the running host and reports
// what it observed.
type probe struct {
	name string
	desc string
	run  func(sys *pal.System) (string, error)
}

var probes = []probe{
	{
		name: "wire",
		desc: "host byte order and network wire order",
		run:  probeWire,
	},
	{
		name: "path",
		desc: "canonical path normalization",
		run:  probePath,
	},
	{
		name: "file",
		desc: "file round trip through a temp directory",
		run:  probeFile,
	},
	{
		name: "mutex",
		desc: "mutual exclusion under contention",
		run:  probeMutex,
	},
	{
		name: "cond",
		desc: "condition wait timeout lower bound",
		run:  probeCond,
	},
	{
		name: "proc",
		desc: "child process launch and exit code",
		run:  probeProc,
	},
}

func main() {
	var (
		name        = flag.String("probe", "all", "Probe to run (or 'all')")
		list        = flag.Bool("list", false, "List probes and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		debug       = flag.Bool("debug", false, "Instrumented mode (strict handle checks)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *list {
		for _, p := range probes {
			fmt.Printf("  %-8s %s\n", p.name, p.desc)
		}
		return
	}

	opts := []pal.Option{pal.WithInstrumented(*debug)}
	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync() //nolint:errcheck
		opts = append(opts, pal.WithLogger(log))
	}
	sys := pal.New(opts...)
	defer sys.Close()

	if *interactive {
		if err := runInteractive(sys); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	failed := 0
	for _, p := range probes {
		if *name != "all" && p.name != *name {
			continue
		}
		result, err := p.run(sys)
		if err != nil {
			fmt.Printf("%-8s FAIL  %v\n", p.name, err)
			failed++
			continue
		}
		fmt.Printf("%-8s ok    %s\n", p.name, result)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func probeWire(*pal.System) (string, error) {
	buf := wire.AppendU32(nil, 0x12345678)
	want := []byte{0x12, 0x34, 0x56, 0x78}
	for i := range want {
		if buf[i] != want[i] {
			return "", fmt.Errorf("wire order broken: % x", buf)
		}
	}
	return fmt.Sprintf("host is %s, wire stays big-endian", wire.HostOrder()), nil
}

func probePath(*pal.System) (string, error) {
	samples := []string{"a//b///c", "/usr//local/", "C:/data//x"}
	var out []string
	for _, s := range samples {
		out = append(out, fmt.Sprintf("%s -> %s", s, pathutil.Clean(s)))
	}
	return strings.Join(out, ", "), nil
}

func probeFile(sys *pal.System) (string, error) {
	dir, err := os.MkdirTemp("", "palprobe")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	path := pathutil.FromNative(filepath.Join(dir, "probe.txt"), filepath.Separator)
	payload := "line one\nline two\n"

	s, err := fs.Open(sys, path, fs.Options{Mode: pal.ModeWrite, Text: true})
	if err != nil {
		return "", err
	}
	if _, err := s.Write([]byte(payload), 1, len(payload)); err != nil {
		s.Close() //nolint:errcheck
		return "", err
	}
	if err := s.Close(); err != nil {
		return "", err
	}

	s, err = fs.Open(sys, path, fs.Options{Mode: pal.ModeRead, Text: true})
	if err != nil {
		return "", err
	}
	defer s.Close() //nolint:errcheck
	buf := make([]byte, 256)
	n, err := s.Read(buf, 1, len(buf))
	if err != nil {
		return "", err
	}
	if string(buf[:n]) != payload {
		return "", fmt.Errorf("round trip mismatch: %q", buf[:n])
	}
	return fmt.Sprintf("%d bytes round-tripped with text translation", n), nil
}

func probeMutex(sys *pal.System) (string, error) {
	const workers = 8
	const iterations = 10000

	m, err := thread.NewMutex(sys)
	if err != nil {
		return "", err
	}
	defer m.Close() //nolint:errcheck

	counter := 0
	var threads []*thread.Thread
	for i := 0; i < workers; i++ {
		th, err := thread.Create(sys, func(any) any {
			for j := 0; j < iterations; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
			return nil
		}, nil)
		if err != nil {
			return "", err
		}
		threads = append(threads, th)
	}
	for _, th := range threads {
		if _, _, err := th.Join(0); err != nil {
			return "", err
		}
	}
	if counter != workers*iterations {
		return "", fmt.Errorf("counter = %d, want %d", counter, workers*iterations)
	}
	return fmt.Sprintf("%d increments across %d threads, no loss", counter, workers), nil
}

func probeCond(sys *pal.System) (string, error) {
	m, err := thread.NewMutex(sys)
	if err != nil {
		return "", err
	}
	defer m.Close() //nolint:errcheck
	c, err := thread.NewCond(sys)
	if err != nil {
		return "", err
	}
	defer c.Close() //nolint:errcheck

	const timeout = 50 * time.Millisecond
	m.Lock()
	start := time.Now()
	outcome, err := c.Wait(m, timeout)
	elapsed := time.Since(start)
	m.Unlock()
	if err != nil {
		return "", err
	}
	if outcome != pal.OutcomeTimedOut {
		return "", fmt.Errorf("outcome = %v, want timed_out", outcome)
	}
	if elapsed < timeout {
		return "", fmt.Errorf("woke after %v, before the %v bound", elapsed, timeout)
	}
	return fmt.Sprintf("asked %v, woke after %v", timeout, elapsed.Round(time.Millisecond)), nil
}

func probeProc(sys *pal.System) (string, error) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		return "no sh on this host, skipped", nil
	}

	p, err := proc.Launch(sys, sh, "-c", "exit 42")
	if err != nil {
		return "", err
	}
	defer p.Free() //nolint:errcheck

	outcome, err := p.Wait(5 * time.Second)
	if err != nil {
		return "", err
	}
	if outcome != pal.OutcomeCompleted {
		return "", fmt.Errorf("outcome = %v, want completed", outcome)
	}
	code, err := p.ExitCode()
	if err != nil {
		return "", err
	}
	if code != 42 {
		return "", fmt.Errorf("exit code = %d, want 42", code)
	}
	return fmt.Sprintf("pid %d exited %d (%s)", p.PID(), code, p.Cause()), nil
}
