package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/pal"
	palerrors "github.com/wippyai/pal/errors"
)

func memSystem(t *testing.T, opts ...pal.Option) (*pal.System, *pal.MemBackend) {
	t.Helper()
	backend := pal.MemFiles()
	sys := pal.New(append([]pal.Option{pal.WithFileBackend(backend)}, opts...)...)
	t.Cleanup(func() { sys.Close() })
	return sys, backend
}

func TestOpen_ReadMissing(t *testing.T) {
	sys, _ := memSystem(t)

	_, err := Open(sys, "no/such/file", Options{Mode: pal.ModeRead})
	if err == nil {
		t.Fatal("Open of missing file should fail")
	}
	target := &palerrors.Error{Domain: palerrors.DomainFile, Kind: palerrors.KindNotFound}
	if !errors.Is(err, target) {
		t.Errorf("error = %v, want not_found", err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	sys, _ := memSystem(t)

	_, err := Open(sys, "", Options{Mode: pal.ModeRead})
	target := &palerrors.Error{Domain: palerrors.DomainFile, Kind: palerrors.KindInvalidArgument}
	if !errors.Is(err, target) {
		t.Errorf("error = %v, want invalid_argument", err)
	}
}

func TestOpen_NoFileBackend(t *testing.T) {
	sys := pal.New(pal.WithFileBackend(nil))
	defer sys.Close()

	_, err := Open(sys, "x", Options{Mode: pal.ModeRead})
	target := &palerrors.Error{Domain: palerrors.DomainSystem, Kind: palerrors.KindUnsupported}
	if !errors.Is(err, target) {
		t.Errorf("error = %v, want unsupported", err)
	}
}

func TestStream_BinaryRoundTrip(t *testing.T) {
	sys, backend := memSystem(t)

	out, err := Open(sys, "data/blob.bin", Options{Mode: pal.ModeWrite})
	if err != nil {
		t.Fatalf("Open for write failed: %v", err)
	}

	payload := []byte{0x00, 0x0D, 0x0A, 0xFF, 0x0D}
	n, err := out.Write(payload, 1, len(payload))
	if err != nil || n != len(payload) {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	stored, _ := backend.ReadFile("data/blob.bin")
	if string(stored) != string(payload) {
		t.Errorf("binary stream altered bytes: %x", stored)
	}

	in, err := Open(sys, "data/blob.bin", Options{Mode: pal.ModeRead})
	if err != nil {
		t.Fatalf("Open for read failed: %v", err)
	}
	defer in.Close()

	buf := make([]byte, 16)
	n, err = in.Read(buf, 1, 16)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != len(payload) {
		t.Errorf("Read = %d elements, want %d", n, len(payload))
	}
	if !in.EOF() {
		t.Error("EOF should be set after short read at end-of-stream")
	}
}

func TestStream_TextReadCollapsesTerminators(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"crlf", "a\r\nb\r\nc", "a\nb\nc"},
		{"lone cr", "a\rb\rc", "a\nb\nc"},
		{"mixed", "a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"trailing cr", "line\r", "line\n"},
		{"trailing crlf", "line\r\n", "line\n"},
		{"no terminators", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys, backend := memSystem(t)
			backend.WriteFile("in.txt", []byte(tt.raw))

			s, err := Open(sys, "in.txt", Options{Mode: pal.ModeRead, Text: true})
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer s.Close()

			buf := make([]byte, 64)
			n, err := s.Read(buf, 1, 64)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if got := string(buf[:n]); got != tt.want {
				t.Errorf("read %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStream_TextWriteExpandsTerminators(t *testing.T) {
	sys, backend := memSystem(t)
	backend.SetConventions('\\', "\r\n")

	s, err := Open(sys, "out.txt", Options{Mode: pal.ModeWrite, Text: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	data := []byte("one\ntwo\n")
	if _, err := s.Write(data, 1, len(data)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	stored, _ := backend.ReadFile("out.txt")
	if string(stored) != "one\r\ntwo\r\n" {
		t.Errorf("stored = %q, want CRLF expansion", stored)
	}
}

func TestStream_TextTranslationAtBoundaryOnly(t *testing.T) {
	// Content already delivered to the caller is never altered by later
	// reads; translation state lives entirely at the I/O boundary.
	sys, backend := memSystem(t)

	// CRLF split across the carry: read one byte at a time.
	backend.WriteFile("in.txt", []byte("x\r\ny"))

	s, err := Open(sys, "in.txt", Options{Mode: pal.ModeRead, Text: true})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	var got []byte
	buf := make([]byte, 1)
	for {
		n, err := s.Read(buf, 1, 1)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if n == 0 {
			break
		}
		got = append(got, buf[0])
	}
	if string(got) != "x\ny" {
		t.Errorf("read %q, want x\\ny", got)
	}
}

func TestStream_ElementGranularity(t *testing.T) {
	sys, backend := memSystem(t)
	backend.WriteFile("rec.bin", []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}) // 2.5 records of 4

	s, err := Open(sys, "rec.bin", Options{Mode: pal.ModeRead})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	buf := make([]byte, 12)
	n, err := s.Read(buf, 4, 3)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Read = %d elements, want 2 (partial element withheld)", n)
	}
	if !s.EOF() {
		t.Error("EOF should be set")
	}
}

func TestStream_ReadValidation(t *testing.T) {
	sys, backend := memSystem(t)
	backend.WriteFile("x", []byte("abc"))

	s, err := Open(sys, "x", Options{Mode: pal.ModeRead})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Read(make([]byte, 4), 0, 1); err == nil {
		t.Error("zero element size should fail")
	}
	if !strings.Contains(s.LastError(), "element size") {
		t.Errorf("LastError = %q, want the element size named", s.LastError())
	}
	if _, err := s.Read(make([]byte, 4), 1, -1); err == nil {
		t.Error("negative count should fail")
	}
	if !strings.Contains(s.LastError(), "element count") {
		t.Errorf("LastError = %q, want the element count named", s.LastError())
	}
	if _, err := s.Read(make([]byte, 2), 4, 1); err == nil {
		t.Error("undersized buffer should fail")
	}
	if s.LastError() == "" {
		t.Error("LastError should record the failure message")
	}
}

func TestStream_WriteReadOnly(t *testing.T) {
	sys, backend := memSystem(t)
	backend.WriteFile("x", []byte("abc"))

	s, err := Open(sys, "x", Options{Mode: pal.ModeRead})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	_, err = s.Write([]byte("y"), 1, 1)
	target := &palerrors.Error{Domain: palerrors.DomainFile, Kind: palerrors.KindInvalidArgument}
	if !errors.Is(err, target) {
		t.Errorf("error = %v, want invalid_argument", err)
	}
}

func TestStream_AppendPositionsAtEnd(t *testing.T) {
	sys, backend := memSystem(t)
	backend.WriteFile("log.txt", []byte("first\n"))

	s, err := Open(sys, "log.txt", Options{Mode: pal.ModeAppend})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data := []byte("second\n")
	if _, err := s.Write(data, 1, len(data)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	stored, _ := backend.ReadFile("log.txt")
	if string(stored) != "first\nsecond\n" {
		t.Errorf("stored = %q", stored)
	}
}

func TestStream_DoubleCloseInstrumented(t *testing.T) {
	sys, _ := memSystem(t, pal.WithInstrumented(true))

	s, err := Open(sys, "x", Options{Mode: pal.ModeWrite})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}

	err = s.Close()
	target := &palerrors.Error{Domain: palerrors.DomainResource, Kind: palerrors.KindAlreadyClosed}
	if !errors.Is(err, target) {
		t.Errorf("second Close = %v, want already_closed", err)
	}
}

func TestStream_CloseFlushesBufferedOutput(t *testing.T) {
	sys, backend := memSystem(t)

	s, err := Open(sys, "buffered.txt", Options{Mode: pal.ModeWrite})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	data := []byte("small write")
	if _, err := s.Write(data, 1, len(data)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Below the flush threshold: nothing on disk until close.
	if stored, _ := backend.ReadFile("buffered.txt"); len(stored) != 0 {
		t.Errorf("unexpected early flush: %q", stored)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if stored, _ := backend.ReadFile("buffered.txt"); string(stored) != "small write" {
		t.Errorf("stored = %q", stored)
	}
}

func TestStream_OSBackend(t *testing.T) {
	sys := pal.New()
	defer sys.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.txt")

	out, err := Open(sys, path, Options{Mode: pal.ModeWrite})
	if err != nil {
		t.Fatalf("Open for write failed: %v", err)
	}
	data := []byte("hello from the os backend\n")
	if _, err := out.Write(data, 1, len(data)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(stored) != string(data) {
		t.Errorf("stored = %q", stored)
	}

	in, err := Open(sys, path, Options{Mode: pal.ModeRead})
	if err != nil {
		t.Fatalf("Open for read failed: %v", err)
	}
	defer in.Close()

	buf := make([]byte, 64)
	n, err := in.Read(buf, 1, 64)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(buf[:n]) != string(data) {
		t.Errorf("read %q", buf[:n])
	}
}

func TestResolve(t *testing.T) {
	sys, backend := memSystem(t)
	backend.WriteFile("x", []byte("data"))

	s, err := Open(sys, "x", Options{Mode: pal.ModeRead})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	got, ok := Resolve(sys, s.Handle())
	if !ok || got != s {
		t.Errorf("Resolve = %v, %v", got, ok)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := Resolve(sys, s.Handle()); ok {
		t.Error("Resolve should fail after Close")
	}
}
