package fs

import (
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/pal"
	palerrors "github.com/wippyai/pal/errors"
	"github.com/wippyai/pal/pathutil"
	"github.com/wippyai/pal/resource"
)

const flushThreshold = 4096

// Options selects the access mode and the text/binary translation flag of
// a stream.
type Options struct {
	Mode pal.OpenMode
	Text bool
}

// Stream is one open file. It owns exactly one native file resource and
// is registered in the System's handle table; Close destroys the handle
// and releases the native resource exactly once.
//
// A Stream must not be used from multiple threads concurrently.
type Stream struct {
	sys        *pal.System
	file       pal.File
	terminator []byte
	handle     resource.Handle
	mode       pal.OpenMode
	text       bool

	carry     []byte // translated input not yet delivered as whole elements
	wbuf      []byte // translated output not yet flushed
	pendingCR bool
	rawEOF    bool
	eof       bool
	lastErr   string
}

// streams is the typed registry view over a System's file resources.
func streams(sys *pal.System) resource.View[*Stream] {
	return resource.NewView[*Stream](sys.Table(), pal.TypeFile)
}

// Resolve returns the stream registered under h, if it is live and is a
// file handle.
func Resolve(sys *pal.System, h resource.Handle) (*Stream, bool) {
	return streams(sys).Get(h)
}

// Open opens a file stream. The path is canonical; it is converted to the
// backend's native separator form only here, at the boundary. Opening for
// read fails with not_found if the path does not resolve; write truncates;
// append positions at end-of-stream.
func Open(sys *pal.System, path string, o Options) (*Stream, error) {
	if err := sys.Require(pal.CapFiles); err != nil {
		return nil, err
	}
	if path == "" {
		return nil, palerrors.InvalidArgument(palerrors.DomainFile, "open", "empty path")
	}

	backend := sys.Files()
	native := pathutil.ToNative(pathutil.Clean(path), backend.Separator())

	file, err := backend.Open(native, o.Mode)
	if err != nil {
		return nil, palerrors.FromOS(palerrors.DomainFile, "open", path, err)
	}

	s := &Stream{
		sys:        sys,
		file:       file,
		mode:       o.Mode,
		text:       o.Text,
		terminator: backend.LineTerminator(),
	}
	s.handle = streams(sys).Insert(s)
	if s.handle == 0 {
		file.Close() //nolint:errcheck
		return nil, palerrors.CreationFailed(palerrors.DomainFile, "open", nil)
	}

	sys.Logger().Debug("stream opened",
		zap.String("path", path),
		zap.Stringer("mode", o.Mode),
		zap.Bool("text", o.Text))

	return s, nil
}

// Handle returns the stream's registry handle.
func (s *Stream) Handle() resource.Handle {
	return s.handle
}

// EOF reports whether a previous Read observed end-of-stream. A short
// read with EOF false indicates an error, not exhaustion.
func (s *Stream) EOF() bool {
	return s.eof
}

// LastError returns the most recent failure message for diagnostics.
// It is never machine-parsed.
func (s *Stream) LastError() string {
	return s.lastErr
}

// Read delivers up to count elements of elemSize bytes each into buf.
// Fewer than count elements are returned only at end-of-stream or on
// error; use EOF to distinguish. A trailing partial element is retained
// in the stream for the next read, never delivered.
func (s *Stream) Read(buf []byte, elemSize, count int) (int, error) {
	if elemSize <= 0 {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "read", "non-positive element size"))
	}
	if count < 0 {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "read", "negative element count"))
	}
	if len(buf) < elemSize*count {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "read", "buffer smaller than request"))
	}
	if s.file == nil {
		return 0, s.fail(palerrors.AlreadyClosed(palerrors.DomainFile, "read"))
	}

	want := elemSize * count
	var chunk [4096]byte
	for len(s.carry) < want && !s.rawEOF {
		n, err := s.file.Read(chunk[:])
		if n > 0 {
			s.ingest(chunk[:n])
		}
		if err == io.EOF {
			s.rawEOF = true
			if s.pendingCR {
				// A stream ending in a bare carriage return still
				// terminates a line.
				s.carry = append(s.carry, '\n')
				s.pendingCR = false
			}
			break
		}
		if err != nil {
			return 0, s.fail(palerrors.FromOS(palerrors.DomainFile, "read", "", err))
		}
	}

	avail := len(s.carry) / elemSize
	n := min(avail, count)
	copy(buf, s.carry[:n*elemSize])
	s.carry = s.carry[n*elemSize:]

	if n < count && s.rawEOF {
		s.eof = true
	}
	return n, nil
}

// Write stores count elements of elemSize bytes each from buf. A short
// write is an error, not a valid partial-success state: stream position
// afterward would be ambiguous, so the stream accepts all elements or
// reports a failure.
func (s *Stream) Write(buf []byte, elemSize, count int) (int, error) {
	if elemSize <= 0 {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "write", "non-positive element size"))
	}
	if count < 0 {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "write", "negative element count"))
	}
	if len(buf) < elemSize*count {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "write", "buffer smaller than request"))
	}
	if s.file == nil {
		return 0, s.fail(palerrors.AlreadyClosed(palerrors.DomainFile, "write"))
	}
	if s.mode == pal.ModeRead {
		return 0, s.fail(palerrors.InvalidArgument(palerrors.DomainFile, "write", "stream opened read-only"))
	}

	data := buf[:elemSize*count]
	if s.text && string(s.terminator) != "\n" {
		for _, b := range data {
			if b == '\n' {
				s.wbuf = append(s.wbuf, s.terminator...)
			} else {
				s.wbuf = append(s.wbuf, b)
			}
		}
	} else {
		s.wbuf = append(s.wbuf, data...)
	}

	if len(s.wbuf) >= flushThreshold {
		if err := s.Flush(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// Flush writes out any buffered output.
func (s *Stream) Flush() error {
	if s.file == nil {
		return palerrors.AlreadyClosed(palerrors.DomainFile, "flush")
	}
	if len(s.wbuf) == 0 {
		return nil
	}

	n, err := s.file.Write(s.wbuf)
	if err == nil && n < len(s.wbuf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return s.fail(palerrors.Wrap(palerrors.DomainFile, palerrors.KindCreationFailed, err, "flush failed"))
	}
	s.wbuf = s.wbuf[:0]
	return nil
}

// Close flushes buffered output and releases the native resource.
// Attempted exactly once per stream; a second close on an instrumented
// System reports already_closed.
func (s *Stream) Close() error {
	flushErr := error(nil)
	if s.file != nil && len(s.wbuf) > 0 {
		flushErr = s.Flush()
	}

	if _, err := streams(s.sys).Remove(s.handle); err != nil {
		return err
	}
	return flushErr
}

// Drop releases the native resource. Called by the handle table, which
// guarantees release on every teardown path.
func (s *Stream) Drop() {
	if s.file == nil {
		return
	}
	if err := s.file.Close(); err != nil {
		s.sys.Logger().Warn("stream close failed", zap.Error(err))
	}
	s.file = nil
}

// ingest translates a raw chunk into the carry buffer. Text mode
// collapses CRLF pairs and lone CRs to a single LF, holding a trailing CR
// back until the next chunk decides whether it heads a CRLF pair. Binary
// mode passes bytes through untouched.
func (s *Stream) ingest(chunk []byte) {
	if !s.text {
		s.carry = append(s.carry, chunk...)
		return
	}

	i := 0
	if s.pendingCR {
		s.carry = append(s.carry, '\n')
		s.pendingCR = false
		if chunk[0] == '\n' {
			i = 1
		}
	}

	for ; i < len(chunk); i++ {
		b := chunk[i]
		if b != '\r' {
			s.carry = append(s.carry, b)
			continue
		}
		if i == len(chunk)-1 {
			s.pendingCR = true
			return
		}
		s.carry = append(s.carry, '\n')
		if chunk[i+1] == '\n' {
			i++
		}
	}
}

func (s *Stream) fail(err *palerrors.Error) error {
	s.lastErr = err.Message()
	return err
}
