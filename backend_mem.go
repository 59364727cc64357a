package pal

import (
	"io"
	"io/fs"
	"sync"
)

// MemBackend is an in-memory file backend for tests and constrained
// targets. It uses the canonical separator and a configurable line
// terminator, which makes text-mode translation deterministic to test.
type MemBackend struct {
	files      map[string][]byte
	terminator []byte
	mu         sync.Mutex
	sep        byte
}

// MemFiles returns an empty in-memory backend with Unix conventions.
func MemFiles() *MemBackend {
	return &MemBackend{
		files:      make(map[string][]byte),
		sep:        '/',
		terminator: []byte{'\n'},
	}
}

// SetConventions overrides the native separator and line terminator,
// simulating a foreign host convention.
func (b *MemBackend) SetConventions(sep byte, terminator string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sep = sep
	b.terminator = []byte(terminator)
}

// WriteFile seeds a file, replacing any previous content.
func (b *MemBackend) WriteFile(path string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.files[path] = append([]byte(nil), data...)
}

// ReadFile returns a copy of a file's content.
func (b *MemBackend) ReadFile(path string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (b *MemBackend) Open(nativePath string, mode OpenMode) (File, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, exists := b.files[nativePath]
	switch mode {
	case ModeRead:
		if !exists {
			return nil, fs.ErrNotExist
		}
	case ModeWrite:
		b.files[nativePath] = nil
		data = nil
	case ModeAppend, ModeReadWrite:
		if !exists {
			b.files[nativePath] = nil
			data = nil
		}
	}

	return &memFile{
		backend:  b,
		path:     nativePath,
		snapshot: append([]byte(nil), data...),
		writable: mode != ModeRead,
	}, nil
}

func (b *MemBackend) Separator() byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sep
}

func (b *MemBackend) LineTerminator() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminator
}

// memFile reads from a snapshot taken at open and appends writes directly
// to the backing map, which matches write and append stream semantics.
type memFile struct {
	backend  *MemBackend
	path     string
	snapshot []byte
	off      int
	writable bool
	closed   bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	if f.off >= len(f.snapshot) {
		return 0, io.EOF
	}
	n := copy(p, f.snapshot[f.off:])
	f.off += n
	return n, nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fs.ErrClosed
	}
	if !f.writable {
		return 0, fs.ErrPermission
	}
	f.backend.mu.Lock()
	f.backend.files[f.path] = append(f.backend.files[f.path], p...)
	f.backend.mu.Unlock()
	return len(p), nil
}

func (f *memFile) Close() error {
	if f.closed {
		return fs.ErrClosed
	}
	f.closed = true
	return nil
}
