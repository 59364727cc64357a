package wire

import (
	palerrors "github.com/wippyai/pal/errors"
)

// Writer serializes a multi-field record field by field in wire order.
// The zero value is ready to use.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with preallocated capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) U16(v uint16) *Writer {
	w.buf = AppendU16(w.buf, v)
	return w
}

func (w *Writer) U32(v uint32) *Writer {
	w.buf = AppendU32(w.buf, v)
	return w
}

func (w *Writer) U64(v uint64) *Writer {
	w.buf = AppendU64(w.buf, v)
	return w
}

// Bytes appends a length-prefixed byte field (u32 length).
func (w *Writer) Bytes(b []byte) *Writer {
	w.buf = AppendU32(w.buf, uint32(len(b)))
	w.buf = append(w.buf, b...)
	return w
}

// String appends a length-prefixed string field.
func (w *Writer) String(s string) *Writer {
	return w.Bytes([]byte(s))
}

// Finish returns the serialized record.
func (w *Writer) Finish() []byte {
	return w.buf
}

// Reader consumes a serialized record field by field. The first decode
// failure sticks; later reads return zero values and Err reports the
// failure once at the end.
type Reader struct {
	buf []byte
	off int
	err error
}

// NewReader creates a reader over a serialized record.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) take(n int, op string) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.err = palerrors.New(palerrors.DomainWire, palerrors.KindInvalidArgument).
			Op(op).
			Detail("truncated record at offset %d", r.off).
			Build()
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) U8() uint8 {
	b := r.take(1, "u8")
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U16() uint16 {
	b := r.take(2, "u16")
	if b == nil {
		return 0
	}
	v, _ := U16(b)
	return v
}

func (r *Reader) U32() uint32 {
	b := r.take(4, "u32")
	if b == nil {
		return 0
	}
	v, _ := U32(b)
	return v
}

func (r *Reader) U64() uint64 {
	b := r.take(8, "u64")
	if b == nil {
		return 0
	}
	v, _ := U64(b)
	return v
}

// Bytes consumes a length-prefixed byte field.
func (r *Reader) Bytes() []byte {
	n := r.U32()
	if r.err != nil {
		return nil
	}
	// Validate against the remaining bytes while still unsigned; on a
	// 32-bit host a hostile prefix would otherwise truncate negative in
	// the int conversion and slip past the bounds check.
	if uint64(n) > uint64(r.Remaining()) {
		r.err = palerrors.New(palerrors.DomainWire, palerrors.KindInvalidArgument).
			Op("bytes").
			Detail("length prefix %d exceeds %d remaining bytes", n, r.Remaining()).
			Build()
		return nil
	}
	b := r.take(int(n), "bytes")
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// String consumes a length-prefixed string field.
func (r *Reader) String() string {
	return string(r.Bytes())
}

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.buf) - r.off
}

// Err returns the first decode failure, if any.
func (r *Reader) Err() error {
	return r.err
}
