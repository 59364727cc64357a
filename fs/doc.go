// Package fs implements file streams over an injected FileBackend.
//
// Streams read and write whole elements, fread-style: a short read means
// end-of-stream or error (distinguished with EOF), a short write is always
// an error. Text-mode streams translate line terminators at the I/O
// boundary only: every CRLF pair or lone CR collapses to LF on read, and
// every LF expands to the backend's native terminator on write. Binary
// streams never translate. Platform line-ending differences therefore
// never reach application code.
package fs
