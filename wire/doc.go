// Package wire provides host byte-order detection and fixed-order binary
// serialization.
//
// Values cross process and host boundaries in a single fixed wire order,
// network order (big-endian), so data produced on one host is readable on
// another regardless of either host's native order. The host's own order
// is probed once at first use (see HostOrder) and is available for
// diagnostics; it never changes what goes on the wire.
//
// Multi-field records are serialized field by field with Writer and
// Reader. Copying raw structure memory is not a serialization technique:
// field padding and order are not portable.
package wire
