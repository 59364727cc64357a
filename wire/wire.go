package wire

import (
	"encoding/binary"
	"sync"

	palerrors "github.com/wippyai/pal/errors"
)

// ByteOrder identifies the byte order of the host hardware.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

var (
	hostOrder     ByteOrder
	hostOrderOnce sync.Once
)

// HostOrder reports the byte order of the host. It is determined once by
// storing a known multi-byte pattern through the native order and
// inspecting the byte sequence actually written; byte order is a property
// of the hardware, never inferred from the platform identity.
func HostOrder() ByteOrder {
	hostOrderOnce.Do(func() {
		var probe [4]byte
		binary.NativeEndian.PutUint32(probe[:], 0x01020304)
		if probe[0] == 0x01 {
			hostOrder = BigEndian
		} else {
			hostOrder = LittleEndian
		}
	})
	return hostOrder
}

// All serialized multi-byte values use a single fixed wire order,
// network order (big-endian), regardless of host order. Multi-field
// records are serialized field by field; raw structure-memory copies are
// not portable and have no place here.

// AppendU16 appends v to dst in wire order.
func AppendU16(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}

// AppendU32 appends v to dst in wire order.
func AppendU32(dst []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(dst, v)
}

// AppendU64 appends v to dst in wire order.
func AppendU64(dst []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(dst, v)
}

// U16 decodes a wire-order value from the start of b.
func U16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, palerrors.InvalidArgument(palerrors.DomainWire, "u16", "short buffer")
	}
	return binary.BigEndian.Uint16(b), nil
}

// U32 decodes a wire-order value from the start of b.
func U32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, palerrors.InvalidArgument(palerrors.DomainWire, "u32", "short buffer")
	}
	return binary.BigEndian.Uint32(b), nil
}

// U64 decodes a wire-order value from the start of b.
func U64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, palerrors.InvalidArgument(palerrors.DomainWire, "u64", "short buffer")
	}
	return binary.BigEndian.Uint64(b), nil
}
