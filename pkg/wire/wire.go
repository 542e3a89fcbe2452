// Package wire provides big-endian primitives for the fixed-layout feed format.
package wire

import (
	"encoding/binary"
)

var (
	byteOrder = binary.BigEndian
)

// Uint16 reads a big-endian uint16 at off. Bounds are the caller's obligation.
func Uint16(b []byte, off int) uint16 {
	return byteOrder.Uint16(b[off:])
}

// Uint32 reads a big-endian uint32 at off.
func Uint32(b []byte, off int) uint32 {
	return byteOrder.Uint32(b[off:])
}

// Uint48 reads a 6-byte big-endian integer at off, widened to uint64.
func Uint48(b []byte, off int) uint64 {
	return uint64(byteOrder.Uint16(b[off:]))<<32 | uint64(byteOrder.Uint32(b[off+2:]))
}

// Uint64 reads a big-endian uint64 at off.
func Uint64(b []byte, off int) uint64 {
	return byteOrder.Uint64(b[off:])
}

// Alpha reads a fixed-width left-aligned text field at off and trims
// trailing space padding.
func Alpha(b []byte, off, width int) string {
	end := off + width
	for end > off && b[end-1] == ' ' {
		end--
	}
	return string(b[off:end])
}

// PutUint16 writes v big-endian at off.
func PutUint16(b []byte, off int, v uint16) {
	byteOrder.PutUint16(b[off:], v)
}

// PutUint32 writes v big-endian at off.
func PutUint32(b []byte, off int, v uint32) {
	byteOrder.PutUint32(b[off:], v)
}

// PutUint48 writes the low 6 bytes of v big-endian at off.
func PutUint48(b []byte, off int, v uint64) {
	byteOrder.PutUint16(b[off:], uint16(v>>32))
	byteOrder.PutUint32(b[off+2:], uint32(v))
}

// PutUint64 writes v big-endian at off.
func PutUint64(b []byte, off int, v uint64) {
	byteOrder.PutUint64(b[off:], v)
}

// PutAlpha writes s left-aligned at off, space-padded to width. Overlong
// values are truncated to width.
func PutAlpha(b []byte, off, width int, s string) {
	for i := 0; i < width; i++ {
		if i < len(s) {
			b[off+i] = s[i]
		} else {
			b[off+i] = ' '
		}
	}
}
