// Package bitfield provides helpers for 32-bit hardware register masks.
//
// The helpers mirror the conventions used by the FSDIF and IOPAD register
// definitions: single bits written as 1 << n and contiguous fields written as
// genmask(hi, lo).
package bitfield

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
)

// Width is the register width in bits.
const Width = 32

// ErrBitRange is returned when a bit position or range does not fit a 32-bit register.
var ErrBitRange = errors.New("bit range out of bounds")

// Bit returns a mask with only bit n set.
func Bit(n uint) uint32 {
	return 1 << n
}

// GenMask returns a contiguous mask covering bits lo..hi inclusive.
// Callers must ensure lo <= hi < Width; use CheckRange for untrusted input.
func GenMask(hi, lo uint) uint32 {
	return (^uint32(0) - (uint32(1) << lo) + 1) & (^uint32(0) >> (Width - 1 - hi))
}

// CheckRange validates a hi..lo bit range.
func CheckRange(hi, lo uint) error {
	if hi >= Width {
		return fmt.Errorf("%w: high bit %d exceeds %d", ErrBitRange, hi, Width-1)
	}
	if lo > hi {
		return fmt.Errorf("%w: low bit %d above high bit %d", ErrBitRange, lo, hi)
	}
	return nil
}

// Positions returns the set bit positions of v in ascending order.
func Positions(v uint32) []uint {
	out := make([]uint, 0, bits.OnesCount32(v))
	for v != 0 {
		n := uint(bits.TrailingZeros32(v))
		out = append(out, n)
		v &^= 1 << n
	}
	return out
}

// Hex formats v with a 0x prefix, lowercase digits and no padding.
func Hex(v uint32) string {
	return "0x" + strconv.FormatUint(uint64(v), 16)
}
