package bitfield

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenMask(t *testing.T) {
	tests := []struct {
		hi, lo uint
		want   uint32
	}{
		{9, 8, 0x300},
		{7, 4, 0xf0},
		{2, 0, 0x7},
		{11, 9, 0xe00},
		{14, 12, 0x7000},
		{3, 1, 0xe},
		{6, 4, 0x70},
		{0, 0, 0x1},
		{31, 0, 0xffffffff},
		{31, 31, 0x80000000},
		{30, 28, 0x70000000},
	}

	for _, tt := range tests {
		got := GenMask(tt.hi, tt.lo)
		if got != tt.want {
			t.Errorf("GenMask(%d, %d) = %#x, want %#x", tt.hi, tt.lo, got, tt.want)
		}
	}
}

func TestCheckRange(t *testing.T) {
	assert.NoError(t, CheckRange(9, 8))
	assert.NoError(t, CheckRange(31, 0))
	assert.NoError(t, CheckRange(5, 5))

	err := CheckRange(32, 0)
	assert.True(t, errors.Is(err, ErrBitRange))

	err = CheckRange(3, 4)
	assert.True(t, errors.Is(err, ErrBitRange))
	assert.Contains(t, err.Error(), "low bit 4 above high bit 3")
}

func TestPositions(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 6, 8, 10, 12}, Positions(0x1546))
	assert.Equal(t, []uint{3, 7, 9, 13}, Positions(0x2288))
	assert.Equal(t, []uint{}, Positions(0))
	assert.Equal(t, []uint{31}, Positions(Bit(31)))
}

func TestHex(t *testing.T) {
	assert.Equal(t, "0x1546", Hex(0x1546))
	assert.Equal(t, "0x314", Hex(0x314))
	assert.Equal(t, "0x0", Hex(0))
	assert.Equal(t, "0xdeadbeef", Hex(0xDEADBEEF))
}
