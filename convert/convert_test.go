package convert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignExtend13Bit(t *testing.T) {
	// ADT7410-style 13-bit field, 0.0625 degC per LSB
	tests := []struct {
		raw      uint32
		expected float32
	}{
		{0b1110010010000, -55.0},
		{0b0000110010000, 25.0},
		{0, 0.0},
		{1<<12 - 1, 255.9375},  // largest positive
		{1 << 12, -256.0},      // most negative
		{1<<13 - 1, -0.0625},   // minus one LSB
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%013b", test.raw), func(t *testing.T) {
			assert.Equal(t, test.expected, Scale(SignExtend(test.raw, 13), 0.0625))
		})
	}
}

func TestSignExtendPackInverse(t *testing.T) {
	for _, bits := range []uint{13, 14, 19} {
		min := -(int32(1) << (bits - 1))
		max := int32(1)<<(bits-1) - 1
		for _, v := range []int32{min, min + 1, -1, 0, 1, max - 1, max} {
			assert.Equal(t, v, SignExtend(Pack(v, bits), bits), "bits=%d v=%d", bits, v)
		}
	}
}
