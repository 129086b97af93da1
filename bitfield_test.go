package regio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFlags = []Flag{
	{Name: "EN", Mask: 0x01},
	{Name: "INT", Mask: 0x08},
	{Name: "LATCH", Mask: 0x80},
}

func TestFlags_RoundTrip(t *testing.T) {
	// every subset of the known flags must survive encode/decode
	for mask := 0; mask < 1<<len(testFlags); mask++ {
		var subset []Flag
		for i, f := range testFlags {
			if mask&(1<<i) != 0 {
				subset = append(subset, f)
			}
		}
		t.Run(fmt.Sprintf("%03b", mask), func(t *testing.T) {
			b := EncodeFlags(subset...)
			assert.Equal(t, subset, DecodeFlags(b, testFlags))
			assert.Equal(t, b, EncodeFlags(DecodeFlags(b, testFlags)...))
		})
	}
}

func TestField_Put(t *testing.T) {
	reg := Register{Name: "CTRL", Addr: 0x01, Width: 1}
	low := Field{Name: "low nibble", Reg: reg, Mask: 0x0F}

	b, err := low.Put(0b10110101, 0b0011)
	require.NoError(t, err)
	assert.Equal(t, byte(0b10110011), b)

	// applying the same update twice must be a no-op the second time
	again, err := low.Put(b, 0b0011)
	require.NoError(t, err)
	assert.Equal(t, b, again)
}

func TestField_PutDoesNotDisturbNeighbours(t *testing.T) {
	reg := Register{Name: "TIMING", Addr: 0x01, Width: 1}
	gain := Field{Name: "gain", Reg: reg, Mask: 0x10}
	integ := Field{Name: "integration", Reg: reg, Mask: 0x03}

	old := byte(0b00010010)
	b, err := integ.Put(old, 0b01)
	require.NoError(t, err)
	assert.Equal(t, gain.Get(old), gain.Get(b))
	assert.Equal(t, byte(0b01), integ.Get(b))
}

func TestField_PutRejectsOutOfRange(t *testing.T) {
	f := Field{Name: "slope_dur", Reg: Register{Name: "SLOPE", Addr: 0x12}, Mask: 0x03}
	old := byte(0x45)
	b, err := f.Put(old, 0b100)
	var cfg *ConfigError
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, "slope_dur", cfg.Field)
	// the register byte must be untouched on rejection
	assert.Equal(t, old, b)
}

func TestField_GetAligned(t *testing.T) {
	f := Field{Name: "osr", Mask: 0b00011100}
	assert.Equal(t, byte(0b101), f.Get(0b10010111))
	assert.Equal(t, byte(0b111), f.Max())
}
