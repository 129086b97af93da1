package thermo

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

func TestMAX31855_Read(t *testing.T) {
	tests := []struct {
		frame        []byte
		thermocouple float32
		internal     float32
	}{
		{[]byte{0x06, 0x4C, 0x19, 0x10}, 100.75, 25.0625},
		{[]byte{0xF0, 0x60, 0x19, 0x10}, -250.0, 25.0625},
		{[]byte{0x00, 0x00, 0x00, 0x00}, 0.0, 0.0},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.frame), func(t *testing.T) {
			m := regio.NewMockTransport(test.frame)
			ctx := context.Background()
			s, err := NewMAX31855(ctx, m)
			require.NoError(t, err)
			reading, err := s.Read(ctx)
			require.NoError(t, err)
			assert.Equal(t, test.thermocouple, reading.Thermocouple)
			assert.Equal(t, test.internal, reading.Internal)
			// one chip-select window per frame
			assert.Equal(t, 1, m.Selects)
			assert.Equal(t, 1, m.Deselects)
		})
	}
}

func TestMAX31855_Faults(t *testing.T) {
	tests := []struct {
		frame    []byte
		expected string
	}{
		{[]byte{0x06, 0x4D, 0x19, 0x11}, "open thermocouple"},
		{[]byte{0x06, 0x4D, 0x19, 0x12}, "shorted to GND"},
		{[]byte{0x06, 0x4D, 0x19, 0x14}, "shorted to VCC"},
	}
	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			m := regio.NewMockTransport(test.frame)
			ctx := context.Background()
			s, err := NewMAX31855(ctx, m)
			require.NoError(t, err)
			_, err = s.Read(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.expected)
		})
	}
}
