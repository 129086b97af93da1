package baro

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

// calibration set from the datasheet's numerical example
var testCoeff = [8]uint16{0x3132, 40127, 36924, 23317, 23282, 33464, 28312, 0x0000}

func TestMS5611_Compensate(t *testing.T) {
	tests := []struct {
		name  string
		d1    uint32
		d2    uint32
		temp  int64
		press int64
	}{
		// datasheet example: 20.07C, 1000.09 mbar
		{"datasheet", 9085466, 8569150, 2007, 100009},
		{"exactly 20C, no correction", 9085466, 8566784, 2000, 99993},
		{"just below 20C, second order kicks in", 9085466, 8566486, 1999, 99991},
		{"exactly -20C, no low temp term", 9085466, 7529762, -2000, 92172},
		{"below -20C, low temp term", 9085466, 7529466, -2002, 92169},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			temp, press := compensate(testCoeff, test.d1, test.d2)
			assert.Equal(t, test.temp, temp)
			assert.Equal(t, test.press, press)
		})
	}
}

func TestMS5611_PROMCRC4(t *testing.T) {
	// vector from application note AN520
	prom := [8]uint16{0x3132, 0x3334, 0x3536, 0x3738, 0x3940, 0x4142, 0x4344, 0x4500}
	assert.Equal(t, byte(0xB), promCRC4(prom))
	// the input must come back untouched despite the in-place masking
	assert.Equal(t, uint16(0x4500), prom[7])

	corrupted := prom
	corrupted[3] ^= 0x0100
	assert.NotEqual(t, byte(0xB), promCRC4(corrupted))
}

func TestMS5611_Measure(t *testing.T) {
	m := regio.NewMockTransport()
	for _, word := range testCoeff {
		m.Script([]byte{byte(word >> 8), byte(word)})
	}
	m.Script([]byte{0x8A, 0xA2, 0x1A}) // D1 = 9085466
	m.Script([]byte{0x82, 0xC1, 0x3E}) // D2 = 8569150

	ctx := context.Background()
	s, err := NewMS5611(ctx, m)
	require.NoError(t, err)

	temp, press, err := s.GetTempAndPressure(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(20.07), temp)
	assert.Equal(t, float32(1000.09), press)

	expected := [][]byte{{0x1E}} // reset
	for i := 0; i < 8; i++ {
		expected = append(expected, []byte{0xA0 + byte(2*i)})
	}
	// OSR1024 default: convert commands carry offset 4
	expected = append(expected, []byte{0x44}, []byte{0x00}, []byte{0x54}, []byte{0x00})
	assert.Equal(t, expected, m.Writes)
}

func TestMS5611_CorruptPROM(t *testing.T) {
	m := regio.NewMockTransport()
	for i, word := range testCoeff {
		if i == 2 {
			word ^= 0x0010
		}
		m.Script([]byte{byte(word >> 8), byte(word)})
	}
	_, err := NewMS5611(context.Background(), m)
	var checksumErr *regio.ChecksumError
	require.ErrorAs(t, err, &checksumErr)
	assert.Equal(t, "PROM", checksumErr.Reg)
}
