package regio

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC8_KnownVectors(t *testing.T) {
	tests := []struct {
		crc      *CRC8
		given    []byte
		expected byte
	}{
		{NewCRC8(0x31, 0x00), []byte{0x4E, 0x85}, 0x6B},
		{SensirionCRC(), []byte{0xBE, 0xEF}, 0x92},
		{SensirionCRC(), []byte{0x66, 0x66}, 0x93},
	}
	for _, test := range tests {
		t.Run(hex.EncodeToString(test.given), func(t *testing.T) {
			assert.Equal(t, test.expected, test.crc.Sum(test.given))
			assert.True(t, test.crc.Check(test.given, test.expected))
		})
	}
}

func TestCRC8_SingleBitErrorDetection(t *testing.T) {
	crc := NewCRC8(0x31, 0x00)
	good := crc.Sum([]byte{0x4E, 0x85})
	for bit := 0; bit < 16; bit++ {
		data := []byte{0x4E, 0x85}
		data[bit/8] ^= 1 << (bit % 8)
		assert.NotEqual(t, good, crc.Sum(data), "flipped bit %d went undetected", bit)
	}
}
