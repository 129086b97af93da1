package envhum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

// identity word 0x0887 carries the SHTC3 signature bits; 0x5B is its CRC
var shtc3IDFrame = []byte{0x08, 0x87, 0x5B}

func TestSHTC3_Measure(t *testing.T) {
	bus := regio.NewMockBus(
		shtc3IDFrame,
		// T and RH both 0x6666 with their CRC bytes
		[]byte{0x66, 0x66, 0x93, 0x66, 0x66, 0x93},
	)
	ctx := context.Background()
	s, err := NewSHTC3(ctx, bus)
	require.NoError(t, err)

	temp, hum, err := s.GetTempAndHum(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, temp, 0.01)
	assert.InDelta(t, 40.0, hum, 0.01)
	assert.Equal(t, [][]byte{
		{0x35, 0x17}, // wake
		{0xEF, 0xC8}, // read ID
		{0xB0, 0x98}, // sleep
		{0x35, 0x17}, // wake
		{0x78, 0x66}, // measure, T first, no clock stretching
		{0xB0, 0x98}, // sleep
	}, bus.Writes)
}

func TestSHTC3_ChecksumMismatch(t *testing.T) {
	bus := regio.NewMockBus(
		shtc3IDFrame,
		// RH word corrupted on the wire, CRC no longer matches
		[]byte{0x66, 0x66, 0x93, 0x66, 0x67, 0x93},
	)
	ctx := context.Background()
	s, err := NewSHTC3(ctx, bus)
	require.NoError(t, err)

	_, _, err = s.GetTempAndHum(ctx)
	var checksumErr *regio.ChecksumError
	require.ErrorAs(t, err, &checksumErr)
	assert.Equal(t, byte(0x93), checksumErr.Got)
}

func TestSHTC3_WrongChip(t *testing.T) {
	// valid CRC but the ID bits do not spell SHTC3
	bus := regio.NewMockBus([]byte{0x66, 0x66, 0x93})
	_, err := NewSHTC3(context.Background(), bus)
	var identityErr *regio.IdentityError
	require.ErrorAs(t, err, &identityErr)
}
