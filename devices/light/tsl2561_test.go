package light

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

func TestTSL2561_Lux(t *testing.T) {
	// 16x gain and 402ms integration map raw counts 1:1 to the reference
	// domain, so the piecewise branches are exercised directly
	s := &TSL2561{gain: TSL2561Gain16x, integ: TSL2561Integ402ms}
	tests := []struct {
		raw0, raw1 uint16
		expected   float64
	}{
		{1000, 300, 18.908904},
		{1000, 550, 5.35},
		{1000, 700, 2.09},
		{1000, 1000, 0.34},
		{1000, 1500, 0.0},
		{0, 100, 0.0},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d_%d", test.raw0, test.raw1), func(t *testing.T) {
			assert.InDelta(t, test.expected, s.lux(test.raw0, test.raw1), 0.0001)
		})
	}
}

func TestTSL2561_LuxScaling(t *testing.T) {
	// 1x gain rescales both channels by 16; same counts, brighter scene
	s := &TSL2561{gain: TSL2561Gain1x, integ: TSL2561Integ402ms}
	assert.InDelta(t, 302.542467, s.lux(1000, 300), 0.0001)

	// short integration windows scale by the datasheet CH_SCALE ratios
	s = &TSL2561{gain: TSL2561Gain16x, integ: TSL2561Integ14ms}
	assert.InDelta(t, 553.515195, s.lux(1000, 300), 0.0001)
}

func TestTSL2561_GetLux(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0x50},       // ID
		[]byte{0x12},       // timing before integration change
		[]byte{0xE8, 0x03}, // CH0 = 1000, little endian
		[]byte{0x2C, 0x01}, // CH1 = 300
	)
	ctx := context.Background()
	s, err := NewTSL2561(ctx, bus)
	require.NoError(t, err)
	// shorten the integration window so the test does not sit out 400ms
	require.NoError(t, s.SetIntegration(ctx, TSL2561Integ14ms))
	s.gain = TSL2561Gain16x

	lux, err := s.GetLux(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 553.515195, lux, 0.0001)
	assert.Equal(t, [][]byte{
		{0x8A},       // identity register
		{0x81},       // timing read
		{0x81, 0x10}, // gain bit kept, integration bits replaced
		{0x80, 0x03}, // power up
		{0xAC},       // CH0, word protocol
		{0xAE},       // CH1, word protocol
		{0x80, 0x00}, // power down
	}, bus.Writes)
}

func TestTSL2561_MaskedTimingUpdates(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0x50}, // ID
		[]byte{0x02}, // timing: 402ms, 1x gain
		[]byte{0x12}, // timing: 402ms, 16x gain
	)
	ctx := context.Background()
	s, err := NewTSL2561(ctx, bus)
	require.NoError(t, err)

	require.NoError(t, s.SetGain(ctx, TSL2561Gain16x))
	require.NoError(t, s.SetIntegration(ctx, TSL2561Integ101ms))
	assert.Equal(t, [][]byte{
		{0x8A},
		{0x81},
		{0x81, 0x12}, // integration bits untouched
		{0x81},
		{0x81, 0x11}, // gain bit untouched
	}, bus.Writes)
}

func TestTSL2561_WrongChip(t *testing.T) {
	bus := regio.NewMockBus([]byte{0x10})
	_, err := NewTSL2561(context.Background(), bus)
	var identityErr *regio.IdentityError
	require.ErrorAs(t, err, &identityErr)
}
