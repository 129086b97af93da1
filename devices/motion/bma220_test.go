package motion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

func TestBMA220_InitMotionDetection(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0x00}, // range register
		[]byte{0x00}, // latch register
		[]byte{0x00}, // slope settings before threshold
		[]byte{0x04}, // slope settings before duration
	)
	ctx := context.Background()
	s, err := NewBMA220(ctx, bus)
	require.NoError(t, err)

	require.NoError(t, s.InitMotionDetection(ctx))
	assert.Equal(t, [][]byte{
		{0x22},       // range read
		{0x22, 0x03}, // 16g range
		{0x1C},       // latch read
		{0x1C, 0x70}, // permanent latch
		{0x1A, 0x38}, // slope detection on x, y and z
		{0x12},       // slope settings read
		{0x12, 0x04}, // threshold
		{0x12},       // slope settings read
		{0x12, 0x05}, // duration, threshold untouched
		{0x2E, 0x06}, // watchdog
	}, bus.Writes)
}

func TestBMA220_InterruptRoundTrip(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0x00}, // no interrupt yet
		[]byte{0x01}, // slope interrupt latched
		[]byte{0x70}, // latch register before reset
	)
	ctx := context.Background()
	s, err := NewBMA220(ctx, bus)
	require.NoError(t, err)

	fired, err := s.CheckMotionInterrupt(ctx)
	require.NoError(t, err)
	assert.False(t, fired)

	fired, err = s.CheckMotionInterrupt(ctx)
	require.NoError(t, err)
	assert.True(t, fired)

	require.NoError(t, s.ResetMotionInterrupt(ctx))
	assert.Equal(t, [][]byte{{0x18}, {0x18}, {0x1C}, {0x1C, 0xF0}}, bus.Writes)
}
