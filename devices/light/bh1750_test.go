package light

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

func TestBH1750_GetLux(t *testing.T) {
	bus := regio.NewMockBus([]byte{0x1F, 0x40}) // raw 8000
	ctx := context.Background()
	s, err := NewBH1750(ctx, bus, BH1750AddrLow)
	require.NoError(t, err)

	lux, err := s.GetLux(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6666, lux) // 8000 / 1.2
	assert.Equal(t, [][]byte{{0x23}}, bus.Writes)
}

func TestBH1750_HighResMode(t *testing.T) {
	bus := regio.NewMockBus([]byte{0x03, 0xE8}) // raw 1000
	ctx := context.Background()
	s, err := NewBH1750(ctx, bus, BH1750AddrLow, WithBH1750Mode(BH1750OneTimeHighRes))
	require.NoError(t, err)

	lux, err := s.GetLux(ctx)
	require.NoError(t, err)
	assert.Equal(t, 833, lux)
	assert.Equal(t, [][]byte{{0x20}}, bus.Writes)
}
