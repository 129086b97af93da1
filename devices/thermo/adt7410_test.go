package thermo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

func TestADT7410_Convert(t *testing.T) {
	tests := []struct {
		name     string
		res      ADT7410Resolution
		raw      uint16
		expected float32
	}{
		{"13bit -55C", ADT7410Res13Bit, 0xE480, -55.0},
		{"13bit +25C", ADT7410Res13Bit, 0x0C80, 25.0},
		{"13bit zero", ADT7410Res13Bit, 0x0000, 0.0},
		{"16bit +50C", ADT7410Res16Bit, 0x1900, 50.0},
		{"16bit -40C", ADT7410Res16Bit, 0xEC00, -40.0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := &ADT7410{res: test.res}
			assert.Equal(t, test.expected, s.convert(test.raw))
		})
	}
}

func TestADT7410_OneShot(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0xC8},       // identity
		[]byte{0x00},       // config before SetMode
		[]byte{0x20},       // config before re-arm
		[]byte{0x0C, 0x80}, // +25.0C
	)
	ctx := context.Background()
	s, err := NewADT7410(ctx, bus)
	require.NoError(t, err)
	require.NoError(t, s.SetMode(ctx, ADT7410OneShot))

	temp, err := s.GetTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(25.0), temp)
	assert.Equal(t, [][]byte{
		{0x0B},       // identity register
		{0x03},       // config read
		{0x03, 0x20}, // one-shot mode
		{0x03},       // config read
		{0x03, 0x20}, // conversion re-armed
		{0x00},       // temperature register
	}, bus.Writes)
}

func TestADT7410_ContinuousPollsReady(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0xC8},       // identity
		[]byte{0x80},       // /RDY still set
		[]byte{0x00},       // conversion ready
		[]byte{0xE4, 0x80}, // -55.0C
	)
	ctx := context.Background()
	s, err := NewADT7410(ctx, bus)
	require.NoError(t, err)

	temp, err := s.GetTemperature(ctx)
	require.NoError(t, err)
	assert.Equal(t, float32(-55.0), temp)
	assert.Equal(t, [][]byte{{0x0B}, {0x02}, {0x02}, {0x00}}, bus.Writes)
}

func TestADT7410_WrongChip(t *testing.T) {
	bus := regio.NewMockBus([]byte{0x30})
	_, err := NewADT7410(context.Background(), bus)
	var identityErr *regio.IdentityError
	require.ErrorAs(t, err, &identityErr)
	assert.Equal(t, byte(0xC8), identityErr.Want)
	assert.Equal(t, byte(0x30), identityErr.Got)
}

func TestADT7410_ShutdownRefusesReads(t *testing.T) {
	bus := regio.NewMockBus([]byte{0xC8}, []byte{0x00})
	ctx := context.Background()
	s, err := NewADT7410(ctx, bus)
	require.NoError(t, err)
	require.NoError(t, s.SetMode(ctx, ADT7410Shutdown))

	_, err = s.GetTemperature(ctx)
	assert.Error(t, err)
}
