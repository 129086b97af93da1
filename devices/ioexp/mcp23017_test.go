package ioexp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/regio"
)

func TestMCP23017_ReadPorts(t *testing.T) {
	bus := regio.NewMockBus([]byte{0xA5}, []byte{0x5A})
	ctx := context.Background()
	m, err := NewMCP23017(ctx, bus, DefaultMCP23017Address)
	require.NoError(t, err)

	state, err := m.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA5, 0x5A}, state)
	// power-up layout interleaves the two GPIO registers
	assert.Equal(t, [][]byte{{0x12}, {0x13}}, bus.Writes)
}

func TestMCP23017_SetPin(t *testing.T) {
	bus := regio.NewMockBus(
		[]byte{0x01}, // OLAT A before the update
		[]byte{0x09}, // OLAT A before clearing pin 0
	)
	ctx := context.Background()
	m, err := NewMCP23017(ctx, bus, DefaultMCP23017Address)
	require.NoError(t, err)

	require.NoError(t, m.SetPin(ctx, PortA, 3, true))
	require.NoError(t, m.SetPin(ctx, PortA, 0, false))
	assert.Equal(t, [][]byte{
		{0x14},
		{0x14, 0x09}, // pin 3 raised, pin 0 untouched
		{0x14},
		{0x14, 0x08}, // pin 0 dropped, pin 3 untouched
	}, bus.Writes)

	err = m.SetPin(ctx, PortB, 8, true)
	var configErr *regio.ConfigError
	require.ErrorAs(t, err, &configErr)
}

func TestMCP23017_BankSwitch(t *testing.T) {
	bus := regio.NewMockBus([]byte{0x00})
	ctx := context.Background()
	m, err := NewMCP23017(ctx, bus, DefaultMCP23017Address)
	require.NoError(t, err)

	// IOCON sits at 0x0A in the power-up layout; once the bank bit is
	// written all registers move to the segregated layout
	require.NoError(t, m.WriteSettings(ctx, PortA, 0x80))
	_, err = m.ReadPort(ctx, PortA)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x0A, 0x80}, {0x09}}, bus.Writes)
}

func TestMCP23017_RetriesBusyBus(t *testing.T) {
	bus := regio.NewMockBus()
	bus.Fail = regio.ErrBusBusy
	ctx := context.Background()
	m, err := NewMCP23017(ctx, bus, DefaultMCP23017Address)
	require.NoError(t, err)

	err = m.SetDirection(ctx, PortA, 0xFF)
	require.ErrorIs(t, err, regio.ErrBusBusy)
	assert.Contains(t, err.Error(), "retry limit")
	// the bus is released between attempts
	assert.Equal(t, 2, bus.Releases)
}
