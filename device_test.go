package regio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctrlReg = Register{Name: "CTRL", Addr: 0x22, Width: 1}

func TestDevice_OpenVerifiesIdentity(t *testing.T) {
	profile := Profile{
		Name:     "fake",
		Identity: &Identity{Reg: Register{Name: "ID", Addr: 0x0F, Width: 1}, Want: 0x58},
	}

	bus := NewMockBus([]byte{0x58})
	_, err := Open(context.Background(), NewI2C(bus, 0x77), profile)
	require.NoError(t, err)

	bus = NewMockBus([]byte{0x42})
	_, err = Open(context.Background(), NewI2C(bus, 0x77), profile)
	var idErr *IdentityError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, byte(0x42), idErr.Got)
	assert.Equal(t, byte(0x58), idErr.Want)
}

func TestDevice_UpdatePreservesUnrelatedBits(t *testing.T) {
	m := NewMockTransport([]byte{0b10110101})
	dev, err := Open(context.Background(), m, Profile{Name: "fake"})
	require.NoError(t, err)

	low := Field{Name: "low nibble", Reg: ctrlReg, Mask: 0x0F}
	require.NoError(t, dev.Update(context.Background(), low, 0b0011))

	// read phase writes the register pointer, write phase carries the
	// merged byte
	require.Len(t, m.Writes, 2)
	assert.Equal(t, []byte{0x22}, m.Writes[0])
	assert.Equal(t, []byte{0x22, 0b10110011}, m.Writes[1])
}

func TestDevice_ReadWordsChecksum(t *testing.T) {
	profile := Profile{Name: "fake", WordCRC: NewCRC8(0x31, 0x00)}
	dataReg := Register{Name: "DATA", Addr: 0x00, Width: 3, Access: ReadOnly}

	m := NewMockTransport([]byte{0x4E, 0x85, 0x6B})
	dev, err := Open(context.Background(), m, profile)
	require.NoError(t, err)

	words, err := dev.ReadWords(context.Background(), dataReg, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0x4E85}, words)
	assert.Equal(t, [][]byte{{0x00}}, m.Writes)

	// a corrupted payload byte must surface as a checksum failure, not a
	// zero reading
	m = NewMockTransport([]byte{0x4E, 0x84, 0x6B})
	dev, err = Open(context.Background(), m, profile)
	require.NoError(t, err)
	_, err = dev.ReadWords(context.Background(), dataReg, 1)
	var sumErr *ChecksumError
	require.True(t, errors.As(err, &sumErr))
	assert.Equal(t, "DATA", sumErr.Reg)
	assert.Equal(t, byte(0x6B), sumErr.Got)
}

func TestDevice_SPIReadBitAddressing(t *testing.T) {
	profile := Profile{Name: "fake", Addressing: AddrReadBit}
	m := NewMockTransport([]byte{0xAA})
	dev, err := Open(context.Background(), m, profile)
	require.NoError(t, err)

	var buf [1]byte
	require.NoError(t, dev.ReadReg(context.Background(), ctrlReg, buf[:]))
	assert.Equal(t, []byte{0x22 | 0x80}, m.Writes[0])
	assert.Equal(t, 1, m.Selects)
	assert.Equal(t, 1, m.Deselects)

	require.NoError(t, dev.WriteReg(context.Background(), ctrlReg, 0x07))
	assert.Equal(t, []byte{0x22, 0x07}, m.Writes[1])
	assert.Equal(t, 2, m.Selects)
	assert.Equal(t, 2, m.Deselects)
}

func TestDevice_SplitPointerRead(t *testing.T) {
	profile := Profile{Name: "fake", SplitPointer: true}
	m := NewMockTransport([]byte{0x12, 0x34})
	dev, err := Open(context.Background(), m, profile)
	require.NoError(t, err)

	buf := make([]byte, 2)
	require.NoError(t, dev.ReadReg(context.Background(), ctrlReg, buf))
	assert.Equal(t, []byte{0x12, 0x34}, buf)
	assert.Equal(t, [][]byte{{0x22}}, m.Writes)
}

func TestDevice_PollReady(t *testing.T) {
	status := Register{Name: "STATUS", Addr: 0x05, Width: 1, Access: ReadOnly}
	m := NewMockTransport([]byte{0x00}, []byte{0x00}, []byte{0x01})
	dev, err := Open(context.Background(), m, Profile{Name: "fake"})
	require.NoError(t, err)

	err = dev.PollReady(context.Background(), status, 0x01, true, time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, m.Writes, 3)
}

func TestDevice_PollReadyContextEscape(t *testing.T) {
	status := Register{Name: "STATUS", Addr: 0x05, Width: 1, Access: ReadOnly}
	m := NewMockTransport()
	for i := 0; i < 64; i++ {
		m.Script([]byte{0x00})
	}
	dev, err := Open(context.Background(), m, Profile{Name: "fake"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = dev.PollReady(ctx, status, 0x01, true, time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDevice_TransportFailureAborts(t *testing.T) {
	m := NewMockTransport()
	m.Fail = errors.New("nack")
	dev, err := Open(context.Background(), m, Profile{Name: "fake"})
	require.NoError(t, err)

	err = dev.WriteReg(context.Background(), ctrlReg, 0x01)
	var tErr *TransportError
	require.True(t, errors.As(err, &tErr))
}

func TestDevice_AccessModeEnforced(t *testing.T) {
	m := NewMockTransport()
	dev, err := Open(context.Background(), m, Profile{Name: "fake"})
	require.NoError(t, err)

	ro := Register{Name: "WHOAMI", Addr: 0x0F, Width: 1, Access: ReadOnly}
	err = dev.WriteReg(context.Background(), ro, 0x00)
	var cfg *ConfigError
	require.True(t, errors.As(err, &cfg))
	assert.Empty(t, m.Writes)
}
