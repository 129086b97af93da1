package regio

import "encoding/binary"

// Access describes which directions a register supports.
type Access int

const (
	ReadWrite Access = iota
	ReadOnly
	WriteOnly
)

// Register describes one addressable location inside a peripheral:
// its address (or command opcode), payload width in bytes and access mode.
// Descriptors are static data and are never mutated.
type Register struct {
	Name   string
	Addr   byte
	Width  int
	Access Access
}

// Addressing selects how read transactions are constructed for a device.
type Addressing int

const (
	// AddrPointer: write the register pointer, then read. The idiom of
	// most I2C sensors.
	AddrPointer Addressing = iota
	// AddrReadBit: the read flag is or-ed into the register address and
	// the transfer happens in a single chip-select window. The idiom of
	// most SPI peripherals (read bit is usually bit 7).
	AddrReadBit
	// AddrOpcode: command-only devices with no register pointer; a read
	// returns whatever the last command armed.
	AddrOpcode
)

// Identity describes the who-am-i check performed at Open time.
// Mask is applied to the register value before comparison; zero means
// an exact match.
type Identity struct {
	Reg  Register
	Mask byte
	Want byte
}

// Profile is the static, declarative description of a device family:
// its addressing idiom, payload byte order, identity check and per-word
// checksum. One generic engine consumes it; concrete drivers are reduced
// to a Profile, a register table and conversion formulas.
type Profile struct {
	Name       string
	Addressing Addressing
	// ReadBit is the mask or-ed into the address for AddrReadBit reads.
	// Defaults to 0x80.
	ReadBit byte
	// Order is the payload byte order, big-endian when nil.
	Order binary.ByteOrder
	// SplitPointer forces the pointer write and the data read to be two
	// separate bus transactions for AddrPointer devices that cannot take
	// a repeated start.
	SplitPointer bool
	// WordCRC, when set, declares a trailing checksum byte after every
	// 16-bit payload word.
	WordCRC *CRC8
	// Identity, when set, is verified once at Open.
	Identity *Identity
}

func (p Profile) order() binary.ByteOrder {
	if p.Order == nil {
		return binary.BigEndian
	}
	return p.Order
}

func (p Profile) readBit() byte {
	if p.ReadBit == 0 {
		return 0x80
	}
	return p.ReadBit
}
