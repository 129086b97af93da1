// Package ioexp contains I/O expander drivers built as declarative
// profiles over the regio transaction engine.
package ioexp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mklimuk/regio"
)

const DefaultMCP23017Address = 0x21

// Port selects one of the two 8-bit I/O banks.
type Port int

const (
	PortA Port = iota
	PortB
)

func (p Port) String() string {
	if p == PortB {
		return "B"
	}
	return "A"
}

// logical registers per port
type regName int

const (
	regIODIR regName = iota
	regIPOL
	regGPINTEN
	regDEFVAL
	regINTCON
	regIOCON
	regGPPU
	regINTF
	regINTCAP
	regGPIO
	regOLAT
)

var regNames = [...]string{"IODIR", "IPOL", "GPINTEN", "DEFVAL", "INTCON", "IOCON", "GPPU", "INTF", "INTCAP", "GPIO", "OLAT"}

func (r regName) String() string { return regNames[r] }

// The MCP23017 exposes the same logical registers at two different
// address layouts depending on the IOCON bank bit: interleaved (bank 0,
// power-up default) or segregated (bank 1). The map is indexed by bank,
// then port, then logical register.
var mcp23017Banks = [2][2]map[regName]byte{
	{
		{regIODIR: 0x00, regIPOL: 0x02, regGPINTEN: 0x04, regDEFVAL: 0x06, regINTCON: 0x08, regIOCON: 0x0A, regGPPU: 0x0C, regINTF: 0x0E, regINTCAP: 0x10, regGPIO: 0x12, regOLAT: 0x14},
		{regIODIR: 0x01, regIPOL: 0x03, regGPINTEN: 0x05, regDEFVAL: 0x07, regINTCON: 0x09, regIOCON: 0x0B, regGPPU: 0x0D, regINTF: 0x0F, regINTCAP: 0x11, regGPIO: 0x13, regOLAT: 0x15},
	},
	{
		{regIODIR: 0x00, regIPOL: 0x01, regGPINTEN: 0x02, regDEFVAL: 0x03, regINTCON: 0x04, regIOCON: 0x05, regGPPU: 0x06, regINTF: 0x07, regINTCAP: 0x08, regGPIO: 0x09, regOLAT: 0x0A},
		{regIODIR: 0x10, regIPOL: 0x11, regGPINTEN: 0x12, regDEFVAL: 0x13, regINTCON: 0x14, regIOCON: 0x15, regGPPU: 0x16, regINTF: 0x17, regINTCAP: 0x18, regGPIO: 0x19, regOLAT: 0x1A},
	},
}

// MCP23017 represents a Microchip MCP23017 16-bit I2C port expander.
type MCP23017 struct {
	dev        *regio.Device
	bus        regio.I2CBus
	bank       int
	retryLimit int
}

func NewMCP23017(ctx context.Context, bus regio.I2CBus, address byte) (*MCP23017, error) {
	dev, err := regio.Open(ctx, regio.NewI2C(bus, address), regio.Profile{Name: "mcp23017"})
	if err != nil {
		return nil, err
	}
	return &MCP23017{dev: dev, bus: bus, retryLimit: 1}, nil
}

func (m *MCP23017) register(port Port, name regName, access regio.Access) regio.Register {
	return regio.Register{
		Name:   fmt.Sprintf("%v%s", name, port),
		Addr:   mcp23017Banks[m.bank][port][name],
		Width:  1,
		Access: access,
	}
}

// SetDirection writes the full IODIR register of a port: a set bit makes
// the pin an input.
func (m *MCP23017) SetDirection(ctx context.Context, port Port, inout byte) error {
	err := m.retry(ctx, func() error {
		return m.dev.WriteReg(ctx, m.register(port, regIODIR, regio.ReadWrite), inout)
	})
	if err != nil {
		return fmt.Errorf("could not initialize gpio %s set: %w", port, err)
	}
	return nil
}

// SetPullUp writes the full GPPU register of a port.
func (m *MCP23017) SetPullUp(ctx context.Context, port Port, settings byte) error {
	err := m.retry(ctx, func() error {
		return m.dev.WriteReg(ctx, m.register(port, regGPPU, regio.ReadWrite), settings)
	})
	if err != nil {
		return fmt.Errorf("could not set pull-up on gpio %s set: %w", port, err)
	}
	return nil
}

// ReadPort returns the input state of all eight pins of a port.
func (m *MCP23017) ReadPort(ctx context.Context, port Port) (byte, error) {
	var res byte
	err := m.retry(ctx, func() error {
		var rerr error
		res, rerr = m.dev.ReadByte(ctx, m.register(port, regGPIO, regio.ReadWrite))
		return rerr
	})
	if err != nil {
		return res, fmt.Errorf("could not read gpio %s set: %w", port, err)
	}
	return res, nil
}

// Read returns both ports, A first.
func (m *MCP23017) Read(ctx context.Context) ([]byte, error) {
	res := make([]byte, 2)
	var err error
	res[0], err = m.ReadPort(ctx, PortA)
	if err != nil {
		return nil, err
	}
	res[1], err = m.ReadPort(ctx, PortB)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SetPin drives one output pin without disturbing its port neighbours
// (read-modify-write on the output latch).
func (m *MCP23017) SetPin(ctx context.Context, port Port, pin int, high bool) error {
	if pin < 0 || pin > 7 {
		return &regio.ConfigError{Field: "pin", Value: byte(pin)}
	}
	field := regio.Field{
		Name: fmt.Sprintf("pin %d", pin),
		Reg:  m.register(port, regOLAT, regio.ReadWrite),
		Mask: 1 << pin,
	}
	var val byte
	if high {
		val = 1
	}
	err := m.retry(ctx, func() error {
		return m.dev.Update(ctx, field, val)
	})
	if err != nil {
		return fmt.Errorf("could not set gpio %s pin %d: %w", port, pin, err)
	}
	return nil
}

// ReadSettings returns the IOCON register contents.
func (m *MCP23017) ReadSettings(ctx context.Context, port Port) (byte, error) {
	var res byte
	err := m.retry(ctx, func() error {
		var rerr error
		res, rerr = m.dev.ReadByte(ctx, m.register(port, regIOCON, regio.ReadWrite))
		return rerr
	})
	if err != nil {
		return res, fmt.Errorf("could not read gpio %s settings: %w", port, err)
	}
	return res, nil
}

// WriteSettings writes the IOCON register. The bank bit (0x80) switches
// the whole address layout, so the driver tracks it.
func (m *MCP23017) WriteSettings(ctx context.Context, port Port, settings byte) error {
	err := m.retry(ctx, func() error {
		return m.dev.WriteReg(ctx, m.register(port, regIOCON, regio.ReadWrite), settings)
	})
	if err != nil {
		return fmt.Errorf("could not write gpio %s settings: %w", port, err)
	}
	if settings&0x80 != 0 {
		m.bank = 1
	} else {
		m.bank = 0
	}
	return nil
}

// retry re-issues an operation after trying to release a busy bus, which
// USB bridge adapters report when a previous transfer is still pending.
func (m *MCP23017) retry(ctx context.Context, op func() error) error {
	var err error
	for i := m.retryLimit; i >= 0; i-- {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, regio.ErrBusBusy) {
			return err
		}
		// try to release the bus
		_ = m.bus.Release(ctx)
	}
	return fmt.Errorf("retry limit reached: %w", err)
}
