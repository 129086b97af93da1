package regio

import (
	"context"
)

// Transport is one binding between a device handle and a bus: either an
// address on a shared I2C bus or an SPI connection with an exclusively
// owned chip-select line. The binding is fixed at construction.
//
// Select and Deselect bracket SPI transactions and are no-ops on I2C where
// addressing is in-band. The transaction engine drives the bracketing;
// transports only move bytes.
type Transport interface {
	Select(ctx context.Context) error
	Deselect(ctx context.Context) error
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context, buffer []byte) error
	WriteRead(ctx context.Context, w, r []byte) error
}

type i2cTransport struct {
	bus  I2CBus
	addr byte
}

// NewI2C binds a device to a fixed 7-bit address on a shared I2C bus.
// The bus itself stays externally owned and may be shared by sibling
// transports at different addresses.
func NewI2C(bus I2CBus, addr byte) Transport {
	return &i2cTransport{bus: bus, addr: addr}
}

func (t *i2cTransport) Select(ctx context.Context) error   { return nil }
func (t *i2cTransport) Deselect(ctx context.Context) error { return nil }

func (t *i2cTransport) Write(ctx context.Context, data []byte) error {
	if err := t.bus.WriteToAddr(ctx, t.addr, data); err != nil {
		return &TransportError{Op: "i2c write", Err: err}
	}
	return nil
}

func (t *i2cTransport) Read(ctx context.Context, buffer []byte) error {
	if err := t.bus.ReadFromAddr(ctx, t.addr, buffer); err != nil {
		return &TransportError{Op: "i2c read", Err: err}
	}
	return nil
}

func (t *i2cTransport) WriteRead(ctx context.Context, w, r []byte) error {
	if wr, ok := t.bus.(AddressableWriterReader); ok {
		if err := wr.WriteReadFromAddr(ctx, t.addr, w, r); err != nil {
			return &TransportError{Op: "i2c write-read", Err: err}
		}
		return nil
	}
	if err := t.Write(ctx, w); err != nil {
		return err
	}
	return t.Read(ctx, r)
}

type spiTransport struct {
	conn SPIConn
	cs   DigitalPin
}

// NewSPI binds a device to an SPI connection plus its chip-select line.
// Pass a nil cs when the underlying port drives chip-select in hardware.
func NewSPI(conn SPIConn, cs DigitalPin) Transport {
	return &spiTransport{conn: conn, cs: cs}
}

// Select asserts chip-select (low = selected).
func (t *spiTransport) Select(ctx context.Context) error {
	if t.cs == nil {
		return nil
	}
	if err := t.cs.Out(false); err != nil {
		return &TransportError{Op: "spi select", Err: err}
	}
	return nil
}

func (t *spiTransport) Deselect(ctx context.Context) error {
	if t.cs == nil {
		return nil
	}
	if err := t.cs.Out(true); err != nil {
		return &TransportError{Op: "spi deselect", Err: err}
	}
	return nil
}

func (t *spiTransport) Write(ctx context.Context, data []byte) error {
	if err := t.conn.Tx(ctx, data, nil); err != nil {
		return &TransportError{Op: "spi write", Err: err}
	}
	return nil
}

func (t *spiTransport) Read(ctx context.Context, buffer []byte) error {
	if err := t.conn.Tx(ctx, nil, buffer); err != nil {
		return &TransportError{Op: "spi read", Err: err}
	}
	return nil
}

func (t *spiTransport) WriteRead(ctx context.Context, w, r []byte) error {
	if err := t.conn.Tx(ctx, w, r); err != nil {
		return &TransportError{Op: "spi write-read", Err: err}
	}
	return nil
}
