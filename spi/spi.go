package spi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mklimuk/regio"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var _ regio.SPIConn = &GenericConn{}

// GenericConn wraps a periph SPI port as a regio connection.
type GenericConn struct {
	port spi.PortCloser
	conn spi.Conn
}

func NewGenericConn(dev string, speed physic.Frequency, mode spi.Mode) (*GenericConn, error) {
	state, err := host.Init()
	if err != nil {
		return nil, fmt.Errorf("could not init host: %w", err)
	}
	for _, driver := range state.Loaded {
		slog.Debug("loaded host driver", "driver", driver.String())
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("could not open spi port: %w", err)
	}
	conn, err := port.Connect(speed, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("could not connect to spi port: %w", err)
	}
	return &GenericConn{port: port, conn: conn}, nil
}

// Tx clocks out the command bytes and then the response window in one
// full-duplex transfer, so the whole exchange stays inside a single
// chip-select assertion.
func (c *GenericConn) Tx(ctx context.Context, w, r []byte) error {
	total := len(w) + len(r)
	tx := make([]byte, total)
	copy(tx, w)
	rx := make([]byte, total)
	if err := c.conn.Tx(tx, rx); err != nil {
		return fmt.Errorf("could not transact on spi port: %w", err)
	}
	copy(r, rx[len(w):])
	return nil
}

func (c *GenericConn) Close() error {
	return c.port.Close()
}

var _ regio.DigitalPin = &Pin{}

// Pin is a GPIO line used for manual chip-select or reset duty when the
// port does not drive chip-select in hardware.
type Pin struct {
	pin gpio.PinOut
}

func NewPin(name string) (*Pin, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("could not find gpio pin %s", name)
	}
	return &Pin{pin: pin}, nil
}

func (p *Pin) Out(high bool) error {
	return p.pin.Out(gpio.Level(high))
}
