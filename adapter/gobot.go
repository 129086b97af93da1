package adapter

import (
	"context"
	"fmt"

	"gobot.io/x/gobot/v2/drivers/spi"

	"github.com/mklimuk/regio"
)

var _ regio.SPIConn = &GobotSPI{}

// GobotSPI adapts a gobot SPI connection to the regio transport layer,
// for boards covered by gobot adaptors rather than periph (NanoPi and
// friends).
type GobotSPI struct {
	conn spi.Connection
}

func NewGobotSPI(conn spi.Connection) *GobotSPI {
	return &GobotSPI{conn: conn}
}

func (g *GobotSPI) Tx(ctx context.Context, w, r []byte) error {
	if len(r) == 0 {
		if len(w) == 0 {
			return nil
		}
		if err := g.conn.WriteBytes(w); err != nil {
			return fmt.Errorf("gobot spi write failed: %w", err)
		}
		return nil
	}
	if err := g.conn.ReadCommandData(w, r); err != nil {
		return fmt.Errorf("gobot spi transfer failed: %w", err)
	}
	return nil
}
