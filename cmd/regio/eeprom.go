package main

import (
	"context"
	"encoding/hex"

	"github.com/urfave/cli/v2"
	gspi "gobot.io/x/gobot/v2/drivers/spi"
	"gobot.io/x/gobot/v2/platforms/friendlyelec/nanopi"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/adapter"
	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/devices/eeprom"
	regiospi "github.com/mklimuk/regio/spi"
)

var eepromFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "platform",
		Aliases: []string{"p"},
		Usage:   "spi platform: generic or nanopi",
		Value:   "generic",
	},
	&cli.StringFlag{
		Name:  "spi-dev",
		Usage: "spi port for the generic platform",
		Value: "/dev/spidev0.0",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

var eepromCmd = cli.Command{
	Name:    "eeprom",
	Aliases: []string{"mem"},
	Subcommands: cli.Commands{
		&eepromReadCmd,
		&eepromWriteCmd,
	},
}

var eepromReadCmd = cli.Command{
	Name: "read",
	Flags: append([]cli.Flag{
		&cli.IntFlag{Name: "address", Usage: "memory address to read", Required: true},
		&cli.IntFlag{Name: "length", Usage: "number of bytes to read", Value: 16},
	}, eepromFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		e, closeConn, err := openEEPROM(ctx, c)
		if err != nil {
			return err
		}
		defer closeConn()
		data, err := e.Read(ctx, uint32(c.Int("address")), c.Int("length"))
		if err != nil {
			return console.Exit(1, "memory read error: %s", console.Red(err))
		}
		console.Print(hex.Dump(data))
		return nil
	},
}

var eepromWriteCmd = cli.Command{
	Name: "write",
	Flags: append([]cli.Flag{
		&cli.IntFlag{Name: "address", Usage: "memory address to write", Required: true},
		&cli.StringFlag{Name: "data", Usage: "hex bytes to write (e.g. '01FF23')", Required: true},
	}, eepromFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		data, err := hex.DecodeString(c.String("data"))
		if err != nil {
			return console.Exit(1, "invalid data hex string: %s", console.Red(err))
		}
		e, closeConn, err := openEEPROM(ctx, c)
		if err != nil {
			return err
		}
		defer closeConn()
		addr := uint32(c.Int("address"))
		if err := e.Write(ctx, addr, data); err != nil {
			return console.Exit(1, "memory write error: %s", console.Red(err))
		}
		console.Printf("%s wrote %d bytes at %#05x\n", console.PictoChip, len(data), addr)
		return nil
	},
}

func openEEPROM(ctx context.Context, c *cli.Context) (*eeprom.EEPROM25AA1024, func(), error) {
	switch c.String("platform") {
	case "nanopi":
		adaptor := nanopi.NewNeoAdaptor()
		driver := gspi.NewDriver(adaptor, "25aa1024")
		if err := driver.Start(); err != nil {
			return nil, nil, console.Exit(1, "spi initialization error: %s", console.Red(err))
		}
		conn, ok := driver.Connection().(gspi.Connection)
		if !ok {
			_ = driver.Halt()
			return nil, nil, console.Exit(1, "spi driver has no usable connection")
		}
		e, err := eeprom.New25AA1024(ctx, regio.NewSPI(adapter.NewGobotSPI(conn), nil))
		if err != nil {
			_ = driver.Halt()
			return nil, nil, console.Exit(1, "memory initialization error: %s", console.Red(err))
		}
		return e, func() { _ = driver.Halt() }, nil
	default:
		conn, err := regiospi.NewGenericConn(c.String("spi-dev"), 5*physic.MegaHertz, spi.Mode0)
		if err != nil {
			return nil, nil, console.Exit(1, "spi initialization error: %s", console.Red(err))
		}
		e, err := eeprom.New25AA1024(ctx, regio.NewSPI(conn, nil))
		if err != nil {
			_ = conn.Close()
			return nil, nil, console.Exit(1, "memory initialization error: %s", console.Red(err))
		}
		return e, func() {
			if err := conn.Close(); err != nil {
				console.Errorf("error closing spi port: %s", console.Red(err))
			}
		}, nil
	}
}
