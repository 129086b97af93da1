package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/devices/baro"
)

var pressureCmd = cli.Command{
	Name:    "pressure",
	Aliases: []string{"baro"},
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "osr",
			Usage: "oversampling ratio: 256, 512, 1024, 2048 or 4096",
			Value: 1024,
		},
		&cli.BoolFlag{
			Name:  "csb-high",
			Usage: "CSB pin wired high, address 0x76",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()

		addr := byte(baro.MS5611AddressCSBLow)
		if c.Bool("csb-high") {
			addr = baro.MS5611AddressCSBHigh
		}
		osr, err := oversampling(c.Int("osr"))
		if err != nil {
			return console.Exit(1, "%s", console.Red(err))
		}
		s, err := baro.NewMS5611(ctx, regio.NewI2C(bus, addr), baro.WithOversampling(osr))
		if err != nil {
			return console.Exit(1, "sensor initialization error: %s", console.Red(err))
		}
		temp, press, err := s.GetTempAndPressure(ctx)
		if err != nil {
			return console.Exit(1, "error getting pressure read: %s", console.Red(err))
		}
		console.Printf("%s %s mbar\n%s  %s\n", console.PictoPressure, console.White(press),
			console.PictoThermometer, console.White(temp))
		return nil
	},
}

func oversampling(ratio int) (baro.Oversampling, error) {
	switch ratio {
	case 256:
		return baro.OSR256, nil
	case 512:
		return baro.OSR512, nil
	case 1024:
		return baro.OSR1024, nil
	case 2048:
		return baro.OSR2048, nil
	case 4096:
		return baro.OSR4096, nil
	default:
		return 0, console.Exit(1, "unsupported oversampling ratio: %d", ratio)
	}
}
