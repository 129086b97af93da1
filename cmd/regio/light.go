package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/devices/light"
)

var lightCmd = cli.Command{
	Name: "light",
	Subcommands: []*cli.Command{
		&lightReadCmd,
	},
}

var lightReadCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "sensor",
			Aliases: []string{"s"},
			Usage:   "tsl2561 or bh1750",
			Value:   "tsl2561",
		},
		&cli.StringFlag{
			Name:  "addr",
			Usage: "address select pin: l, f or h",
			Value: "f",
		},
		&cli.BoolFlag{
			Name:  "gain",
			Usage: "enable 16x analog gain (tsl2561)",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()

		switch c.String("sensor") {
		case "bh1750":
			var addr byte = light.BH1750AddrLow
			if c.String("addr") == "h" {
				addr = light.BH1750AddrHigh
			}
			s, err := light.NewBH1750(ctx, bus, addr)
			if err != nil {
				return console.Exit(1, "sensor initialization error: %s", console.Red(err))
			}
			lux, err := s.GetLux(ctx)
			if err != nil {
				return console.Exit(1, "error getting light sensor read: %s", console.Red(err))
			}
			console.Printf("%s %s lux\n", console.PictoLight, console.White(lux))
		default:
			var addr byte = light.TSL2561AddrFloat
			switch c.String("addr") {
			case "l":
				addr = light.TSL2561AddrLow
			case "h":
				addr = light.TSL2561AddrHigh
			}
			s, err := light.NewTSL2561(ctx, bus, light.WithTSL2561Address(addr))
			if err != nil {
				return console.Exit(1, "sensor initialization error: %s", console.Red(err))
			}
			if c.Bool("gain") {
				if err := s.SetGain(ctx, light.TSL2561Gain16x); err != nil {
					return console.Exit(1, "could not set gain: %s", console.Red(err))
				}
			}
			lux, err := s.GetLux(ctx)
			if err != nil {
				return console.Exit(1, "error getting light sensor read: %s", console.Red(err))
			}
			console.Printf("%s %s lux\n", console.PictoLight, console.White(lux))
		}
		return nil
	},
}
