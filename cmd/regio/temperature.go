package main

import (
	"context"

	"github.com/urfave/cli/v2"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/devices/envhum"
	"github.com/mklimuk/regio/devices/thermo"
	regiospi "github.com/mklimuk/regio/spi"
)

var tempReadCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "sensor",
			Aliases: []string{"s"},
			Usage:   "adt7410, shtc3 or max31855",
			Value:   "adt7410",
		},
		&cli.StringFlag{
			Name:  "spi-dev",
			Usage: "spi port for the max31855",
			Value: "/dev/spidev0.0",
		},
		&cli.BoolFlag{
			Name:  "oneshot",
			Usage: "single conversion instead of continuous mode (adt7410)",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))

		switch c.String("sensor") {
		case "max31855":
			conn, err := regiospi.NewGenericConn(c.String("spi-dev"), 5*physic.MegaHertz, spi.Mode0)
			if err != nil {
				return console.Exit(1, "spi initialization error: %s", console.Red(err))
			}
			defer func() { _ = conn.Close() }()
			s, err := thermo.NewMAX31855(ctx, regio.NewSPI(conn, nil))
			if err != nil {
				return console.Exit(1, "sensor initialization error: %s", console.Red(err))
			}
			reading, err := s.Read(ctx)
			if err != nil {
				return console.Exit(1, "error getting temperature read: %s", console.Red(err))
			}
			console.Printf("%s  %s (cold junction %s)\n", console.PictoThermometer,
				console.White(reading.Thermocouple), console.White(reading.Internal))
		case "shtc3":
			bus, closeBus, err := openBus(c)
			if err != nil {
				return console.Exit(1, "adapter initialization error: %s", console.Red(err))
			}
			defer closeBus()
			s, err := envhum.NewSHTC3(ctx, bus)
			if err != nil {
				return console.Exit(1, "sensor initialization error: %s", console.Red(err))
			}
			temp, hum, err := s.GetTempAndHum(ctx)
			if err != nil {
				return console.Exit(1, "error getting temperature read: %s", console.Red(err))
			}
			console.Printf("%s  %s\n%s %s\n", console.PictoThermometer, console.White(temp),
				console.PictoHumidity, console.White(hum))
		default:
			bus, closeBus, err := openBus(c)
			if err != nil {
				return console.Exit(1, "adapter initialization error: %s", console.Red(err))
			}
			defer closeBus()
			s, err := thermo.NewADT7410(ctx, bus)
			if err != nil {
				return console.Exit(1, "sensor initialization error: %s", console.Red(err))
			}
			if c.Bool("oneshot") {
				if err := s.SetMode(ctx, thermo.ADT7410OneShot); err != nil {
					return console.Exit(1, "could not switch mode: %s", console.Red(err))
				}
			}
			temp, err := s.GetTemperature(ctx)
			if err != nil {
				return console.Exit(1, "error getting temperature read: %s", console.Red(err))
			}
			console.Printf("%s  %s\n", console.PictoThermometer, console.White(temp))
		}
		return nil
	},
}
