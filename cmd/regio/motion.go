package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/devices/motion"
)

var motionCmd = cli.Command{
	Name: "motion",
	Subcommands: cli.Commands{
		&motionInitCmd,
		&motionCheckCmd,
		&motionResetCmd,
	},
}

var motionInitCmd = cli.Command{
	Name:  "init",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, closeBus, err := openMotionSensor(ctx, c)
		if err != nil {
			return err
		}
		defer closeBus()
		if err := s.InitMotionDetection(ctx); err != nil {
			return console.Exit(1, "error initializing BMA220: %s", console.Red(err))
		}
		console.Printf("%s motion detection armed\n", console.PictoMotion)
		return nil
	},
}

var motionCheckCmd = cli.Command{
	Name:  "check",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, closeBus, err := openMotionSensor(ctx, c)
		if err != nil {
			return err
		}
		defer closeBus()
		fired, err := s.CheckMotionInterrupt(ctx)
		if err != nil {
			return console.Exit(1, "error checking motion detection on BMA220: %s", console.Red(err))
		}
		if fired {
			console.Printf("motion interrupt: %s\n", console.Yellow(fired))
		} else {
			console.Printf("motion interrupt: %s\n", console.Green(fired))
		}
		return nil
	},
}

var motionResetCmd = cli.Command{
	Name:  "reset",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		s, closeBus, err := openMotionSensor(ctx, c)
		if err != nil {
			return err
		}
		defer closeBus()
		if err := s.ResetMotionInterrupt(ctx); err != nil {
			return console.Exit(1, "error resetting motion detection on BMA220: %s", console.Red(err))
		}
		return nil
	},
}

func openMotionSensor(ctx context.Context, c *cli.Context) (*motion.BMA220, func(), error) {
	bus, closeBus, err := openBus(c)
	if err != nil {
		return nil, nil, console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	s, err := motion.NewBMA220(ctx, bus)
	if err != nil {
		closeBus()
		return nil, nil, console.Exit(1, "sensor initialization error: %s", console.Red(err))
	}
	return s, closeBus, nil
}
