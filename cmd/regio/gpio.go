package main

import (
	"context"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/devices/ioexp"
)

var gpioCmd = cli.Command{
	Name: "gpio",
	Subcommands: cli.Commands{
		&gpioReadCmd,
		&gpioSetCmd,
		&gpioStatusCmd,
		&gpioConfigureCmd,
		&gpioPullCmd,
	},
}

var gpioReadCmd = cli.Command{
	Name:      "read",
	ArgsUsage: "<address>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		exp, ctx, cancel, closeBus, err := openExpander(c, c.Args().Get(0))
		if err != nil {
			return err
		}
		defer cancel()
		defer closeBus()
		if err := exp.SetDirection(ctx, ioexp.PortA, 0xFF); err != nil {
			return console.Exit(1, "could not initialize gpio: %v", err)
		}
		state, err := exp.Read(ctx)
		if err != nil {
			return console.Exit(1, "could not read gpio: %v", err)
		}
		console.Printf("\nI/O A: %#X\nI/O B: %#X\n", state[0], state[1])
		return nil
	},
}

var gpioSetCmd = cli.Command{
	Name:      "set",
	ArgsUsage: "<address> <port a|b> <pin 0-7> <0|1>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 4 {
			return console.Exit(1, "expected 4 arguments, got %d", c.NArg())
		}
		exp, ctx, cancel, closeBus, err := openExpander(c, c.Args().Get(0))
		if err != nil {
			return err
		}
		defer cancel()
		defer closeBus()
		port := ioexp.PortA
		if c.Args().Get(1) == "b" {
			port = ioexp.PortB
		}
		pin, err := strconv.Atoi(c.Args().Get(2))
		if err != nil {
			return console.Exit(1, "could not parse pin: %v", err)
		}
		high := c.Args().Get(3) == "1"
		if err := exp.SetPin(ctx, port, pin, high); err != nil {
			return console.Exit(1, "could not set pin: %v", err)
		}
		console.Printf("%s %s pin %d set\n", console.PictoPin, port, pin)
		return nil
	},
}

var gpioStatusCmd = cli.Command{
	Name:      "status",
	ArgsUsage: "<address>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return console.Exit(1, "expected 1 argument, got %d", c.NArg())
		}
		exp, ctx, cancel, closeBus, err := openExpander(c, c.Args().Get(0))
		if err != nil {
			return err
		}
		defer cancel()
		defer closeBus()
		data, err := exp.ReadSettings(ctx, ioexp.PortA)
		if err != nil {
			return console.Exit(1, "could not read settings: %v", err)
		}
		console.Printf("\nIOCON content: %#X\n", data)
		return nil
	},
}

var gpioConfigureCmd = cli.Command{
	Name:      "configure",
	ArgsUsage: "<address> <iocon hex>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		exp, ctx, cancel, closeBus, err := openExpander(c, c.Args().Get(0))
		if err != nil {
			return err
		}
		defer cancel()
		defer closeBus()
		data, err := hex.DecodeString(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "could not decode data: %v", err)
		}
		if err := exp.WriteSettings(ctx, ioexp.PortA, data[0]); err != nil {
			return console.Exit(1, "could not write settings: %v", err)
		}
		console.Printf("\nWrote IOCON content: %#X\n", data[0])
		return nil
	},
}

var gpioPullCmd = cli.Command{
	Name:      "pull",
	ArgsUsage: "<address> <gppu hex>",
	Flags:     busFlags,
	Action: func(c *cli.Context) error {
		if c.NArg() != 2 {
			return console.Exit(1, "expected 2 arguments, got %d", c.NArg())
		}
		exp, ctx, cancel, closeBus, err := openExpander(c, c.Args().Get(0))
		if err != nil {
			return err
		}
		defer cancel()
		defer closeBus()
		data, err := hex.DecodeString(c.Args().Get(1))
		if err != nil {
			return console.Exit(1, "could not decode data: %v", err)
		}
		if err := exp.SetPullUp(ctx, ioexp.PortA, data[0]); err != nil {
			return console.Exit(1, "could not write pull up settings: %v", err)
		}
		console.Printf("\nWrote GPPU content: %#X\n", data[0])
		return nil
	},
}

func openExpander(c *cli.Context, addrArg string) (*ioexp.MCP23017, context.Context, context.CancelFunc, func(), error) {
	addr, err := hex.DecodeString(addrArg)
	if err != nil {
		return nil, nil, nil, nil, console.Exit(1, "could not decode address: %v", err)
	}
	bus, closeBus, err := openBus(c)
	if err != nil {
		return nil, nil, nil, nil, console.Exit(1, "adapter initialization error: %s", console.Red(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	exp, err := ioexp.NewMCP23017(ctx, bus, addr[0])
	if err != nil {
		cancel()
		closeBus()
		return nil, nil, nil, nil, console.Exit(1, "could not initialize expander: %v", err)
	}
	return exp, ctx, cancel, closeBus, nil
}
