package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/cmd/regio/console"
)

// shellCmd is an interactive register console: raw reads and writes against
// any address on the bus, without going through a device driver.
var shellCmd = cli.Command{
	Name:  "shell",
	Usage: "interactive register access",
	Flags: busFlags,
	Action: func(c *cli.Context) error {
		ctx := console.SetVerbose(context.Background(), c.Bool("verbose"))
		bus, closeBus, err := openBus(c)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer closeBus()

		rl, err := readline.New(console.Bold("regio> "))
		if err != nil {
			return console.Exit(1, "could not open console: %s", console.Red(err))
		}
		defer func() { _ = rl.Close() }()

		console.Print("commands: rd <addr> <reg> [n] | wr <addr> <reg> <bytes> | exit")
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			if err != nil {
				return console.Exit(1, "console error: %s", console.Red(err))
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch fields[0] {
			case "exit", "quit":
				return nil
			case "rd":
				if err := shellRead(ctx, bus, fields[1:]); err != nil {
					console.Error(err.Error())
				}
			case "wr":
				if err := shellWrite(ctx, bus, fields[1:]); err != nil {
					console.Error(err.Error())
				}
			default:
				console.Warnf("unknown command: %s", fields[0])
			}
		}
	},
}

func shellRead(ctx context.Context, bus regio.I2CBus, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("usage: rd <addr> <reg> [n]")
	}
	addr, reg, err := parseTarget(args)
	if err != nil {
		return err
	}
	n := 1
	if len(args) == 3 {
		if n, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("could not parse length: %w", err)
		}
	}
	dev, err := regio.Open(ctx, regio.NewI2C(bus, addr), regio.Profile{Name: "shell"})
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	if err := dev.ReadReg(ctx, regio.Register{Name: "RAW", Addr: reg, Width: n}, buf); err != nil {
		return err
	}
	console.Printf("%#02x[%#02x] = %s\n", addr, reg, hex.EncodeToString(buf))
	return nil
}

func shellWrite(ctx context.Context, bus regio.I2CBus, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: wr <addr> <reg> <bytes>")
	}
	addr, reg, err := parseTarget(args)
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return fmt.Errorf("could not decode data: %w", err)
	}
	dev, err := regio.Open(ctx, regio.NewI2C(bus, addr), regio.Profile{Name: "shell"})
	if err != nil {
		return err
	}
	if err := dev.WriteReg(ctx, regio.Register{Name: "RAW", Addr: reg, Width: len(data)}, data...); err != nil {
		return err
	}
	console.Printf("%#02x[%#02x] <- %s\n", addr, reg, hex.EncodeToString(data))
	return nil
}

func parseTarget(args []string) (addr, reg byte, err error) {
	a, err := hex.DecodeString(args[0])
	if err != nil || len(a) != 1 {
		return 0, 0, fmt.Errorf("could not decode address %q", args[0])
	}
	r, err := hex.DecodeString(args[1])
	if err != nil || len(r) != 1 {
		return 0, 0, fmt.Errorf("could not decode register %q", args[1])
	}
	return a[0], r[0], nil
}
