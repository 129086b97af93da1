package main

import (
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/adapter"
	"github.com/mklimuk/regio/cmd/regio/console"
	"github.com/mklimuk/regio/i2c"
)

// shared flags for commands talking to an I2C device
var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Usage:   "bus adapter: mcp2221 or generic",
		Value:   "mcp2221",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "bus device path for the generic adapter",
		Value:   "/dev/i2c-1",
	},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
}

// openBus builds the I2C bus selected by the adapter flag. The returned
// closer is a no-op for adapters without a handle to release.
func openBus(c *cli.Context) (regio.I2CBus, func(), error) {
	switch c.String("adapter") {
	case "generic", "nanopi":
		bus, err := i2c.NewGenericBus(c.String("device"))
		if err != nil {
			return nil, nil, err
		}
		return bus, func() {
			if err := bus.Close(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}, nil
	default:
		mcp2221 := adapter.NewMCP2221()
		if err := mcp2221.Init(); err != nil {
			return nil, nil, err
		}
		return mcp2221, func() {}, nil
	}
}
