package light

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/regio"
)

const (
	BH1750AddrHigh = 0b1011100
	BH1750AddrLow  = 0b0100011
)

// BH1750Mode is one of the one-shot measurement opcodes. The device has
// no register map at all: an opcode arms a measurement and the next read
// returns it.
type BH1750Mode byte

const (
	BH1750OneTimeHighRes BH1750Mode = 0b00100000
	BH1750OneTimeLowRes  BH1750Mode = 0b00100011
)

// measurement times per datasheet maxima, with margin
var bh1750MeasureTime = map[BH1750Mode]time.Duration{
	BH1750OneTimeHighRes: 185 * time.Millisecond,
	BH1750OneTimeLowRes:  25 * time.Millisecond,
}

var bh1750RegLight = regio.Register{Name: "LIGHT", Width: 2, Access: regio.ReadOnly}

type BH1750Config struct {
	Mode BH1750Mode
}

type BH1750Option func(*BH1750Config)

func WithBH1750Mode(mode BH1750Mode) BH1750Option {
	return func(c *BH1750Config) {
		c.Mode = mode
	}
}

// BH1750 represents a Rohm BH1750 ambient light sensor.
type BH1750 struct {
	dev  *regio.Device
	mode BH1750Mode
}

func NewBH1750(ctx context.Context, bus regio.I2CBus, addr byte, opts ...BH1750Option) (*BH1750, error) {
	config := &BH1750Config{Mode: BH1750OneTimeLowRes}
	for _, opt := range opts {
		opt(config)
	}
	dev, err := regio.Open(ctx, regio.NewI2C(bus, addr), regio.Profile{
		Name:       "bh1750",
		Addressing: regio.AddrOpcode,
	})
	if err != nil {
		return nil, err
	}
	return &BH1750{dev: dev, mode: config.Mode}, nil
}

// GetLux arms a one-shot measurement, waits out the mode's conversion
// time and reads the result.
func (s *BH1750) GetLux(ctx context.Context) (int, error) {
	if err := s.dev.Command(ctx, []byte{byte(s.mode)}, bh1750MeasureTime[s.mode]); err != nil {
		return 0, fmt.Errorf("bh1750: could not write command: %w", err)
	}
	words, err := s.dev.ReadWords(ctx, bh1750RegLight, 1)
	if err != nil {
		return 0, fmt.Errorf("bh1750: could not read data: %w", err)
	}
	return int(float32(words[0]) / 1.2), nil
}
