// Package light contains ambient light sensor drivers built as
// declarative profiles over the regio transaction engine.
package light

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/mklimuk/regio"
)

// TSL2561 I2C addresses depending on the ADDR SEL pin
const (
	TSL2561AddrLow   = 0x29
	TSL2561AddrFloat = 0x39
	TSL2561AddrHigh  = 0x49
)

// Register map. Every access must carry the CMD bit (0x80); word reads
// additionally carry the word protocol bit (0x20) so the two data bytes
// arrive in one transaction.
var (
	tslRegControl = regio.Register{Name: "CONTROL", Addr: 0x80, Width: 1}
	tslRegTiming  = regio.Register{Name: "TIMING", Addr: 0x81, Width: 1}
	tslRegData0   = regio.Register{Name: "DATA0", Addr: 0xAC, Width: 2, Access: regio.ReadOnly}
	tslRegData1   = regio.Register{Name: "DATA1", Addr: 0xAE, Width: 2, Access: regio.ReadOnly}
	tslRegID      = regio.Register{Name: "ID", Addr: 0x8A, Width: 1, Access: regio.ReadOnly}
)

var (
	tslFieldGain  = regio.Field{Name: "gain", Reg: tslRegTiming, Mask: 0x10}
	tslFieldInteg = regio.Field{Name: "integration time", Reg: tslRegTiming, Mask: 0x03}
)

const (
	tslPowerUp   = 0x03
	tslPowerDown = 0x00
)

type TSL2561Gain byte

const (
	TSL2561Gain1x  TSL2561Gain = 0
	TSL2561Gain16x TSL2561Gain = 1
)

type TSL2561Integration byte

const (
	TSL2561Integ14ms  TSL2561Integration = 0
	TSL2561Integ101ms TSL2561Integration = 1
	TSL2561Integ402ms TSL2561Integration = 2
)

// wait times cover the nominal integration period plus margin
var tslIntegrationWait = map[TSL2561Integration]time.Duration{
	TSL2561Integ14ms:  20 * time.Millisecond,
	TSL2561Integ101ms: 110 * time.Millisecond,
	TSL2561Integ402ms: 410 * time.Millisecond,
}

// channel scaling to the 402ms/16x reference domain (datasheet CH_SCALE)
var tslChannelScale = map[TSL2561Integration]float64{
	TSL2561Integ14ms:  322.0 / 11.0,
	TSL2561Integ101ms: 322.0 / 81.0,
	TSL2561Integ402ms: 1.0,
}

type TSL2561Config struct {
	Address byte
}

type TSL2561Option func(*TSL2561Config)

func WithTSL2561Address(address byte) TSL2561Option {
	return func(c *TSL2561Config) {
		c.Address = address
	}
}

// TSL2561 represents an ams TSL2561 ambient light sensor (T package).
// Typical usage:
//
//	s, err := NewTSL2561(ctx, bus)
//	lux, err := s.GetLux(ctx)
type TSL2561 struct {
	dev *regio.Device
	// configuration snapshot: lux scaling and the integration wait
	// depend on it, so setters keep it in sync with the timing register
	gain  TSL2561Gain
	integ TSL2561Integration
}

func NewTSL2561(ctx context.Context, bus regio.I2CBus, opts ...TSL2561Option) (*TSL2561, error) {
	config := &TSL2561Config{Address: TSL2561AddrFloat}
	for _, opt := range opts {
		opt(config)
	}
	dev, err := regio.Open(ctx, regio.NewI2C(bus, config.Address), regio.Profile{
		Name:     "tsl2561",
		Order:    binary.LittleEndian,
		Identity: &regio.Identity{Reg: tslRegID, Mask: 0xF0, Want: 0x50},
	})
	if err != nil {
		return nil, err
	}
	// power-up defaults: 1x gain, 402ms integration
	return &TSL2561{dev: dev, gain: TSL2561Gain1x, integ: TSL2561Integ402ms}, nil
}

// SetGain changes the analog gain without touching the integration time
// bits sharing the timing register.
func (s *TSL2561) SetGain(ctx context.Context, gain TSL2561Gain) error {
	if err := s.dev.Update(ctx, tslFieldGain, byte(gain)); err != nil {
		return fmt.Errorf("tsl2561: could not set gain: %w", err)
	}
	s.gain = gain
	return nil
}

// SetIntegration changes the integration time without touching the gain
// bit sharing the timing register.
func (s *TSL2561) SetIntegration(ctx context.Context, integ TSL2561Integration) error {
	if err := s.dev.Update(ctx, tslFieldInteg, byte(integ)); err != nil {
		return fmt.Errorf("tsl2561: could not set integration time: %w", err)
	}
	s.integ = integ
	return nil
}

// GetLux powers the sensor up, waits one integration period, reads both
// channels and computes illuminance in lux. Conversion uses the snapshot
// active at read time; reconfiguring later never rescales past readings.
func (s *TSL2561) GetLux(ctx context.Context) (float64, error) {
	if err := s.dev.WriteReg(ctx, tslRegControl, tslPowerUp); err != nil {
		return 0, fmt.Errorf("tsl2561: could not power up: %w", err)
	}
	time.Sleep(tslIntegrationWait[s.integ])
	ch0, err := s.dev.ReadWords(ctx, tslRegData0, 1)
	if err != nil {
		return 0, fmt.Errorf("tsl2561: could not read broadband channel: %w", err)
	}
	ch1, err := s.dev.ReadWords(ctx, tslRegData1, 1)
	if err != nil {
		return 0, fmt.Errorf("tsl2561: could not read IR channel: %w", err)
	}
	if err := s.dev.WriteReg(ctx, tslRegControl, tslPowerDown); err != nil {
		return 0, fmt.Errorf("tsl2561: could not power down: %w", err)
	}
	return s.lux(ch0[0], ch1[0]), nil
}

// lux implements the T-package piecewise approximation from the
// datasheet, after scaling both channels to the 402ms/16x reference
// domain.
func (s *TSL2561) lux(raw0, raw1 uint16) float64 {
	scale := tslChannelScale[s.integ]
	if s.gain == TSL2561Gain1x {
		scale *= 16
	}
	ch0 := float64(raw0) * scale
	ch1 := float64(raw1) * scale
	if ch0 == 0 {
		return 0
	}
	ratio := ch1 / ch0
	switch {
	case ratio <= 0.50:
		return 0.0304*ch0 - 0.062*ch0*math.Pow(ratio, 1.4)
	case ratio <= 0.61:
		return 0.0224*ch0 - 0.031*ch1
	case ratio <= 0.80:
		return 0.0128*ch0 - 0.0153*ch1
	case ratio <= 1.30:
		return 0.00146*ch0 - 0.00112*ch1
	default:
		return 0
	}
}
