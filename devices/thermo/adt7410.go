// Package thermo contains temperature sensor drivers built as declarative
// profiles over the regio transaction engine.
package thermo

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/convert"
)

const ADT7410DefaultAddress = 0x48

// Register map (per datasheet)
var (
	adtRegTemp   = regio.Register{Name: "TEMP", Addr: 0x00, Width: 2, Access: regio.ReadOnly}
	adtRegStatus = regio.Register{Name: "STATUS", Addr: 0x02, Width: 1, Access: regio.ReadOnly}
	adtRegConfig = regio.Register{Name: "CONFIG", Addr: 0x03, Width: 1}
	adtRegID     = regio.Register{Name: "ID", Addr: 0x0B, Width: 1, Access: regio.ReadOnly}
)

var (
	adtFieldMode       = regio.Field{Name: "operation mode", Reg: adtRegConfig, Mask: 0x60}
	adtFieldResolution = regio.Field{Name: "resolution", Reg: adtRegConfig, Mask: 0x80}
)

// STATUS bit 7 is /RDY: cleared when a fresh conversion result is waiting.
const adtStatusNotReady = 0x80

type ADT7410Mode byte

const (
	ADT7410Continuous ADT7410Mode = 0b00
	ADT7410OneShot    ADT7410Mode = 0b01
	ADT7410OneSPS     ADT7410Mode = 0b10
	ADT7410Shutdown   ADT7410Mode = 0b11
)

type ADT7410Resolution byte

const (
	// 13-bit resolution, 0.0625 degC per LSB, flags in the low bits
	ADT7410Res13Bit ADT7410Resolution = 0
	// 16-bit resolution, 1/128 degC per LSB
	ADT7410Res16Bit ADT7410Resolution = 1
)

// one-shot conversion time per datasheet
const adt7410ConversionTime = 240 * time.Millisecond

// polling interval for the continuous-mode ready bit
const adt7410PollInterval = 10 * time.Millisecond

type ADT7410Config struct {
	Address byte
}

type ADT7410Option func(*ADT7410Config)

func WithADT7410Address(address byte) ADT7410Option {
	return func(c *ADT7410Config) {
		c.Address = address
	}
}

// ADT7410 represents an Analog Devices ADT7410 I2C temperature sensor.
// Typical usage:
//
//	s, err := NewADT7410(ctx, bus)
//	t, err := s.GetTemperature(ctx)
type ADT7410 struct {
	dev *regio.Device
	// configuration snapshot: the conversion scale and wait times depend
	// on it, so setters keep it in sync with the hardware register
	mode ADT7410Mode
	res  ADT7410Resolution
}

// NewADT7410 binds the driver to the bus and verifies the identity
// register (manufacturer bits 0xC8) before any other traffic.
func NewADT7410(ctx context.Context, bus regio.I2CBus, opts ...ADT7410Option) (*ADT7410, error) {
	config := &ADT7410Config{Address: ADT7410DefaultAddress}
	for _, opt := range opts {
		opt(config)
	}
	dev, err := regio.Open(ctx, regio.NewI2C(bus, config.Address), regio.Profile{
		Name:     "adt7410",
		Identity: &regio.Identity{Reg: adtRegID, Mask: 0xF8, Want: 0xC8},
	})
	if err != nil {
		return nil, err
	}
	// power-up defaults: continuous conversion, 13-bit resolution
	return &ADT7410{dev: dev, mode: ADT7410Continuous, res: ADT7410Res13Bit}, nil
}

// SetResolution switches between 13-bit and 16-bit conversions without
// touching the operation mode bits.
func (s *ADT7410) SetResolution(ctx context.Context, res ADT7410Resolution) error {
	if err := s.dev.Update(ctx, adtFieldResolution, byte(res)); err != nil {
		return fmt.Errorf("adt7410: could not set resolution: %w", err)
	}
	s.res = res
	return nil
}

// SetMode switches the operation mode. Changing to one-shot arms a single
// conversion, so a read must follow within the device's wake window.
func (s *ADT7410) SetMode(ctx context.Context, mode ADT7410Mode) error {
	if err := s.dev.Update(ctx, adtFieldMode, byte(mode)); err != nil {
		return fmt.Errorf("adt7410: could not set operation mode: %w", err)
	}
	s.mode = mode
	return nil
}

// GetTemperature returns the temperature in Celsius. In one-shot mode the
// measurement is re-armed and the conversion time waited out on every
// call; in continuous mode the ready bit is polled and the latest result
// read directly.
func (s *ADT7410) GetTemperature(ctx context.Context) (float32, error) {
	switch s.mode {
	case ADT7410OneShot:
		if err := s.dev.Update(ctx, adtFieldMode, byte(ADT7410OneShot)); err != nil {
			return 0, fmt.Errorf("adt7410: could not trigger conversion: %w", err)
		}
		time.Sleep(adt7410ConversionTime)
	case ADT7410Shutdown:
		return 0, fmt.Errorf("adt7410: device is shut down")
	default:
		if err := s.dev.PollReady(ctx, adtRegStatus, adtStatusNotReady, false, adt7410PollInterval); err != nil {
			return 0, fmt.Errorf("adt7410: %w", err)
		}
	}
	words, err := s.dev.ReadWords(ctx, adtRegTemp, 1)
	if err != nil {
		return 0, fmt.Errorf("adt7410: could not read temperature: %w", err)
	}
	return s.convert(words[0]), nil
}

// convert applies the scale of the currently configured resolution. The
// snapshot is authoritative: a stale value here would silently misscale
// every reading.
func (s *ADT7410) convert(raw uint16) float32 {
	if s.res == ADT7410Res16Bit {
		return convert.Scale(convert.SignExtend(uint32(raw), 16), 1.0/128)
	}
	// 13-bit value lives in bits 15..3, low bits carry event flags
	return convert.Scale(convert.SignExtend(uint32(raw>>3), 13), 0.0625)
}
