// Package envhum contains humidity/temperature sensor drivers built as
// declarative profiles over the regio transaction engine.
package envhum

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/regio"
)

// SHTC3 I2C address (7-bit)
const SHTC3Address = 0x70

// Commands (Big Endian on the wire)
var (
	shtc3CmdWake  = []byte{0x35, 0x17}
	shtc3CmdSleep = []byte{0xB0, 0x98}
	shtc3CmdID    = []byte{0xEF, 0xC8}

	// Normal power, clock stretching disabled
	// Measure T first, then RH
	shtc3CmdMeasureTFirstNoCS = []byte{0x78, 0x66}
)

// ID register: bits 11 and 5..0 identify the part as an SHTC3
const (
	shtc3IDMask = 0x083F
	shtc3IDWant = 0x0807
)

const (
	// typical wake time is below 240us, 1ms to be safe
	shtc3WakeTime = time.Millisecond
	// typical measurement time is ~12.1ms in normal mode
	shtc3MeasureTime = 15 * time.Millisecond
)

var shtc3RegMeasurement = regio.Register{Name: "MEASUREMENT", Width: 6, Access: regio.ReadOnly}

// SHTC3 represents a Sensirion SHTC3 temperature/humidity sensor.
// Typical usage:
//
//	s, err := NewSHTC3(ctx, bus)
//	t, h, err := s.GetTempAndHum(ctx)
type SHTC3 struct {
	dev      *regio.Device
	lastTemp float32
	lastHum  float32
}

// NewSHTC3 wakes the sensor, validates its identity word and puts it back
// to sleep. The identity command returns a CRC-protected 16-bit word, so
// the check lives here rather than in the generic single-byte path.
func NewSHTC3(ctx context.Context, bus regio.I2CBus) (*SHTC3, error) {
	dev, err := regio.Open(ctx, regio.NewI2C(bus, SHTC3Address), regio.Profile{
		Name:       "shtc3",
		Addressing: regio.AddrOpcode,
		WordCRC:    regio.SensirionCRC(),
	})
	if err != nil {
		return nil, err
	}
	s := &SHTC3{dev: dev}
	if err := dev.Command(ctx, shtc3CmdWake, shtc3WakeTime); err != nil {
		return nil, fmt.Errorf("shtc3: wake failed: %w", err)
	}
	if err := dev.Command(ctx, shtc3CmdID, 0); err != nil {
		return nil, fmt.Errorf("shtc3: identity command failed: %w", err)
	}
	words, err := dev.ReadWords(ctx, regio.Register{Name: "ID", Width: 2, Access: regio.ReadOnly}, 1)
	if err != nil {
		return nil, fmt.Errorf("shtc3: identity read failed: %w", err)
	}
	if words[0]&shtc3IDMask != shtc3IDWant {
		return nil, &regio.IdentityError{Device: "shtc3", Want: 0x07, Got: byte(words[0] & 0x3F)}
	}
	if err := dev.Command(ctx, shtc3CmdSleep, 0); err != nil {
		return nil, fmt.Errorf("shtc3: sleep failed: %w", err)
	}
	return s, nil
}

// GetTemperature performs a single measurement and returns temperature in Celsius.
func (s *SHTC3) GetTemperature(ctx context.Context) (float32, error) {
	if err := s.measure(ctx); err != nil {
		return 0, err
	}
	return s.lastTemp, nil
}

// GetHumidity performs a single measurement and returns relative humidity in %RH.
func (s *SHTC3) GetHumidity(ctx context.Context) (float32, error) {
	if err := s.measure(ctx); err != nil {
		return 0, err
	}
	return s.lastHum, nil
}

// GetTempAndHum performs a single measurement and returns temperature and humidity.
func (s *SHTC3) GetTempAndHum(ctx context.Context) (float32, float32, error) {
	if err := s.measure(ctx); err != nil {
		return 0, 0, err
	}
	return s.lastTemp, s.lastHum, nil
}

// measure runs one wake/convert/read/sleep cycle. The sensor is one-shot
// only: every reading re-arms the measurement.
func (s *SHTC3) measure(ctx context.Context) error {
	if err := s.dev.Command(ctx, shtc3CmdWake, shtc3WakeTime); err != nil {
		return fmt.Errorf("shtc3: wake failed: %w", err)
	}
	if err := s.dev.Command(ctx, shtc3CmdMeasureTFirstNoCS, shtc3MeasureTime); err != nil {
		return fmt.Errorf("shtc3: measure command failed: %w", err)
	}
	// T word, CRC, RH word, CRC; a checksum failure surfaces as-is, the
	// previous reading is never silently reused
	words, err := s.dev.ReadWords(ctx, shtc3RegMeasurement, 2)
	if err != nil {
		return fmt.Errorf("shtc3: read failed: %w", err)
	}

	// Conversion formulas from datasheet
	// T(C) = -45 + 175 * rawT / 65535
	// RH(%) = 100 * rawRH / 65535
	s.lastTemp = -45.0 + (175.0 * float32(words[0]) / 65535.0)
	s.lastHum = 100.0 * float32(words[1]) / 65535.0

	if err := s.dev.Command(ctx, shtc3CmdSleep, 0); err != nil {
		// not fatal for the reading, but report so the caller knows
		return fmt.Errorf("shtc3: sleep failed: %w", err)
	}
	return nil
}
