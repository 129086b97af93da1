package thermo

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/mklimuk/regio"
	"github.com/mklimuk/regio/convert"
)

// The MAX31855 has no registers at all: asserting chip-select clocks out
// one 32-bit result frame.
var maxRegFrame = regio.Register{Name: "FRAME", Width: 4, Access: regio.ReadOnly}

const (
	maxFaultBit = 1 << 16
	maxFaultSCV = 1 << 2 // thermocouple shorted to VCC
	maxFaultSCG = 1 << 1 // thermocouple shorted to GND
	maxFaultOC  = 1 << 0 // open thermocouple
)

// MAX31855Reading is one decoded result frame.
type MAX31855Reading struct {
	// Thermocouple is the hot junction temperature in Celsius (0.25 degC
	// per LSB).
	Thermocouple float32
	// Internal is the cold junction reference temperature in Celsius
	// (0.0625 degC per LSB).
	Internal float32
}

// MAX31855 represents a Maxim MAX31855 SPI thermocouple converter.
type MAX31855 struct {
	dev *regio.Device
}

func NewMAX31855(ctx context.Context, t regio.Transport) (*MAX31855, error) {
	dev, err := regio.Open(ctx, t, regio.Profile{
		Name:       "max31855",
		Addressing: regio.AddrOpcode,
	})
	if err != nil {
		return nil, err
	}
	return &MAX31855{dev: dev}, nil
}

// Read clocks out and decodes one result frame. Fault frames carry valid
// cold junction data but no thermocouple reading, so they surface as
// errors.
func (s *MAX31855) Read(ctx context.Context) (MAX31855Reading, error) {
	var buf [4]byte
	if err := s.dev.ReadReg(ctx, maxRegFrame, buf[:]); err != nil {
		return MAX31855Reading{}, fmt.Errorf("max31855: could not read frame: %w", err)
	}
	frame := binary.BigEndian.Uint32(buf[:])
	if frame&maxFaultBit != 0 {
		return MAX31855Reading{}, fmt.Errorf("max31855: %s", faultText(frame))
	}
	return MAX31855Reading{
		Thermocouple: convert.Scale(convert.SignExtend(frame>>18, 14), 0.25),
		Internal:     convert.Scale(convert.SignExtend(frame>>4&0xFFF, 12), 0.0625),
	}, nil
}

// GetTemperature returns the thermocouple temperature in Celsius.
func (s *MAX31855) GetTemperature(ctx context.Context) (float32, error) {
	reading, err := s.Read(ctx)
	return reading.Thermocouple, err
}

func faultText(frame uint32) string {
	switch {
	case frame&maxFaultOC != 0:
		return "open thermocouple"
	case frame&maxFaultSCG != 0:
		return "thermocouple shorted to GND"
	case frame&maxFaultSCV != 0:
		return "thermocouple shorted to VCC"
	default:
		return "fault flagged without detail"
	}
}
