// Package baro contains barometric pressure sensor drivers built as
// declarative profiles over the regio transaction engine.
package baro

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/regio"
)

// MS5611 I2C addresses: 0x77 with CSB low, 0x76 with CSB high. The same
// command set runs over SPI; the constructor takes a generic transport.
const (
	MS5611AddressCSBLow  = 0x77
	MS5611AddressCSBHigh = 0x76
)

// Command map (per datasheet)
const (
	ms5611CmdReset     byte = 0x1E
	ms5611CmdConvertD1 byte = 0x40 // pressure, OSR offset added
	ms5611CmdConvertD2 byte = 0x50 // temperature, OSR offset added
)

var (
	ms5611RegADC  = regio.Register{Name: "ADC", Addr: 0x00, Width: 3, Access: regio.ReadOnly}
	ms5611RegPROM = regio.Register{Name: "PROM", Addr: 0xA0, Width: 2, Access: regio.ReadOnly}
)

// reset pulls the calibration PROM into the device registers
const ms5611ResetTime = 3 * time.Millisecond

// Oversampling selects the conversion resolution. Higher ratios mean
// longer mandatory conversion waits.
type Oversampling int

const (
	OSR256 Oversampling = iota
	OSR512
	OSR1024
	OSR2048
	OSR4096
)

// conversion times per datasheet, rounded up
var ms5611ConversionTime = map[Oversampling]time.Duration{
	OSR256:  time.Millisecond,
	OSR512:  2 * time.Millisecond,
	OSR1024: 3 * time.Millisecond,
	OSR2048: 5 * time.Millisecond,
	OSR4096: 10 * time.Millisecond,
}

type MS5611Config struct {
	Oversampling Oversampling
}

type MS5611Option func(*MS5611Config)

func WithOversampling(osr Oversampling) MS5611Option {
	return func(c *MS5611Config) {
		c.Oversampling = osr
	}
}

// MS5611 represents a Measurement Specialties MS5611 barometric pressure
// sensor. Typical usage:
//
//	s, err := NewMS5611(ctx, regio.NewI2C(bus, baro.MS5611AddressCSBLow))
//	temp, press, err := s.GetTempAndPressure(ctx)
type MS5611 struct {
	dev *regio.Device
	// factory calibration, read once from PROM at construction and
	// immutable afterwards
	coeff [8]uint16
	// configuration snapshot: the conversion wait depends on it
	osr Oversampling
}

// NewMS5611 resets the device, reads the calibration PROM and validates
// its CRC-4. A checksum failure is fatal for construction: compensating
// with corrupt coefficients would produce confidently wrong readings.
func NewMS5611(ctx context.Context, t regio.Transport, opts ...MS5611Option) (*MS5611, error) {
	config := &MS5611Config{Oversampling: OSR1024}
	for _, opt := range opts {
		opt(config)
	}
	dev, err := regio.Open(ctx, t, regio.Profile{Name: "ms5611"})
	if err != nil {
		return nil, err
	}
	s := &MS5611{dev: dev, osr: config.Oversampling}
	if err := dev.Command(ctx, []byte{ms5611CmdReset}, ms5611ResetTime); err != nil {
		return nil, fmt.Errorf("ms5611: reset failed: %w", err)
	}
	for i := range s.coeff {
		reg := ms5611RegPROM
		reg.Addr += byte(2 * i)
		words, err := dev.ReadWords(ctx, reg, 1)
		if err != nil {
			return nil, fmt.Errorf("ms5611: PROM word %d read failed: %w", i, err)
		}
		s.coeff[i] = words[0]
	}
	if sum := promCRC4(s.coeff); sum != byte(s.coeff[7]&0x000F) {
		return nil, &regio.ChecksumError{Reg: "PROM", Want: sum, Got: byte(s.coeff[7] & 0x000F)}
	}
	return s, nil
}

// SetOversampling changes the resolution used for subsequent conversions.
// Readings already returned keep the scale they were taken with.
func (s *MS5611) SetOversampling(osr Oversampling) {
	s.osr = osr
}

// GetTemperature returns the temperature in Celsius.
func (s *MS5611) GetTemperature(ctx context.Context) (float32, error) {
	temp, _, err := s.GetTempAndPressure(ctx)
	return temp, err
}

// GetPressure returns the barometric pressure in millibar.
func (s *MS5611) GetPressure(ctx context.Context) (float32, error) {
	_, press, err := s.GetTempAndPressure(ctx)
	return press, err
}

// GetTempAndPressure runs both conversions and applies the calibrated,
// second-order compensated formulas. The device is one-shot: every call
// re-arms both measurements.
func (s *MS5611) GetTempAndPressure(ctx context.Context) (float32, float32, error) {
	d1, err := s.sample(ctx, ms5611CmdConvertD1)
	if err != nil {
		return 0, 0, fmt.Errorf("ms5611: pressure conversion failed: %w", err)
	}
	d2, err := s.sample(ctx, ms5611CmdConvertD2)
	if err != nil {
		return 0, 0, fmt.Errorf("ms5611: temperature conversion failed: %w", err)
	}
	temp, press := compensate(s.coeff, d1, d2)
	return float32(temp) / 100, float32(press) / 100, nil
}

// sample triggers one conversion, waits out the oversampling-dependent
// conversion time and fetches the 24-bit result.
func (s *MS5611) sample(ctx context.Context, cmd byte) (uint32, error) {
	if err := s.dev.Command(ctx, []byte{cmd + byte(2*s.osr)}, ms5611ConversionTime[s.osr]); err != nil {
		return 0, err
	}
	var buf [3]byte
	if err := s.dev.ReadReg(ctx, ms5611RegADC, buf[:]); err != nil {
		return 0, err
	}
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2]), nil
}

// compensate implements the first and second order formulas from the
// datasheet. Intermediates are 64-bit; divisions truncate toward zero.
// Below 20.00 degC the second order correction applies, below -15.00 degC
// an additional low temperature term on top of it. Results are hundredths
// of a degree Celsius and hundredths of a millibar.
func compensate(c [8]uint16, d1, d2 uint32) (temp, press int64) {
	// divisions must truncate toward zero on negative intermediates,
	// so no arithmetic shifts here
	dT := int64(d2) - int64(c[5])<<8
	temp = 2000 + dT*int64(c[6])/(1<<23)
	off := int64(c[2])<<16 + int64(c[4])*dT/(1<<7)
	sens := int64(c[1])<<15 + int64(c[3])*dT/(1<<8)
	if temp < 2000 {
		t2 := dT * dT / (1 << 31)
		off2 := 5 * (temp - 2000) * (temp - 2000) / 2
		sens2 := 5 * (temp - 2000) * (temp - 2000) / 4
		if temp < -1500 {
			off2 += 7 * (temp + 1500) * (temp + 1500)
			sens2 += 11 * (temp + 1500) * (temp + 1500) / 2
		}
		temp -= t2
		off -= off2
		sens -= sens2
	}
	press = (int64(d1)*sens/(1<<21) - off) / (1 << 15)
	return temp, press
}

// promCRC4 is the 4-bit PROM checksum from the manufacturer's application
// note AN520. The CRC nibble itself (low 4 bits of word 7) is zeroed out
// of the computation.
func promCRC4(prom [8]uint16) byte {
	var rem uint16
	crc := prom[7]
	prom[7] &= 0xFF00
	for i := 0; i < 16; i++ {
		if i%2 == 1 {
			rem ^= prom[i>>1] & 0x00FF
		} else {
			rem ^= prom[i>>1] >> 8
		}
		for bit := 8; bit > 0; bit-- {
			if rem&0x8000 != 0 {
				rem = rem<<1 ^ 0x3000
			} else {
				rem <<= 1
			}
		}
	}
	prom[7] = crc
	return byte(rem >> 12 & 0xF)
}
