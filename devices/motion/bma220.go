// Package motion contains accelerometer drivers built as declarative
// profiles over the regio transaction engine.
package motion

import (
	"context"
	"fmt"

	"github.com/mklimuk/regio"
)

const BMA220Address = 0x0A

// Register map (per datasheet)
var (
	bmaRegSlopeSettings = regio.Register{Name: "SLOPE_SETTINGS", Addr: 0x12, Width: 1}
	bmaRegInterrupts    = regio.Register{Name: "INTERRUPTS", Addr: 0x18, Width: 1, Access: regio.ReadOnly}
	bmaRegSlopeDet      = regio.Register{Name: "SLOPE_DETECT", Addr: 0x1A, Width: 1}
	bmaRegLatch         = regio.Register{Name: "LATCH", Addr: 0x1C, Width: 1}
	bmaRegRange         = regio.Register{Name: "RANGE", Addr: 0x22, Width: 1}
	bmaRegWatchdog      = regio.Register{Name: "WATCHDOG", Addr: 0x2E, Width: 1}
)

var (
	bmaFieldRange    = regio.Field{Name: "range", Reg: bmaRegRange, Mask: 0x03}
	bmaFieldLatch    = regio.Field{Name: "interrupt latch", Reg: bmaRegLatch, Mask: 0x70}
	bmaFieldReset    = regio.Field{Name: "interrupt reset", Reg: bmaRegLatch, Mask: 0x80}
	bmaFieldSlopeTh  = regio.Field{Name: "slope_th", Reg: bmaRegSlopeSettings, Mask: 0x3C}
	bmaFieldSlopeDur = regio.Field{Name: "slope_dur", Reg: bmaRegSlopeSettings, Mask: 0x03}
)

var bmaSlopeAxes = []regio.Flag{
	{Name: "en_slope_x", Mask: 0x20},
	{Name: "en_slope_y", Mask: 0x10},
	{Name: "en_slope_z", Mask: 0x08},
}

// latch value 111 keeps the interrupt asserted until explicitly reset
const bmaLatchPermanent = 0b111

// BMA220 represents a Bosch BMA220 accelerometer used as a motion
// detector via its slope interrupt.
type BMA220 struct {
	dev *regio.Device
}

func NewBMA220(ctx context.Context, bus regio.I2CBus) (*BMA220, error) {
	dev, err := regio.Open(ctx, regio.NewI2C(bus, BMA220Address), regio.Profile{Name: "bma220"})
	if err != nil {
		return nil, err
	}
	return &BMA220{dev: dev}, nil
}

// InitMotionDetection configures slope detection on all three axes with a
// permanently latched interrupt. Shared registers are updated field by
// field so unrelated configuration survives.
func (b *BMA220) InitMotionDetection(ctx context.Context) error {
	if err := b.dev.Update(ctx, bmaFieldRange, 0x03); err != nil {
		return fmt.Errorf("could not set detection sensitivity: %w", err)
	}
	if err := b.dev.Update(ctx, bmaFieldLatch, bmaLatchPermanent); err != nil {
		return fmt.Errorf("could not set interrupt settings: %w", err)
	}
	if err := b.dev.WriteReg(ctx, bmaRegSlopeDet, regio.EncodeFlags(bmaSlopeAxes...)); err != nil {
		return fmt.Errorf("could not enable slope detection: %w", err)
	}
	if err := b.dev.Update(ctx, bmaFieldSlopeTh, 0b0001); err != nil {
		return fmt.Errorf("could not set slope detection threshold: %w", err)
	}
	if err := b.dev.Update(ctx, bmaFieldSlopeDur, 0b01); err != nil {
		return fmt.Errorf("could not set slope detection duration: %w", err)
	}
	if err := b.dev.WriteReg(ctx, bmaRegWatchdog, 0x06); err != nil {
		return fmt.Errorf("could not set watchdog settings: %w", err)
	}
	return nil
}

// CheckMotionInterrupt reports whether the slope interrupt has fired
// since the last reset.
func (b *BMA220) CheckMotionInterrupt(ctx context.Context) (bool, error) {
	status, err := b.dev.ReadByte(ctx, bmaRegInterrupts)
	if err != nil {
		return false, fmt.Errorf("could not read interrupt register: %w", err)
	}
	// slope detection is on bit 0
	return status&0x01 != 0, nil
}

// ResetMotionInterrupt clears the latched interrupt while keeping the
// latch configuration.
func (b *BMA220) ResetMotionInterrupt(ctx context.Context) error {
	if err := b.dev.Update(ctx, bmaFieldReset, 1); err != nil {
		return fmt.Errorf("could not reset interrupt: %w", err)
	}
	return nil
}
