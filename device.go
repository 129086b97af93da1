package regio

import (
	"context"
	"fmt"
	"time"
)

// Device is the transaction engine: it turns logical register operations
// into transport calls according to the device's Profile. All calls are
// synchronous and blocking, including settle and conversion waits.
// Transactions against one Device are strictly sequential; serializing
// sibling devices on a shared bus is the caller's business.
type Device struct {
	transport Transport
	profile   Profile
}

// Open binds a transport to a device profile. When the profile declares an
// identity register, it is read once and compared against the expected
// constant; a mismatch fails construction with *IdentityError since no
// valid reading can follow (wrong chip or a wiring fault).
func Open(ctx context.Context, t Transport, p Profile) (*Device, error) {
	d := &Device{transport: t, profile: p}
	if p.Identity != nil {
		got, err := d.ReadByte(ctx, p.Identity.Reg)
		if err != nil {
			return nil, fmt.Errorf("%s: identity read failed: %w", p.Name, err)
		}
		if m := p.Identity.Mask; m != 0 {
			got &= m
		}
		if got != p.Identity.Want {
			return nil, &IdentityError{Device: p.Name, Want: p.Identity.Want, Got: got}
		}
	}
	return d, nil
}

// Profile returns the device profile the engine was opened with.
func (d *Device) Profile() Profile { return d.profile }

// ReadReg fills buffer from a register, constructing the transaction per
// the profile's addressing idiom.
func (d *Device) ReadReg(ctx context.Context, reg Register, buffer []byte) error {
	if reg.Access == WriteOnly {
		return &ConfigError{Field: reg.Name, Value: reg.Addr}
	}
	switch d.profile.Addressing {
	case AddrReadBit:
		return d.transfer(ctx, []byte{reg.Addr | d.profile.readBit()}, buffer)
	case AddrOpcode:
		return d.transfer(ctx, nil, buffer)
	default:
		if d.profile.SplitPointer {
			if err := d.transfer(ctx, []byte{reg.Addr}, nil); err != nil {
				return err
			}
			return d.transfer(ctx, nil, buffer)
		}
		return d.transfer(ctx, []byte{reg.Addr}, buffer)
	}
}

// ReadByte reads a single-byte register.
func (d *Device) ReadByte(ctx context.Context, reg Register) (byte, error) {
	var buf [1]byte
	err := d.ReadReg(ctx, reg, buf[:])
	return buf[0], err
}

// WriteReg writes payload bytes to a register.
func (d *Device) WriteReg(ctx context.Context, reg Register, data ...byte) error {
	if reg.Access == ReadOnly {
		return &ConfigError{Field: reg.Name, Value: reg.Addr}
	}
	addr := reg.Addr
	if d.profile.Addressing == AddrReadBit {
		addr &^= d.profile.readBit()
	}
	return d.transfer(ctx, append([]byte{addr}, data...), nil)
}

// Command issues a raw opcode sequence with no register prefix, then
// blocks for the device's mandated settle time. Conversion and mode-change
// waits vary with the configured resolution, so the duration is always a
// parameter, never a constant of the engine.
func (d *Device) Command(ctx context.Context, opcode []byte, settle time.Duration) error {
	if err := d.transfer(ctx, opcode, nil); err != nil {
		return err
	}
	if settle > 0 {
		time.Sleep(settle)
	}
	return nil
}

// Exchange writes a raw opcode sequence and reads the response within the
// same transaction window: one chip-select assertion on SPI, a repeated
// start on buses that support it. Used by devices whose commands are wider
// than a one-byte register pointer.
func (d *Device) Exchange(ctx context.Context, opcode []byte, response []byte) error {
	return d.transfer(ctx, opcode, response)
}

// Update performs a read-modify-write on a field: the register's current
// value is read, bits outside the field's mask are preserved, and the
// combined byte is written back.
func (d *Device) Update(ctx context.Context, f Field, val byte) error {
	old, err := d.ReadByte(ctx, f.Reg)
	if err != nil {
		return err
	}
	merged, err := f.Put(old, val)
	if err != nil {
		return err
	}
	return d.WriteReg(ctx, f.Reg, merged)
}

// ReadWords reads n 16-bit payload words from a register in the profile's
// byte order. When the profile declares a word checksum, every word is
// followed on the wire by its CRC byte; a mismatch surfaces as
// *ChecksumError and the reading is discarded, never defaulted to zero.
func (d *Device) ReadWords(ctx context.Context, reg Register, n int) ([]uint16, error) {
	stride := 2
	if d.profile.WordCRC != nil {
		stride = 3
	}
	buf := make([]byte, n*stride)
	if err := d.ReadReg(ctx, reg, buf); err != nil {
		return nil, err
	}
	words := make([]uint16, n)
	for i := 0; i < n; i++ {
		chunk := buf[i*stride:]
		if crc := d.profile.WordCRC; crc != nil {
			if sum := crc.Sum(chunk[:2]); sum != chunk[2] {
				return nil, &ChecksumError{Reg: reg.Name, Want: sum, Got: chunk[2]}
			}
		}
		words[i] = d.profile.order().Uint16(chunk[:2])
	}
	return words, nil
}

// PollReady polls a status register until the masked bits reach the wanted
// state, sleeping interval between attempts. The loop has no iteration
// cap; an unresponsive device blocks until the context expires, which is
// the caller's escape hatch.
func (d *Device) PollReady(ctx context.Context, reg Register, mask byte, set bool, interval time.Duration) error {
	for {
		status, err := d.ReadByte(ctx, reg)
		if err != nil {
			return err
		}
		if (status&mask != 0) == set {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: wait for ready: %w", d.profile.Name, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// transfer brackets one transaction phase between chip-select assert and
// deassert. The bracketing is a no-op on I2C transports where addressing
// is in-band.
func (d *Device) transfer(ctx context.Context, w, r []byte) error {
	if err := d.transport.Select(ctx); err != nil {
		return err
	}
	var err error
	switch {
	case len(r) == 0:
		err = d.transport.Write(ctx, w)
	case len(w) == 0:
		err = d.transport.Read(ctx, r)
	default:
		err = d.transport.WriteRead(ctx, w, r)
	}
	if derr := d.transport.Deselect(ctx); err == nil {
		err = derr
	}
	return err
}
