// Package eeprom contains serial EEPROM drivers built as declarative
// profiles over the regio transaction engine.
package eeprom

import (
	"context"
	"fmt"
	"time"

	"github.com/mklimuk/regio"
)

// Instruction set of the Microchip 25AA1024 (datasheet Table 3-1)
const (
	eeCmdRead  = 0x03
	eeCmdWrite = 0x02
	eeCmdWREN  = 0x06

	eePageSize = 256
	eeCapacity = 131072 // 1 Mbit
)

// RDSR behaves like a one-byte register pointer, so the status register
// fits the engine's register model even though the rest of the command
// set carries 24-bit addresses.
var eeRegStatus = regio.Register{Name: "STATUS", Addr: 0x05, Width: 1, Access: regio.ReadOnly}

const eeStatusWIP = 0x01

// internal write cycle takes up to 6ms per page
const eeWritePoll = 500 * time.Microsecond

// EEPROM25AA1024 represents a Microchip 25AA1024 1-Mbit SPI EEPROM.
// Writes are paged automatically; each page write blocks until the
// device reports the internal write cycle complete.
type EEPROM25AA1024 struct {
	dev *regio.Device
}

func New25AA1024(ctx context.Context, t regio.Transport) (*EEPROM25AA1024, error) {
	dev, err := regio.Open(ctx, t, regio.Profile{Name: "25aa1024"})
	if err != nil {
		return nil, err
	}
	return &EEPROM25AA1024{dev: dev}, nil
}

// Read returns length bytes starting at address.
func (e *EEPROM25AA1024) Read(ctx context.Context, address uint32, length int) ([]byte, error) {
	if address+uint32(length) > eeCapacity {
		return nil, fmt.Errorf("25aa1024: read of %d bytes at 0x%05x out of range", length, address)
	}
	buf := make([]byte, length)
	if err := e.dev.Exchange(ctx, readHeader(eeCmdRead, address), buf); err != nil {
		return nil, fmt.Errorf("25aa1024: read at 0x%05x failed: %w", address, err)
	}
	return buf, nil
}

// Write stores data starting at address, splitting it into page-aligned
// chunks since a single WRITE may not cross a 256-byte page boundary.
func (e *EEPROM25AA1024) Write(ctx context.Context, address uint32, data []byte) error {
	if address+uint32(len(data)) > eeCapacity {
		return fmt.Errorf("25aa1024: write of %d bytes at 0x%05x out of range", len(data), address)
	}
	for len(data) > 0 {
		chunk := data
		if space := eePageSize - int(address%eePageSize); len(chunk) > space {
			chunk = chunk[:space]
		}
		if err := e.pageWrite(ctx, address, chunk); err != nil {
			return fmt.Errorf("25aa1024: page write at 0x%05x failed: %w", address, err)
		}
		address += uint32(len(chunk))
		data = data[len(chunk):]
	}
	return nil
}

func (e *EEPROM25AA1024) pageWrite(ctx context.Context, address uint32, data []byte) error {
	// the write-enable latch resets after every completed write
	if err := e.dev.Command(ctx, []byte{eeCmdWREN}, 0); err != nil {
		return fmt.Errorf("write enable: %w", err)
	}
	if err := e.dev.Command(ctx, append(readHeader(eeCmdWrite, address), data...), 0); err != nil {
		return err
	}
	return e.dev.PollReady(ctx, eeRegStatus, eeStatusWIP, false, eeWritePoll)
}

// readHeader builds an opcode followed by a 24-bit big-endian address.
// A17..A23 are don't-care bits on this density.
func readHeader(cmd byte, address uint32) []byte {
	return []byte{cmd, byte(address >> 16), byte(address >> 8), byte(address)}
}
