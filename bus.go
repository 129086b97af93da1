package regio

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("bus engine is busy (command not completed)")

type BusReader interface {
	Read(ctx context.Context, buffer []byte) error
}

type BusWriter interface {
	Write(ctx context.Context, buffer []byte) error
}

type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

// AddressableWriterReader is implemented by buses that can issue a write
// followed by a read as a single bus transaction (repeated start on I2C).
// Transports fall back to separate write and read calls when unavailable.
type AddressableWriterReader interface {
	WriteReadFromAddr(ctx context.Context, address byte, w, r []byte) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}

// SPIConn is a single SPI connection. Tx writes len(w) bytes and then reads
// len(r) bytes within one transaction; either slice may be nil.
// Chip-select handling is the caller's business (see Transport).
type SPIConn interface {
	Tx(ctx context.Context, w, r []byte) error
}

// DigitalPin abstracts a single output line (chip-select, reset).
type DigitalPin interface {
	Out(high bool) error
}
