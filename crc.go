package regio

import "github.com/sigurn/crc8"

// CRC8 is one device family's frame checksum. Each family specifies its
// own polynomial and start value (Sensirion parts use 0x31/0xFF, others
// run the same polynomial from zero).
type CRC8 struct {
	table *crc8.Table
}

func NewCRC8(poly, init byte) *CRC8 {
	return &CRC8{table: crc8.MakeTable(crc8.Params{Poly: poly, Init: init})}
}

// Sensirion CRC-8: polynomial 0x31, init 0xFF, no reflection.
func SensirionCRC() *CRC8 { return NewCRC8(0x31, 0xFF) }

func (c *CRC8) Sum(data []byte) byte {
	return crc8.Checksum(data, c.table)
}

func (c *CRC8) Check(data []byte, expected byte) bool {
	return c.Sum(data) == expected
}
