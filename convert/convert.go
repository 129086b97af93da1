// Package convert holds the pure raw-sample-to-physical-value math shared
// by the drivers: two's-complement sign extension of narrow fields and
// linear scaling. No I/O happens here.
package convert

// SignExtend reconstructs the signed value of a field bits wide packed
// into a larger word. If the field's sign bit is set, the field's
// power-of-two width is subtracted before any scaling, not after.
func SignExtend(raw uint32, bits uint) int32 {
	if raw&(1<<(bits-1)) != 0 {
		return int32(raw) - int32(1)<<bits
	}
	return int32(raw)
}

// Pack is the inverse of SignExtend: the low bits of a signed value as an
// unsigned field of the given width.
func Pack(value int32, bits uint) uint32 {
	return uint32(value) & (1<<bits - 1)
}

// Scale applies a per-LSB factor to a sign-extended raw value.
func Scale(raw int32, lsb float32) float32 {
	return float32(raw) * lsb
}
