package regio

import "math/bits"

// Flag is a single-bit option inside a register byte.
type Flag struct {
	Name string
	Mask byte
}

// EncodeFlags folds a set of flags into one register byte.
func EncodeFlags(flags ...Flag) byte {
	var b byte
	for _, f := range flags {
		b |= f.Mask
	}
	return b
}

// DecodeFlags returns the subset of known flags set in b.
func DecodeFlags(b byte, known []Flag) []Flag {
	var set []Flag
	for _, f := range known {
		if b&f.Mask == f.Mask {
			set = append(set, f)
		}
	}
	return set
}

// Field is a contiguous multi-bit field inside a register. Mask marks the
// occupied bits; values passed to Put are right-aligned.
type Field struct {
	Name string
	Reg  Register
	Mask byte
}

func (f Field) shift() uint {
	return uint(bits.TrailingZeros8(f.Mask))
}

// Max returns the largest right-aligned value the field can hold.
func (f Field) Max() byte {
	return f.Mask >> f.shift()
}

// Put merges val into old without disturbing bits outside the field's
// mask. Values wider than the field are rejected instead of silently
// truncated: overlapping neighbour fields through truncation is exactly
// the class of bug this codec exists to prevent.
func (f Field) Put(old, val byte) (byte, error) {
	if val > f.Max() {
		return old, &ConfigError{Field: f.Name, Value: val}
	}
	return old&^f.Mask | val<<f.shift()&f.Mask, nil
}

// Get extracts the field from a register byte, right-aligned.
func (f Field) Get(b byte) byte {
	return b & f.Mask >> f.shift()
}
