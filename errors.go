package regio

import "fmt"

// TransportError wraps a bus-level failure (NACK, timeout, arbitration
// loss). Callers may not introspect the cause beyond unwrapping; the
// framework never retries on it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ChecksumError means the bytes arrived but failed CRC validation. It is
// distinct from a transport failure and is never silently replaced by a
// zero reading.
type ChecksumError struct {
	Reg  string
	Want byte
	Got  byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch on %s: computed %#02x, frame carries %#02x", e.Reg, e.Want, e.Got)
}

// ConfigError reports a field value outside its valid range or an access
// violation. It is raised before any bus traffic is issued.
type ConfigError struct {
	Field string
	Value byte
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid value %#02x for %s", e.Value, e.Field)
}

// IdentityError means the device identity register did not match the
// expected constant at initialization. No valid reading can follow, so
// construction fails, but the caller decides what to do next.
type IdentityError struct {
	Device string
	Want   byte
	Got    byte
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("%s: identity register mismatch: got %#02x, want %#02x", e.Device, e.Got, e.Want)
}
