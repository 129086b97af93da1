package regio

import (
	"context"
	"fmt"
)

// MockTransport is an in-memory Transport for driver tests: it records
// every frame written and serves scripted responses in order, without
// requiring any hardware.
//
// Example usage:
//
//	m := NewMockTransport([]byte{0x4E, 0x85, 0x6B})
//	dev, _ := regio.Open(ctx, m, profile)
//	// ... exercise the driver, then assert on m.Writes
type MockTransport struct {
	Writes    [][]byte
	Selects   int
	Deselects int
	// Fail, when set, makes every transfer fail with this error.
	Fail error

	responses [][]byte
}

func NewMockTransport(responses ...[]byte) *MockTransport {
	return &MockTransport{responses: responses}
}

// Script appends another response frame to be served by the next read.
func (m *MockTransport) Script(response []byte) {
	m.responses = append(m.responses, response)
}

func (m *MockTransport) Select(ctx context.Context) error {
	m.Selects++
	return nil
}

func (m *MockTransport) Deselect(ctx context.Context) error {
	m.Deselects++
	return nil
}

func (m *MockTransport) Write(ctx context.Context, data []byte) error {
	if m.Fail != nil {
		return &TransportError{Op: "mock write", Err: m.Fail}
	}
	m.Writes = append(m.Writes, append([]byte(nil), data...))
	return nil
}

func (m *MockTransport) Read(ctx context.Context, buffer []byte) error {
	if m.Fail != nil {
		return &TransportError{Op: "mock read", Err: m.Fail}
	}
	return m.pop(buffer)
}

func (m *MockTransport) WriteRead(ctx context.Context, w, r []byte) error {
	if err := m.Write(ctx, w); err != nil {
		return err
	}
	return m.pop(r)
}

// MockBus exposes the same scripted behaviour as MockTransport through the
// I2CBus interface, for drivers constructed from a bus and an address.
type MockBus struct {
	MockTransport
	Releases int
}

func NewMockBus(responses ...[]byte) *MockBus {
	return &MockBus{MockTransport: MockTransport{responses: responses}}
}

func (b *MockBus) WriteToAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.MockTransport.Write(ctx, buffer)
}

func (b *MockBus) ReadFromAddr(ctx context.Context, address byte, buffer []byte) error {
	return b.MockTransport.Read(ctx, buffer)
}

func (b *MockBus) WriteReadFromAddr(ctx context.Context, address byte, w, r []byte) error {
	return b.MockTransport.WriteRead(ctx, w, r)
}

func (b *MockBus) Release(ctx context.Context) error {
	b.Releases++
	return nil
}

func (m *MockTransport) pop(buffer []byte) error {
	if len(m.responses) == 0 {
		return &TransportError{Op: "mock read", Err: fmt.Errorf("no scripted response left")}
	}
	next := m.responses[0]
	m.responses = m.responses[1:]
	if len(next) != len(buffer) {
		return &TransportError{Op: "mock read", Err: fmt.Errorf("scripted response is %d bytes, caller wants %d", len(next), len(buffer))}
	}
	copy(buffer, next)
	return nil
}
