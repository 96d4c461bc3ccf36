package serial

import (
	"io"
	"sync"
)

// MockPort is an in-memory Port for tests. Bytes written by the code under
// test are collected in Written; Feed makes bytes available to Read.
type MockPort struct {
	mu      sync.Mutex
	cond    *sync.Cond
	rx      []byte
	written []byte
	closed  bool
	flushed int

	// WriteErr, when set, is returned from every Write
	WriteErr error
	// OnWrite, when set, is called with each written chunk (outside the lock)
	OnWrite func(p []byte)
}

// NewMockPort creates an open mock port
func NewMockPort() *MockPort {
	m := &MockPort{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Feed queues data to be returned by Read
func (m *MockPort) Feed(p []byte) {
	m.mu.Lock()
	m.rx = append(m.rx, p...)
	m.mu.Unlock()
	m.cond.Broadcast()
}

// Read blocks until data is fed or the port is closed
func (m *MockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.rx) == 0 && !m.closed {
		m.cond.Wait()
	}
	if m.closed {
		return 0, io.EOF
	}
	n := copy(p, m.rx)
	m.rx = m.rx[n:]
	return n, nil
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return 0, io.ErrClosedPipe
	}
	if m.WriteErr != nil {
		err := m.WriteErr
		m.mu.Unlock()
		return 0, err
	}
	m.written = append(m.written, p...)
	onWrite := m.OnWrite
	m.mu.Unlock()

	if onWrite != nil {
		onWrite(append([]byte(nil), p...))
	}
	return len(p), nil
}

// Written returns a copy of everything written so far
func (m *MockPort) Written() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.written...)
}

// Flush drops queued read data
func (m *MockPort) Flush() error {
	m.mu.Lock()
	m.rx = nil
	m.flushed++
	m.mu.Unlock()
	return nil
}

// Close unblocks pending reads
func (m *MockPort) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cond.Broadcast()
	return nil
}

// Closed reports whether Close was called
func (m *MockPort) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
