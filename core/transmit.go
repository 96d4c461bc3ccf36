package core

import (
	"errors"
	"runtime"
	"time"
)

var ErrTxTimeout = errors.New("uart: transmit register not ready")

// Transmitter sends bytes by polling the UART transmit register.
type Transmitter struct {
	uart UARTDriver

	// Timeout bounds the wait for a free transmit register per byte.
	// Zero waits forever, which is what the firmware uses on real hardware.
	Timeout time.Duration
}

// NewTransmitter creates a transmitter with an unbounded wait
func NewTransmitter(uart UARTDriver) *Transmitter {
	return &Transmitter{uart: uart}
}

// WriteByte waits for the transmit register and writes c into it
func (t *Transmitter) WriteByte(c byte) error {
	if !t.uart.TxReady() {
		if err := t.waitReady(); err != nil {
			return err
		}
	}
	t.uart.WriteData(c)
	return nil
}

func (t *Transmitter) waitReady() error {
	if t.Timeout <= 0 {
		for !t.uart.TxReady() {
			runtime.Gosched()
		}
		return nil
	}

	deadline := time.Now().Add(t.Timeout)
	for !t.uart.TxReady() {
		if time.Now().After(deadline) {
			return ErrTxTimeout
		}
		runtime.Gosched()
	}
	return nil
}

// Write implements io.Writer. It stops at the first byte that cannot be sent.
func (t *Transmitter) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := t.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// SendString transmits s byte by byte
func (t *Transmitter) SendString(s string) error {
	for i := 0; i < len(s); i++ {
		if err := t.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}
