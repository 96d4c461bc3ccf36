package core

import "errors"

// Parity selects the UART parity mode
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// Fixed link parameters of the firmware
const (
	DefaultClockHz  = 8000000
	DefaultBaudRate = 9600

	// maxDivisor is the largest value the 12-bit baud rate register holds
	maxDivisor = 0x0FFF
)

var (
	ErrInvalidBaud      = errors.New("uart: baud rate not reachable from clock")
	ErrUnsupportedFrame = errors.New("uart: only 8N1 frames are supported")
)

// UARTConfig describes the serial link. The frame format is always
// 8 data bits, 1 stop bit, no parity, asynchronous mode.
type UARTConfig struct {
	ClockHz  uint32
	BaudRate uint32

	// DoubleSpeed halves the per-bit sample count (8 instead of 16),
	// which gives a closer divisor at low clock rates.
	DoubleSpeed bool

	DataBits uint8
	StopBits uint8
	Parity   Parity
}

// DefaultUARTConfig returns the firmware link settings: 9600 8N1, double speed.
func DefaultUARTConfig() UARTConfig {
	return UARTConfig{
		ClockHz:     DefaultClockHz,
		BaudRate:    DefaultBaudRate,
		DoubleSpeed: true,
		DataBits:    8,
		StopBits:    1,
		Parity:      ParityNone,
	}
}

// Validate checks the configuration can be programmed into the peripheral
func (c UARTConfig) Validate() error {
	if c.DataBits != 8 || c.StopBits != 1 || c.Parity != ParityNone {
		return ErrUnsupportedFrame
	}
	if c.BaudRate == 0 || c.ClockHz < c.samplesPerBit()*c.BaudRate {
		return ErrInvalidBaud
	}
	if c.ClockHz/(c.samplesPerBit()*c.BaudRate)-1 > maxDivisor {
		return ErrInvalidBaud
	}
	return nil
}

func (c UARTConfig) samplesPerBit() uint32 {
	if c.DoubleSpeed {
		return 8
	}
	return 16
}

// Divisor returns the baud rate register value: clock/(8*baud)-1 in double
// speed mode, clock/(16*baud)-1 otherwise. Call Validate first.
func (c UARTConfig) Divisor() uint16 {
	return uint16(c.ClockHz/(c.samplesPerBit()*c.BaudRate) - 1)
}

// ActualBaud returns the baud rate the divisor really produces
func (c UARTConfig) ActualBaud() uint32 {
	return c.ClockHz / (c.samplesPerBit() * (uint32(c.Divisor()) + 1))
}

// BaudError returns the relative deviation of ActualBaud from BaudRate
func (c UARTConfig) BaudError() float32 {
	return (float32(c.ActualBaud()) - float32(c.BaudRate)) / float32(c.BaudRate)
}
