//go:build atmega1284p

package main

import (
	"device/avr"
	"machine"

	"uartled/core"
)

// USARTDriver implements core.UARTDriver on USART0
type USARTDriver struct{}

// Configure enables USART0 with its receive interrupt, then programs the
// baud rate register from cfg. The machine package assumes its own CPU
// clock, so UBRR0 and U2X0 are always rewritten here.
func (USARTDriver) Configure(cfg core.UARTConfig) error {
	machine.UART0.Configure(machine.UARTConfig{BaudRate: cfg.BaudRate})

	div := cfg.Divisor()
	avr.UBRR0H.Set(uint8(div >> 8))
	avr.UBRR0L.Set(uint8(div))
	if cfg.DoubleSpeed {
		avr.UCSR0A.SetBits(avr.UCSR0A_U2X0)
	} else {
		avr.UCSR0A.ClearBits(avr.UCSR0A_U2X0)
	}

	// Asynchronous, 8 data bits, no parity, 1 stop bit
	avr.UCSR0C.Set(avr.UCSR0C_UCSZ01 | avr.UCSR0C_UCSZ00)
	avr.UCSR0B.SetBits(avr.UCSR0B_RXEN0 | avr.UCSR0B_TXEN0 | avr.UCSR0B_RXCIE0)
	return nil
}

// TxReady reports whether the data register is empty
func (USARTDriver) TxReady() bool {
	return avr.UCSR0A.HasBits(avr.UCSR0A_UDRE0)
}

// WriteData writes one byte to the data register
func (USARTDriver) WriteData(b byte) {
	avr.UDR0.Set(b)
}
