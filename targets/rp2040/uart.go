//go:build rp2040

package main

import (
	"device/rp"
	"machine"

	"uartled/core"
)

// RPUARTDriver implements core.UARTDriver on a PL011 UART. Receive stays on
// the machine package interrupt handler; transmit polls the FIFO flags.
type RPUARTDriver struct {
	uart   *machine.UART
	tx, rx machine.Pin
}

// NewRPUARTDriver creates a driver for uart on the given pins
func NewRPUARTDriver(uart *machine.UART, tx, rx machine.Pin) *RPUARTDriver {
	return &RPUARTDriver{uart: uart, tx: tx, rx: rx}
}

// Configure implements core.UARTDriver
func (d *RPUARTDriver) Configure(cfg core.UARTConfig) error {
	if err := d.uart.Configure(machine.UARTConfig{
		BaudRate: cfg.BaudRate,
		TX:       d.tx,
		RX:       d.rx,
	}); err != nil {
		return err
	}
	return d.uart.SetFormat(cfg.DataBits, cfg.StopBits, machine.ParityNone)
}

// TxReady reports whether the transmit FIFO has room
func (d *RPUARTDriver) TxReady() bool {
	return !d.uart.Bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF)
}

// WriteData writes one byte to the data register
func (d *RPUARTDriver) WriteData(b byte) {
	d.uart.Bus.UARTDR.Set(uint32(b))
}
