//go:build atmega1284p

// Firmware for the reference board: ATmega1284P at 8 MHz, command link on
// USART0, LED on PA0.
package main

import (
	"machine"

	"uartled/core"
)

const ledPin = machine.PA0

func main() {
	uart := &USARTDriver{}
	fw := core.NewFirmware(&PortGPIODriver{}, uart, core.DefaultFirmwareConfig(core.GPIOPin(ledPin)))

	if err := fw.Init(); err != nil {
		// No console to report on; leave the LED lit as a fault signal
		ledPin.High()
		for {
		}
	}
	if err := fw.Start(); err != nil {
		core.DebugPrintln("start: " + err.Error())
	}

	// The machine package RX interrupt fills the ring buffer; the main loop
	// hands bytes to the firmware and dispatches completed lines.
	for {
		for machine.UART0.Buffered() > 0 {
			b, err := machine.UART0.ReadByte()
			if err != nil {
				break
			}
			fw.Receive(b)
		}
		if _, err := fw.Poll(); err != nil {
			core.DebugPrintln("dispatch: " + err.Error())
		}
	}
}
