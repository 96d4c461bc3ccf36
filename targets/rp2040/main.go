//go:build rp2040

package main

import (
	"context"
	"machine"
	"time"

	"uartled/core"
)

// Command link on UART0, GP0 (TX) and GP1 (RX)
var (
	linkUART = machine.UART0
	linkTX   = machine.GPIO0
	linkRX   = machine.GPIO1
)

func main() {
	// Debug console on USB CDC, separate from the command link
	InitUSB()
	core.SetDebugWriter(DebugPrintln)
	core.SetDebugEnabled(true)

	uart := NewRPUARTDriver(linkUART, linkTX, linkRX)
	led, ledPin := newLEDDriver()

	cfg := core.DefaultFirmwareConfig(ledPin)
	// The RP2040 baud generator is fractional; the divisor is only reported
	cfg.UART.ClockHz = machine.CPUFrequency()
	cfg.UART.DoubleSpeed = false

	fw := core.NewFirmware(led, uart, cfg)
	if err := fw.Init(); err != nil {
		halt("init: " + err.Error())
	}

	go rxLoop(fw)

	if err := fw.Start(); err != nil {
		DebugPrintln("start: " + err.Error())
	}
	DebugPrintln("=== uartled ready ===")

	fw.Run(context.Background())
}

// rxLoop moves bytes from the UART interrupt ring buffer into the firmware
func rxLoop(fw *core.Firmware) {
	for {
		for linkUART.Buffered() > 0 {
			b, err := linkUART.ReadByte()
			if err != nil {
				break
			}
			fw.Receive(b)
		}
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}

// halt reports a fatal error forever on the debug console
func halt(msg string) {
	for {
		DebugPrintln(msg)
		time.Sleep(time.Second)
	}
}
