//go:build rp2040 && !neopixel

package main

import (
	"machine"

	"uartled/core"
)

// newLEDDriver drives the on-board LED
func newLEDDriver() (core.GPIODriver, core.GPIOPin) {
	return NewRPGPIODriver(), core.GPIOPin(machine.LED)
}
