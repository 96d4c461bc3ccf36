//go:build rp2040 && neopixel

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"uartled/core"
)

// Boards like the RP2040-Zero carry a WS2812 instead of a plain LED
const neopixelPin = machine.GPIO16

var neopixelOn = color.RGBA{R: 0x40, G: 0x40, B: 0x40, A: 0xff}

// NeoPixelLED drives a single WS2812 pixel as an on/off output
type NeoPixelLED struct {
	dev  ws2812.Device
	pin  core.GPIOPin
	on   bool
	init bool
}

func newLEDDriver() (core.GPIODriver, core.GPIOPin) {
	return &NeoPixelLED{pin: core.GPIOPin(neopixelPin)}, core.GPIOPin(neopixelPin)
}

// ConfigureOutput implements core.GPIODriver
func (n *NeoPixelLED) ConfigureOutput(pin core.GPIOPin) error {
	if pin != n.pin {
		return errInvalidPin
	}
	if n.init {
		return nil
	}
	neopixelPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	n.dev = ws2812.New(neopixelPin)
	n.init = true
	return n.write(false)
}

// SetPin implements core.GPIODriver
func (n *NeoPixelLED) SetPin(pin core.GPIOPin, value bool) error {
	if pin != n.pin || !n.init {
		return errPinNotOutput
	}
	return n.write(value)
}

// GetPin implements core.GPIODriver
func (n *NeoPixelLED) GetPin(pin core.GPIOPin) (bool, error) {
	if pin != n.pin || !n.init {
		return false, errPinNotOutput
	}
	return n.on, nil
}

func (n *NeoPixelLED) write(on bool) error {
	c := color.RGBA{}
	if on {
		c = neopixelOn
	}
	if err := n.dev.WriteColors([]color.RGBA{c}); err != nil {
		return err
	}
	n.on = on
	return nil
}
