//go:build atmega1284p

package main

import (
	"errors"
	"machine"

	"uartled/core"
)

// Ports A-D, eight pins each
const numPins = 32

var errInvalidPin = errors.New("gpio: pin out of range")

// PortGPIODriver implements core.GPIODriver on the AVR I/O ports
type PortGPIODriver struct {
	outputs uint32
}

// ConfigureOutput configures a pin as a digital output
func (d *PortGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if pin >= numPins {
		return errInvalidPin
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.outputs |= 1 << pin
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *PortGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	if pin >= numPins || d.outputs&(1<<pin) == 0 {
		return errInvalidPin
	}
	machine.Pin(pin).Set(value)
	return nil
}

// GetPin reads back the pin state
func (d *PortGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	if pin >= numPins {
		return false, errInvalidPin
	}
	return machine.Pin(pin).Get(), nil
}
