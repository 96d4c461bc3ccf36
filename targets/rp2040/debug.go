//go:build rp2040

package main

import (
	"machine"
)

var debugEnabled bool

// InitUSB initializes USB CDC, used as the debug console
func InitUSB() {
	// machine.Serial is USB CDC on RP2040
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		return
	}
	debugEnabled = true
}

// DebugPrintln writes a string to the debug console with newline
func DebugPrintln(s string) {
	if !debugEnabled {
		return
	}
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}
