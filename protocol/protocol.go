// Package protocol defines the line-oriented ASCII protocol spoken between the
// LED firmware and a host over a 9600 8N1 serial link.
//
// The host sends a command terminated by '\r' or '\n'. The firmware answers
// every complete line with exactly one response terminated by "\r\n".
package protocol

// Version represents the uartled firmware version
const Version = "0.1.0"

// Commands accepted by the firmware. Matching is exact and case-sensitive.
const (
	CmdLightOn  = "Light on"
	CmdLightOff = "Light off"
)

// Responses emitted by the firmware, including the line ending.
const (
	RespReady    = "MCU Ready! Send commands.\r\n"
	RespLightOn  = "Light 1 on\r\n"
	RespLightOff = "Light off\r\n"

	// UnknownPrefix is followed by the raw received line and LineEnd.
	UnknownPrefix = "Unknown command: "
)

// Framing constants
const (
	// LineEnd terminates every firmware response.
	LineEnd = "\r\n"

	// Terminator is what the host appends to outgoing commands.
	// The firmware accepts '\r' or '\n' alone.
	Terminator = '\n'

	// MaxLineLength is the longest line content the firmware keeps.
	// Extra bytes before a terminator are dropped.
	MaxLineLength = 31
)

// IsTerminator reports whether b ends a line.
func IsTerminator(b byte) bool {
	return b == '\r' || b == '\n'
}

// FormatCommand returns cmd framed for the wire.
func FormatCommand(cmd string) []byte {
	out := make([]byte, 0, len(cmd)+1)
	out = append(out, cmd...)
	return append(out, Terminator)
}

// Truncate returns the part of line the firmware will actually keep.
func Truncate(line string) string {
	if len(line) > MaxLineLength {
		return line[:MaxLineLength]
	}
	return line
}
