package core

// UARTDriver is the abstract UART interface used for peripheral setup and
// the transmit routine. Reception is interrupt driven: the platform receive
// path hands each byte to Firmware.Receive, so it is not part of this interface.
type UARTDriver interface {
	// Configure programs baud rate, frame format and enables the receiver,
	// transmitter and receive-complete interrupt.
	Configure(cfg UARTConfig) error

	// TxReady reports whether the transmit data register can take a byte
	TxReady() bool

	// WriteData writes one byte into the transmit data register.
	// Only valid after TxReady returned true.
	WriteData(b byte)
}
