package core

import (
	"context"
	"sync/atomic"
	"time"

	"uartled/protocol"
)

// FirmwareConfig holds the board specific settings
type FirmwareConfig struct {
	// LEDPin is the digital output driving the LED
	LEDPin GPIOPin

	UART UARTConfig

	// TxTimeout bounds each transmit register wait; zero waits forever
	TxTimeout time.Duration
}

// DefaultFirmwareConfig returns the settings of the reference board
func DefaultFirmwareConfig(led GPIOPin) FirmwareConfig {
	return FirmwareConfig{
		LEDPin: led,
		UART:   DefaultUARTConfig(),
	}
}

// Stats is a snapshot of the firmware counters
type Stats struct {
	Rx        RxStats
	Processed uint32
	Unknown   uint32
}

// Firmware is the single context shared by the receive interrupt path and
// the main loop. Nothing in it is global, so tests can run many instances.
type Firmware struct {
	gpio GPIODriver
	uart UARTDriver
	cfg  FirmwareConfig

	rx         *LineReceiver
	tx         *Transmitter
	commands   *CommandRegistry
	dispatcher *Dispatcher

	ledOn atomic.Bool
}

// NewFirmware builds the firmware around the platform drivers
func NewFirmware(gpio GPIODriver, uart UARTDriver, cfg FirmwareConfig) *Firmware {
	f := &Firmware{
		gpio:     gpio,
		uart:     uart,
		cfg:      cfg,
		rx:       NewLineReceiver(),
		tx:       NewTransmitter(uart),
		commands: NewCommandRegistry(),
	}
	f.tx.Timeout = cfg.TxTimeout

	f.commands.Register(protocol.CmdLightOn, f.lightOn)
	f.commands.Register(protocol.CmdLightOff, f.lightOff)

	f.dispatcher = NewDispatcher(f.rx, f.tx, f.commands)
	return f
}

// Init performs the one-time peripheral setup. Call it before the receive
// interrupt is enabled.
func (f *Firmware) Init() error {
	if err := f.gpio.ConfigureOutput(f.cfg.LEDPin); err != nil {
		return err
	}
	if err := f.setLED(false); err != nil {
		return err
	}

	if err := f.cfg.UART.Validate(); err != nil {
		return err
	}
	if err := f.uart.Configure(f.cfg.UART); err != nil {
		return err
	}

	DebugPrintln("uart: baud=" + utoa(f.cfg.UART.BaudRate) +
		" divisor=" + utoa(uint32(f.cfg.UART.Divisor())) +
		" actual=" + utoa(f.cfg.UART.ActualBaud()))
	return nil
}

// Start announces the firmware on the serial link
func (f *Firmware) Start() error {
	return f.tx.SendString(protocol.RespReady)
}

// Receive is the receive interrupt entry point: one call per received byte.
func (f *Firmware) Receive(b byte) {
	f.rx.Receive(b)
}

// Poll runs one main loop iteration
func (f *Firmware) Poll() (bool, error) {
	return f.dispatcher.Poll()
}

// Run polls until ctx is cancelled, sleeping on the receiver between lines.
// Dispatch errors are reported on the debug writer and do not stop the loop.
func (f *Firmware) Run(ctx context.Context) error {
	for {
		for {
			processed, err := f.dispatcher.Poll()
			if err != nil {
				DebugPrintln("dispatch: " + err.Error())
			}
			if !processed {
				break
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.rx.Notify():
		}
	}
}

func (f *Firmware) lightOn(*Line) error {
	if err := f.setLED(true); err != nil {
		return err
	}
	return f.tx.SendString(protocol.RespLightOn)
}

func (f *Firmware) lightOff(*Line) error {
	if err := f.setLED(false); err != nil {
		return err
	}
	return f.tx.SendString(protocol.RespLightOff)
}

func (f *Firmware) setLED(on bool) error {
	if err := f.gpio.SetPin(f.cfg.LEDPin, on); err != nil {
		return err
	}
	f.ledOn.Store(on)
	return nil
}

// LED returns the last state written to the LED pin
func (f *Firmware) LED() bool {
	return f.ledOn.Load()
}

// State returns the dispatcher state
func (f *Firmware) State() DispatcherState {
	return f.dispatcher.State()
}

// Commands returns the command registry
func (f *Firmware) Commands() *CommandRegistry {
	return f.commands
}

// Transmitter returns the transmit routine, e.g. for extra output
func (f *Firmware) Transmitter() *Transmitter {
	return f.tx
}

// Stats returns a snapshot of the firmware counters
func (f *Firmware) Stats() Stats {
	return Stats{
		Rx:        f.rx.Stats(),
		Processed: f.dispatcher.Processed(),
		Unknown:   f.dispatcher.Unknown(),
	}
}
