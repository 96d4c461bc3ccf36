package core

import (
	"sync/atomic"

	"uartled/protocol"
)

// DispatcherState is the main loop state
type DispatcherState uint8

const (
	// StateIdle waits for the receiver to flag a line
	StateIdle DispatcherState = iota
	// StateProcessing runs one compare-and-respond cycle
	StateProcessing
)

func (s DispatcherState) String() string {
	if s == StateProcessing {
		return "processing"
	}
	return "idle"
}

// Dispatcher takes complete lines from the receiver, matches them against the
// registered commands and sends the reply.
type Dispatcher struct {
	rx       *LineReceiver
	tx       *Transmitter
	commands *CommandRegistry

	line Line

	// Read from other goroutines on the host
	state     atomic.Uint32
	processed atomic.Uint32
	unknown   atomic.Uint32
}

// NewDispatcher wires a dispatcher to its receiver, transmitter and commands
func NewDispatcher(rx *LineReceiver, tx *Transmitter, commands *CommandRegistry) *Dispatcher {
	return &Dispatcher{
		rx:       rx,
		tx:       tx,
		commands: commands,
	}
}

// Poll runs one main loop iteration. It reports whether a line was processed.
// An error means the reply or the command action failed; the dispatcher is
// back in StateIdle either way.
func (d *Dispatcher) Poll() (bool, error) {
	// Taking the line clears the ready flag before dispatch
	if !d.rx.Take(&d.line) {
		return false, nil
	}

	d.state.Store(uint32(StateProcessing))
	err := d.dispatch()
	d.processed.Add(1)

	d.line.Clear()
	d.state.Store(uint32(StateIdle))
	return true, err
}

func (d *Dispatcher) dispatch() error {
	if cmd, ok := d.commands.Lookup(&d.line); ok {
		return cmd.Handler(&d.line)
	}

	d.unknown.Add(1)
	if err := d.tx.SendString(protocol.UnknownPrefix); err != nil {
		return err
	}
	if _, err := d.tx.Write(d.line.Bytes()); err != nil {
		return err
	}
	return d.tx.SendString(protocol.LineEnd)
}

// State returns the current main loop state
func (d *Dispatcher) State() DispatcherState {
	return DispatcherState(d.state.Load())
}

// Processed returns the number of lines handled so far
func (d *Dispatcher) Processed() uint32 {
	return d.processed.Load()
}

// Unknown returns the number of lines that matched no command
func (d *Dispatcher) Unknown() uint32 {
	return d.unknown.Load()
}
