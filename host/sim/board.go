// Package sim runs the LED firmware on the host. A reader goroutine plays the
// role of the receive interrupt and feeds every byte to the firmware.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/golang/glog"

	"uartled/core"
	"uartled/host/serial"
)

// Board is a simulated MCU attached to a byte stream
type Board struct {
	rw   io.ReadWriter
	cfg  Config
	uart *UART
	gpio *GPIO
	fw   *core.Firmware
}

// NewBoard creates a board that receives from and transmits to rw
func NewBoard(rw io.ReadWriter, cfg Config) *Board {
	b := &Board{
		rw:   rw,
		cfg:  cfg,
		uart: NewUART(rw),
		gpio: NewGPIO(),
	}
	b.gpio.OnChange = func(pin core.GPIOPin, value bool) {
		glog.Infof("LED pin %d -> %v", pin, value)
	}

	fwCfg := core.DefaultFirmwareConfig(cfg.LEDPin)
	fwCfg.TxTimeout = cfg.TxTimeout
	b.fw = core.NewFirmware(b.gpio, b.uart, fwCfg)
	return b
}

// Firmware returns the firmware instance running on the board
func (b *Board) Firmware() *core.Firmware {
	return b.fw
}

// LED returns the level of the LED pin
func (b *Board) LED() bool {
	v, _ := b.gpio.GetPin(b.cfg.LEDPin)
	return v
}

// Run initializes the firmware, sends the banner and serves commands until
// ctx is cancelled or the stream fails.
func (b *Board) Run(ctx context.Context) error {
	if err := b.fw.Init(); err != nil {
		return fmt.Errorf("firmware init: %w", err)
	}

	// Bytes sent before the banner wait in the stream until the reader starts
	if err := b.fw.Start(); err != nil {
		return fmt.Errorf("firmware start: %w", err)
	}
	glog.Infof("simulated MCU ready, commands %q", b.fw.Commands().Names())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Receive interrupt stand-in
	rxErr := make(chan error, 1)
	go func() {
		rxErr <- b.receiveLoop()
		cancel()
	}()

	err := b.fw.Run(ctx)
	core.DebugStats(b.fw.Stats())

	select {
	case readErr := <-rxErr:
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("receive: %w", readErr)
		}
		return nil
	default:
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (b *Board) receiveLoop() error {
	buf := make([]byte, 64)
	for {
		n, err := b.rw.Read(buf)
		for _, c := range buf[:n] {
			b.fw.Receive(c)
		}
		if err != nil {
			return err
		}
	}
}

// pipePort adapts one end of an in-memory pipe to serial.Port
type pipePort struct {
	net.Conn
}

func (p pipePort) Flush() error { return nil }

// Pipe returns a connected pair: a host side serial.Port and the board side
// stream to hand to NewBoard.
func Pipe() (serial.Port, io.ReadWriteCloser) {
	host, board := net.Pipe()
	return pipePort{host}, board
}
