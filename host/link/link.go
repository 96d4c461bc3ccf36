// Package link talks to the LED firmware over a serial port.
package link

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"

	"uartled/host/serial"
	"uartled/protocol"
)

var (
	// ErrNotConnected is returned when no port is open
	ErrNotConnected = errors.New("not connected to MCU")
	// ErrTimeout is returned when no reply arrives in time
	ErrTimeout = errors.New("timed out waiting for MCU response")
	// ErrInvalidCommand is returned for commands the firmware cannot receive
	// as a single line
	ErrInvalidCommand = errors.New("command must be non-empty and contain no line terminator")
)

// DefaultTimeout bounds a request when the context has no deadline
const DefaultTimeout = 2 * time.Second

// LEDState is the last LED state confirmed by the firmware
type LEDState int32

const (
	LEDUnknown LEDState = iota
	LEDOff
	LEDOn
)

func (s LEDState) String() string {
	switch s {
	case LEDOn:
		return "on"
	case LEDOff:
		return "off"
	default:
		return "unknown"
	}
}

// MismatchError reports a reply that does not belong to the command sent
type MismatchError struct {
	Command string
	Got     protocol.Response
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("command %q answered with %s", e.Command, e.Got.Kind)
}

// Link represents a connection to the LED firmware
type Link struct {
	port serial.Port

	// Timeout is used when the request context has no deadline
	Timeout time.Duration

	// Replies other than the startup banner, in arrival order
	responses chan protocol.Response
	readyCh   chan struct{}

	// Serializes requests; the firmware answers one line at a time
	reqMu sync.Mutex

	led       atomic.Int32
	ready     atomic.Bool
	connected atomic.Bool

	closeOnce sync.Once
	doneChan  chan struct{}
	readErr   error
}

// New wraps an open port and starts the background reader
func New(port serial.Port) *Link {
	l := &Link{
		port:      port,
		Timeout:   DefaultTimeout,
		responses: make(chan protocol.Response, 16),
		readyCh:   make(chan struct{}, 1),
		doneChan:  make(chan struct{}),
	}
	l.connected.Store(true)

	go l.readLoop()
	return l
}

// Connect opens device with the default 9600 8N1 settings
func Connect(device string) (*Link, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a port with a custom serial config
func ConnectWithConfig(cfg *serial.Config) (*Link, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	glog.V(1).Infof("opened %s at %d baud", cfg.Device, cfg.Baud)
	return New(port), nil
}

// Close closes the port and waits for the reader to stop
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.connected.Store(false)
		err = l.port.Close()
		<-l.doneChan
	})
	return err
}

// IsConnected returns whether the port is still usable
func (l *Link) IsConnected() bool {
	return l.connected.Load()
}

// Ready reports whether the startup banner has been seen
func (l *Link) Ready() bool {
	return l.ready.Load()
}

// LED returns the last LED state confirmed by the firmware
func (l *Link) LED() LEDState {
	return LEDState(l.led.Load())
}

// Err returns the error that stopped the reader, if any
func (l *Link) Err() error {
	select {
	case <-l.doneChan:
		return l.readErr
	default:
		return nil
	}
}

// WaitReady blocks until the firmware announces itself. The banner is only
// sent at reset, so an already running board never satisfies this.
func (l *Link) WaitReady(ctx context.Context) error {
	if l.ready.Load() {
		return nil
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	select {
	case <-l.readyCh:
		return nil
	case <-l.doneChan:
		return l.closedErr()
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Send transmits one command line and returns the firmware reply.
// A reply of the wrong kind is reported as *MismatchError.
func (l *Link) Send(ctx context.Context, cmd string) (protocol.Response, error) {
	if cmd == "" || strings.ContainsAny(cmd, "\r\n") {
		return protocol.Response{}, ErrInvalidCommand
	}
	if !l.connected.Load() {
		return protocol.Response{}, ErrNotConnected
	}

	l.reqMu.Lock()
	defer l.reqMu.Unlock()

	l.drainStale()

	glog.V(2).Infof("tx %q", cmd)
	if _, err := l.port.Write(protocol.FormatCommand(cmd)); err != nil {
		return protocol.Response{}, fmt.Errorf("failed to send %q: %w", cmd, err)
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	var resp protocol.Response
	select {
	case resp = <-l.responses:
	case <-l.doneChan:
		return protocol.Response{}, l.closedErr()
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return protocol.Response{}, fmt.Errorf("%q: %w", cmd, ErrTimeout)
		}
		return protocol.Response{}, ctx.Err()
	}

	if resp.Kind != protocol.Expected(cmd) {
		return resp, &MismatchError{Command: cmd, Got: resp}
	}
	return resp, nil
}

// LightOn switches the LED on
func (l *Link) LightOn(ctx context.Context) error {
	_, err := l.Send(ctx, protocol.CmdLightOn)
	return err
}

// LightOff switches the LED off
func (l *Link) LightOff(ctx context.Context) error {
	_, err := l.Send(ctx, protocol.CmdLightOff)
	return err
}

func (l *Link) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || l.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.Timeout)
}

// drainStale drops replies nobody waited for, e.g. after a timeout
func (l *Link) drainStale() {
	for {
		select {
		case resp := <-l.responses:
			glog.Warningf("discarding stale response %s %q", resp.Kind, resp.Echo)
		default:
			return
		}
	}
}

func (l *Link) closedErr() error {
	if l.readErr != nil {
		return fmt.Errorf("%w: %v", ErrNotConnected, l.readErr)
	}
	return ErrNotConnected
}

func (l *Link) readLoop() {
	defer close(l.doneChan)

	input := protocol.NewFifoBuffer(512)
	buf := make([]byte, 64)
	for {
		n, err := l.port.Read(buf)
		if n > 0 {
			if input.Write(buf[:n]) < n {
				glog.Warningf("input buffer full, dropping %d bytes", n)
				input.Reset()
			}
			for {
				line, ok := input.NextLine()
				if !ok {
					break
				}
				l.handleLine(line)
			}
		}
		if err != nil {
			if l.connected.Load() {
				glog.Errorf("serial read failed: %v", err)
				l.readErr = err
			}
			l.connected.Store(false)
			return
		}
	}
}

func (l *Link) handleLine(line string) {
	glog.V(2).Infof("rx %q", line)

	resp, err := protocol.ParseResponse(line)
	if err != nil {
		glog.Warningf("ignoring line: %v", err)
		return
	}

	switch resp.Kind {
	case protocol.ResponseReady:
		// A banner means the board was reset; the LED starts off
		l.ready.Store(true)
		l.led.Store(int32(LEDOff))
		select {
		case l.readyCh <- struct{}{}:
		default:
		}
		return
	case protocol.ResponseLightOn:
		l.led.Store(int32(LEDOn))
	case protocol.ResponseLightOff:
		l.led.Store(int32(LEDOff))
	}

	select {
	case l.responses <- resp:
	default:
		glog.Warningf("response queue full, dropping %s", resp.Kind)
	}
}
