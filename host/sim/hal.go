package sim

import (
	"bufio"
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"

	"uartled/core"
)

var errPinNotOutput = errors.New("sim: pin not configured as output")

// UART is a simulated UART whose transmit register drains into a writer.
// Output is flushed at every line feed so each reply leaves as one write.
type UART struct {
	mu  sync.Mutex
	w   *bufio.Writer
	cfg core.UARTConfig
	err error
}

// NewUART creates a simulated UART writing to w
func NewUART(w io.Writer) *UART {
	return &UART{w: bufio.NewWriter(w)}
}

// Configure implements core.UARTDriver
func (u *UART) Configure(cfg core.UARTConfig) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.cfg = cfg
	glog.V(1).Infof("sim uart: %d baud, divisor %d, actual %d (%.2f%%)",
		cfg.BaudRate, cfg.Divisor(), cfg.ActualBaud(), cfg.BaudError()*100)
	return nil
}

// TxReady implements core.UARTDriver. The register is always free; a
// failed write keeps it busy so a bounded transmitter times out.
func (u *UART) TxReady() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err == nil
}

// WriteData implements core.UARTDriver
func (u *UART) WriteData(b byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return
	}
	u.w.WriteByte(b)
	if b == '\n' {
		if err := u.w.Flush(); err != nil {
			glog.Errorf("sim uart: write failed: %v", err)
			u.err = err
		}
	}
}

// Err returns the write error that wedged the transmitter, if any
func (u *UART) Err() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.err
}

// GPIO is a simulated GPIO bank
type GPIO struct {
	mu      sync.Mutex
	outputs map[core.GPIOPin]bool

	// OnChange is called after an output pin changes level
	OnChange func(pin core.GPIOPin, value bool)
}

// NewGPIO creates a GPIO bank with no configured pins
func NewGPIO() *GPIO {
	return &GPIO{outputs: make(map[core.GPIOPin]bool)}
}

// ConfigureOutput implements core.GPIODriver
func (g *GPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.outputs[pin] = false
	return nil
}

// SetPin implements core.GPIODriver
func (g *GPIO) SetPin(pin core.GPIOPin, value bool) error {
	g.mu.Lock()
	old, ok := g.outputs[pin]
	if !ok {
		g.mu.Unlock()
		return errPinNotOutput
	}
	g.outputs[pin] = value
	onChange := g.OnChange
	g.mu.Unlock()

	if onChange != nil && old != value {
		onChange(pin, value)
	}
	return nil
}

// GetPin implements core.GPIODriver
func (g *GPIO) GetPin(pin core.GPIOPin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.outputs[pin]
	if !ok {
		return false, errPinNotOutput
	}
	return v, nil
}
