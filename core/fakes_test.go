package core

import (
	"bytes"
	"errors"
	"strings"
	"sync"
)

// fakeUART records transmitted bytes. busyPolls makes TxReady report busy
// that many times after every written byte.
type fakeUART struct {
	mu         sync.Mutex
	cfg        UARTConfig
	configured bool
	configErr  error
	busyPolls  int
	stuck      bool
	pending    int
	out        bytes.Buffer
}

func (u *fakeUART) Configure(cfg UARTConfig) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.configErr != nil {
		return u.configErr
	}
	u.cfg = cfg
	u.configured = true
	return nil
}

func (u *fakeUART) TxReady() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.stuck {
		return false
	}
	if u.pending > 0 {
		u.pending--
		return false
	}
	return true
}

func (u *fakeUART) WriteData(b byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.out.WriteByte(b)
	u.pending = u.busyPolls
}

func (u *fakeUART) output() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.out.String()
}

// lines splits the output on "\r\n", dropping the empty tail
func (u *fakeUART) lines() []string {
	out := u.output()
	if out == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
}

func (u *fakeUART) reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.out.Reset()
}

var errBadPin = errors.New("bad pin")

type fakeGPIO struct {
	mu      sync.Mutex
	outputs map[GPIOPin]bool
	writes  int
	setErr  error
}

func newFakeGPIO() *fakeGPIO {
	return &fakeGPIO{outputs: make(map[GPIOPin]bool)}
}

func (g *fakeGPIO) ConfigureOutput(pin GPIOPin) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if pin > 63 {
		return errBadPin
	}
	g.outputs[pin] = false
	return nil
}

func (g *fakeGPIO) SetPin(pin GPIOPin, value bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.setErr != nil {
		return g.setErr
	}
	if _, ok := g.outputs[pin]; !ok {
		return errBadPin
	}
	g.outputs[pin] = value
	g.writes++
	return nil
}

func (g *fakeGPIO) GetPin(pin GPIOPin) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v, ok := g.outputs[pin]
	if !ok {
		return false, errBadPin
	}
	return v, nil
}

func (g *fakeGPIO) level(pin GPIOPin) bool {
	v, _ := g.GetPin(pin)
	return v
}

// feed pushes s through the receive entry point byte by byte
func feed(f *Firmware, s string) {
	for i := 0; i < len(s); i++ {
		f.Receive(s[i])
	}
}
