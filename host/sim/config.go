package sim

import (
	"flag"
	"io"
	"os"
	"time"

	"uartled/core"
	"uartled/host/serial"
)

// StdioDevice selects stdin/stdout as the board's serial line
const StdioDevice = "-"

// Config holds the simulated board settings
type Config struct {
	// Device the board listens on, StdioDevice for stdin/stdout
	Device string
	Baud   int

	LEDPin core.GPIOPin

	// TxTimeout bounds each transmit wait so a dead peer cannot hang the board
	TxTimeout time.Duration
}

var defaultConfig = Config{
	Device:    StdioDevice,
	Baud:      serial.DefaultBaud,
	TxTimeout: time.Second,
}

var ledPin uint

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device to serve, - for stdin/stdout.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate.")
	flag.UintVar(&ledPin, "led", ledPin, "Simulated LED pin number.")
	flag.DurationVar(&defaultConfig.TxTimeout, "tx-timeout", defaultConfig.TxTimeout, "Transmit timeout, 0 waits forever.")
}

// DefaultConfig returns the default board settings
func DefaultConfig() Config {
	conf := defaultConfig
	conf.LEDPin = core.GPIOPin(ledPin)
	return conf
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := DefaultConfig()
	return &conf
}

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

// Open opens the stream the board is attached to
func (c *Config) Open() (io.ReadWriteCloser, error) {
	if c.Device == StdioDevice {
		return stdio{Reader: os.Stdin, Writer: os.Stdout}, nil
	}
	cfg := serial.DefaultConfig(c.Device)
	cfg.Baud = c.Baud
	// The board blocks in Read between lines
	cfg.ReadTimeout = 0
	return serial.Open(cfg)
}
