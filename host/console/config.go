package console

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/golang/glog"

	"uartled/host/link"
	"uartled/host/serial"
	"uartled/host/sim"
)

// Config defines how the console reaches the firmware.
type Config struct {
	Device  string
	Baud    int
	Timeout time.Duration
	// Sim runs the firmware in-process instead of opening Device.
	Sim bool
}

var defaultConfig = Config{
	Device:  "/dev/ttyUSB0",
	Baud:    serial.DefaultBaud,
	Timeout: link.DefaultTimeout,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Serial device path.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate, the firmware speaks 9600 8N1.")
	flag.DurationVar(&defaultConfig.Timeout, "timeout", defaultConfig.Timeout, "Time to wait for each reply.")
	flag.BoolVar(&defaultConfig.Sim, "sim", defaultConfig.Sim, "Talk to an in-process simulated board.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Conn is an open link plus whatever backs it.
type Conn struct {
	Link *link.Link
	Name string

	stop func()
}

// Close closes the link and stops a simulated board.
func (c *Conn) Close() error {
	err := c.Link.Close()
	if c.stop != nil {
		c.stop()
	}
	return err
}

// Connect opens the link described by the config.
func (c *Config) Connect() (*Conn, error) {
	if c.Sim {
		return c.connectSim()
	}

	cfg := serial.DefaultConfig(c.Device)
	cfg.Baud = c.Baud
	l, err := link.ConnectWithConfig(cfg)
	if err != nil {
		return nil, err
	}
	l.Timeout = c.Timeout
	return &Conn{Link: l, Name: c.Device}, nil
}

func (c *Config) connectSim() (*Conn, error) {
	port, dev := sim.Pipe()
	board := sim.NewBoard(dev, sim.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		if err := board.Run(ctx); err != nil {
			glog.Errorf("simulated board stopped: %v", err)
		}
	}()

	l := link.New(port)
	l.Timeout = c.Timeout
	conn := &Conn{
		Link: l,
		Name: "sim",
		stop: func() {
			cancel()
			dev.Close()
			<-stopped
		},
	}

	// The simulated board always starts with its banner
	waitCtx, cancelWait := context.WithTimeout(context.Background(), c.Timeout)
	defer cancelWait()
	if err := l.WaitReady(waitCtx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("simulated board: %w", err)
	}
	return conn, nil
}
