// Package console is the interactive front end of uartled-host.
package console

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"uartled/host/serial"
	"uartled/protocol"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoConnect bool

	Shell   *ishell.Shell
	Session *Session
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly  bool
	listPorts bool

	commands = []*ishell.Cmd{
		&OnCmd,
		&OffCmd,
		&SendCmd,
		&StateCmd,
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&listPorts, "list", listPorts, "List serial ports and exit.")
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,

		Shell:   ishell.New(),
		Session: NewSession(conf),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	s.Shell.Interrupt(func(c *ishell.Context, count int, input string) {
		if count >= 2 {
			c.Stop()
			return
		}
		c.Println("Press Ctrl-C again to exit")
	})
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if !ShellFrom(c).Session.Connected() {
			c.Err(errNotConnected)
			return
		}
		fn(c)
	}
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// Connect opens the configured link and updates the prompt.
func (s *Shell) Connect() error {
	if err := s.Session.Connect(); err != nil {
		return err
	}
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", s.Session.Conn.Name))
	return nil
}

// Disconnect closes the link.
func (s *Shell) Disconnect() {
	s.Session.Disconnect()
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run runs the shell, or the single command in args.
func (s *Shell) Run(args ...string) {
	defer s.Session.Disconnect()

	if s.AutoConnect {
		if s.Interactive {
			s.Shell.Printf("uartled %s\n", protocol.Version)
			s.Shell.Printf("Connecting %s ...\n", s.target())
		}
		if err := s.Connect(); err != nil {
			log.Fatalf("connect %s failed: %v", s.target(), err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

func (s *Shell) target() string {
	if s.Session.Config.Sim {
		return "simulated board"
	}
	return s.Session.Config.Device
}

func light(on bool) func(c *ishell.Context) {
	return MustBeConnected(func(c *ishell.Context) {
		reply, err := ShellFrom(c).Session.Light(context.Background(), on)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(reply)
	})
}

var (
	// OnCmd switches the LED on.
	OnCmd = ishell.Cmd{
		Name: "on",
		Help: "switch the LED on",
		Func: light(true),
	}

	// OffCmd switches the LED off.
	OffCmd = ishell.Cmd{
		Name: "off",
		Help: "switch the LED off",
		Func: light(false),
	}

	// SendCmd sends a raw line.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "TEXT",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			resp, err := ShellFrom(c).Session.Send(context.Background(), strings.Join(c.Args, " "))
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(Describe(resp))
		}),
	}

	// StateCmd prints the connection and LED state.
	StateCmd = ishell.Cmd{
		Name: "state",
		Help: "",
		Func: func(c *ishell.Context) {
			c.Println(ShellFrom(c).Session.State())
		},
	}

	// PortsCmd lists serial ports.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			names, err := serial.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if len(names) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, name := range names {
				c.Println(name)
			}
		},
	}

	// ConnectCmd (re)connects using the configured device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[DEVICE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			if len(c.Args) > 0 {
				s.Session.Config.Device = c.Args[0]
				s.Session.Config.Sim = false
			}
			if err := s.Connect(); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the current link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	if listPorts {
		names, err := serial.ListPorts()
		if err != nil {
			log.Fatalln(err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}
	New(NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
