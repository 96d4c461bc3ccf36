package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"uartled/protocol"
)

var errNotConnected = errors.New("not connected")

// Session holds the console's current connection.
type Session struct {
	Config *Config
	Conn   *Conn
}

// NewSession creates an unconnected session.
func NewSession(conf *Config) *Session {
	return &Session{Config: conf}
}

// Connected reports whether a link is open.
func (s *Session) Connected() bool {
	return s.Conn != nil && s.Conn.Link.IsConnected()
}

// Connect opens a new link, closing the current one.
func (s *Session) Connect() error {
	s.Disconnect()
	conn, err := s.Config.Connect()
	if err != nil {
		return err
	}
	glog.V(1).Infof("connected to %s", conn.Name)
	s.Conn = conn
	return nil
}

// Disconnect closes the current link, if any.
func (s *Session) Disconnect() {
	if s.Conn == nil {
		return
	}
	if err := s.Conn.Close(); err != nil {
		glog.Warningf("close %s: %v", s.Conn.Name, err)
	}
	s.Conn = nil
}

// Light switches the LED and returns the firmware confirmation.
func (s *Session) Light(ctx context.Context, on bool) (string, error) {
	cmd := protocol.CmdLightOff
	if on {
		cmd = protocol.CmdLightOn
	}
	resp, err := s.Send(ctx, cmd)
	if err != nil {
		return "", err
	}
	return Describe(resp), nil
}

// Send transmits a raw command line.
func (s *Session) Send(ctx context.Context, line string) (protocol.Response, error) {
	if !s.Connected() {
		return protocol.Response{}, errNotConnected
	}
	return s.Conn.Link.Send(ctx, line)
}

// State describes the connection and the last confirmed LED state.
func (s *Session) State() string {
	if s.Conn == nil {
		return "disconnected"
	}
	l := s.Conn.Link
	if !l.IsConnected() {
		if err := l.Err(); err != nil {
			return fmt.Sprintf("%s: link lost: %v", s.Conn.Name, err)
		}
		return s.Conn.Name + ": closed"
	}
	return fmt.Sprintf("%s: ready=%v led=%s", s.Conn.Name, l.Ready(), l.LED())
}

// Describe renders a reply the way the firmware printed it.
func Describe(resp protocol.Response) string {
	switch resp.Kind {
	case protocol.ResponseReady:
		return strings.TrimSuffix(protocol.RespReady, protocol.LineEnd)
	case protocol.ResponseLightOn:
		return strings.TrimSuffix(protocol.RespLightOn, protocol.LineEnd)
	case protocol.ResponseLightOff:
		return strings.TrimSuffix(protocol.RespLightOff, protocol.LineEnd)
	case protocol.ResponseUnknown:
		return protocol.UnknownPrefix + resp.Echo
	default:
		return resp.Kind.String()
	}
}
