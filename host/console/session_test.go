package console

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uartled/host/link"
	"uartled/protocol"
)

func simSession(t *testing.T) *Session {
	t.Helper()
	conf := NewConfig()
	conf.Sim = true
	conf.Timeout = 2 * time.Second

	s := NewSession(conf)
	require.NoError(t, s.Connect())
	t.Cleanup(s.Disconnect)
	return s
}

func TestNewConfigCopiesDefaults(t *testing.T) {
	conf := NewConfig()
	assert.Equal(t, 9600, conf.Baud)
	assert.Equal(t, link.DefaultTimeout, conf.Timeout)

	conf.Device = "/dev/null"
	assert.NotEqual(t, "/dev/null", Default().Device)
}

func TestSessionAgainstSimulatedBoard(t *testing.T) {
	s := simSession(t)
	ctx := context.Background()

	assert.True(t, s.Connected())
	assert.Equal(t, "sim: ready=true led=off", s.State())

	reply, err := s.Light(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Light 1 on", reply)
	assert.Equal(t, "sim: ready=true led=on", s.State())

	resp, err := s.Send(ctx, "Light On")
	require.NoError(t, err)
	assert.Equal(t, "Unknown command: Light On", Describe(resp))

	reply, err = s.Light(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "Light off", reply)
}

func TestSessionReconnect(t *testing.T) {
	s := simSession(t)
	_, err := s.Light(context.Background(), true)
	require.NoError(t, err)

	// A fresh board starts dark again
	require.NoError(t, s.Connect())
	assert.Equal(t, "sim: ready=true led=off", s.State())
}

func TestSessionDisconnected(t *testing.T) {
	s := NewSession(NewConfig())
	assert.False(t, s.Connected())
	assert.Equal(t, "disconnected", s.State())

	_, err := s.Light(context.Background(), true)
	assert.ErrorIs(t, err, errNotConnected)

	s.Disconnect()
}

func TestConnectMissingDevice(t *testing.T) {
	conf := NewConfig()
	conf.Device = "/dev/does-not-exist-uartled"
	s := NewSession(conf)
	require.Error(t, s.Connect())
	assert.Nil(t, s.Conn)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "MCU Ready! Send commands.", Describe(protocol.Response{Kind: protocol.ResponseReady}))
	assert.Equal(t, "Light 1 on", Describe(protocol.Response{Kind: protocol.ResponseLightOn}))
	assert.Equal(t, "Light off", Describe(protocol.Response{Kind: protocol.ResponseLightOff}))
	assert.Equal(t, "Unknown command: x", Describe(protocol.Response{Kind: protocol.ResponseUnknown, Echo: "x"}))
	assert.Equal(t, "invalid", Describe(protocol.Response{}))
}

func TestSessionRepeatedConnect(t *testing.T) {
	s := simSession(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, s.Connect(), "connect %d", i)
		reply, err := s.Light(ctx, true)
		require.NoError(t, err, "session %d", i)
		assert.Equal(t, "Light 1 on", reply)

		// The board must outlive the banner wait
		time.Sleep(time.Millisecond)
		reply, err = s.Light(ctx, false)
		require.NoError(t, err, "session %d", i)
		assert.Equal(t, "Light off", reply)
	}
}
