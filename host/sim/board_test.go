package sim

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uartled/core"
	"uartled/protocol"
)

// startBoard runs a board on one end of a pipe and returns the other end
func startBoard(t *testing.T) (*Board, net.Conn, <-chan error) {
	t.Helper()
	host, dev := net.Pipe()
	board := NewBoard(dev, Config{LEDPin: 3, TxTimeout: 200 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	stopped := make(chan struct{})
	go func() {
		done <- board.Run(ctx)
		close(stopped)
	}()

	t.Cleanup(func() {
		cancel()
		host.Close()
		dev.Close()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Error("board did not stop")
		}
	})
	return board, host, done
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return line
}

func TestBoardSession(t *testing.T) {
	board, host, _ := startBoard(t)
	require.NoError(t, host.SetDeadline(time.Now().Add(5*time.Second)))
	r := bufio.NewReader(host)

	assert.Equal(t, protocol.RespReady, readLine(t, r))
	assert.False(t, board.LED())

	_, err := host.Write([]byte("Light on\n"))
	require.NoError(t, err)
	assert.Equal(t, protocol.RespLightOn, readLine(t, r))
	assert.True(t, board.LED())
	assert.True(t, board.Firmware().LED())

	_, err = host.Write([]byte("foo\r"))
	require.NoError(t, err)
	assert.Equal(t, "Unknown command: foo\r\n", readLine(t, r))
	assert.True(t, board.LED())

	_, err = host.Write([]byte("Light off\r\n"))
	require.NoError(t, err)
	assert.Equal(t, protocol.RespLightOff, readLine(t, r))
	assert.False(t, board.LED())

	stats := board.Firmware().Stats()
	assert.Equal(t, uint32(3), stats.Processed)
	assert.Equal(t, uint32(1), stats.Unknown)
}

func TestBoardStopsOnEOF(t *testing.T) {
	_, host, done := startBoard(t)
	r := bufio.NewReader(host)
	require.NoError(t, host.SetDeadline(time.Now().Add(5*time.Second)))
	assert.Equal(t, protocol.RespReady, readLine(t, r))

	require.NoError(t, host.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("board kept running after the stream closed")
	}
}

func TestGPIORequiresOutput(t *testing.T) {
	g := NewGPIO()
	require.Error(t, g.SetPin(1, true))
	_, err := g.GetPin(1)
	require.Error(t, err)

	var changes []bool
	g.OnChange = func(pin core.GPIOPin, value bool) {
		assert.Equal(t, core.GPIOPin(1), pin)
		changes = append(changes, value)
	}
	require.NoError(t, g.ConfigureOutput(1))
	require.NoError(t, g.SetPin(1, true))
	require.NoError(t, g.SetPin(1, true))
	require.NoError(t, g.SetPin(1, false))
	assert.Equal(t, []bool{true, false}, changes)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestUARTWedgesAfterWriteError(t *testing.T) {
	u := NewUART(failingWriter{})
	require.NoError(t, u.Configure(core.DefaultUARTConfig()))
	assert.True(t, u.TxReady())

	for _, c := range []byte("ok\n") {
		u.WriteData(c)
	}
	assert.False(t, u.TxReady())
	assert.ErrorIs(t, u.Err(), io.ErrClosedPipe)
}

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	assert.Equal(t, StdioDevice, conf.Device)
	assert.Equal(t, 9600, conf.Baud)
	assert.Equal(t, time.Second, conf.TxTimeout)

	rw, err := conf.Open()
	require.NoError(t, err)
	assert.NoError(t, rw.Close())
}

type countingReader struct {
	reads atomic.Int32
}

func (r *countingReader) Read([]byte) (int, error) {
	r.reads.Add(1)
	return 0, io.EOF
}

func TestBoardStartFailureStopsReceiving(t *testing.T) {
	rx := &countingReader{}
	board := NewBoard(struct {
		io.Reader
		io.Writer
	}{rx, failingWriter{}}, Config{TxTimeout: 10 * time.Millisecond})

	// Wedge the transmitter so the banner cannot be sent
	board.uart.WriteData('\n')
	require.Error(t, board.uart.Err())

	err := board.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrTxTimeout)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, rx.reads.Load(), "stream must not be read after a failed start")
}
