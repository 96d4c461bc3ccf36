package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveString(r *LineReceiver, s string) {
	for i := 0; i < len(s); i++ {
		r.Receive(s[i])
	}
}

func TestLineReceiverTerminators(t *testing.T) {
	for _, term := range []string{"\r", "\n", "\r\n"} {
		r := NewLineReceiver()
		receiveString(r, "Light on"+term)

		require.True(t, r.Ready(), "terminator %q", term)
		var line Line
		require.True(t, r.Take(&line))
		assert.Equal(t, "Light on", line.String())
		assert.False(t, r.Ready(), "flag must clear on take")
		assert.Equal(t, uint32(1), r.Stats().Lines, "CRLF must publish one line")
	}
}

func TestLineReceiverIgnoresEmptyLines(t *testing.T) {
	r := NewLineReceiver()
	receiveString(r, "\r\n\n\r")

	assert.False(t, r.Ready())
	assert.Equal(t, RxStats{}, r.Stats())

	var line Line
	assert.False(t, r.Take(&line))
}

func TestLineReceiverNoTerminator(t *testing.T) {
	r := NewLineReceiver()
	receiveString(r, "Light on")

	assert.False(t, r.Ready())
	assert.Equal(t, 8, r.Pending())
}

func TestLineReceiverBoundary(t *testing.T) {
	exact := strings.Repeat("x", MaxLineLength)

	r := NewLineReceiver()
	receiveString(r, exact+"\n")
	var line Line
	require.True(t, r.Take(&line))
	assert.Equal(t, exact, line.String())
	assert.Equal(t, uint32(0), r.Stats().Dropped)

	// Bytes past the limit are dropped, the kept prefix is published
	receiveString(r, exact+"yz\n")
	require.True(t, r.Take(&line))
	assert.Equal(t, exact, line.String())
	assert.Equal(t, uint32(2), r.Stats().Dropped)
}

func TestLineReceiverLineIsZeroTerminated(t *testing.T) {
	r := NewLineReceiver()
	receiveString(r, strings.Repeat("a", MaxLineLength)+"\n")
	receiveString(r, "ab\n")

	var line Line
	require.True(t, r.Take(&line))
	assert.Equal(t, "ab", line.String())
	for i := line.Len(); i < LineCapacity; i++ {
		if line.buf[i] != 0 {
			t.Fatalf("byte %d = %q after content, want 0", i, line.buf[i])
		}
	}
}

func TestLineReceiverNewerLineWins(t *testing.T) {
	r := NewLineReceiver()
	receiveString(r, "first\nsecond\n")

	var line Line
	require.True(t, r.Take(&line))
	assert.Equal(t, "second", line.String())
	assert.Equal(t, RxStats{Lines: 2, Overwritten: 1}, r.Stats())
	assert.False(t, r.Take(&line))
}

func TestLineReceiverStagingIsPrivate(t *testing.T) {
	r := NewLineReceiver()
	receiveString(r, "Light on\nLight o")

	// A line in progress never touches the published one
	var line Line
	require.True(t, r.Take(&line))
	assert.Equal(t, "Light on", line.String())

	receiveString(r, "ff\n")
	require.True(t, r.Take(&line))
	assert.Equal(t, "Light off", line.String())
}

func TestLineReceiverNotify(t *testing.T) {
	r := NewLineReceiver()

	go receiveString(r, "ping\n")

	select {
	case <-r.Notify():
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for notify")
	}
	assert.True(t, r.Ready())
}

func TestLineReceiverReset(t *testing.T) {
	r := NewLineReceiver()
	receiveString(r, "one\ntw")
	r.Reset()

	assert.False(t, r.Ready())
	assert.Equal(t, 0, r.Pending())
	assert.Equal(t, RxStats{}, r.Stats())

	receiveString(r, "o\n")
	var line Line
	require.True(t, r.Take(&line))
	assert.Equal(t, "o", line.String())
}

func TestLineEqual(t *testing.T) {
	var line Line
	line.set([]byte("Light on"))

	assert.True(t, line.Equal("Light on"))
	assert.False(t, line.Equal("Light o"))
	assert.False(t, line.Equal("Light on "))
	assert.False(t, line.Equal("light on"))

	line.Clear()
	assert.Equal(t, 0, line.Len())
	assert.True(t, line.Equal(""))
}
