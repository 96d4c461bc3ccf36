package protocol

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCommand(t *testing.T) {
	assert.Equal(t, []byte("Light on\n"), FormatCommand(CmdLightOn))
	assert.Equal(t, []byte("\n"), FormatCommand(""))
}

func TestTruncate(t *testing.T) {
	exact := strings.Repeat("a", MaxLineLength)
	assert.Equal(t, exact, Truncate(exact))
	assert.Equal(t, exact, Truncate(exact+"bcd"))
	assert.Equal(t, "foo", Truncate("foo"))
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Response
	}{
		{"ready", "MCU Ready! Send commands.\r\n", Response{Kind: ResponseReady}},
		{"ready without line end", "MCU Ready! Send commands.", Response{Kind: ResponseReady}},
		{"light on", "Light 1 on\r\n", Response{Kind: ResponseLightOn}},
		{"light off", "Light off", Response{Kind: ResponseLightOff}},
		{"unknown", "Unknown command: foo\r\n", Response{Kind: ResponseUnknown, Echo: "foo"}},
		{"unknown keeps case", "Unknown command: light on", Response{Kind: ResponseUnknown, Echo: "light on"}},
		{"unknown keeps spaces", "Unknown command:  Light on ", Response{Kind: ResponseUnknown, Echo: " Light on "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResponse(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResponseInvalid(t *testing.T) {
	_, err := ParseResponse("Light 2 on\r\n")
	require.Error(t, err)

	var respErr *ResponseError
	require.True(t, errors.As(err, &respErr))
	assert.Equal(t, "Light 2 on", respErr.Line)
	assert.Equal(t, `unexpected response line: "Light 2 on"`, err.Error())

	_, err = ParseResponse("\x01garbage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `\x01garbage`)
}

func TestExpected(t *testing.T) {
	assert.Equal(t, ResponseLightOn, Expected(CmdLightOn))
	assert.Equal(t, ResponseLightOff, Expected(CmdLightOff))
	assert.Equal(t, ResponseUnknown, Expected("light on"))
	assert.Equal(t, ResponseUnknown, Expected("Light on "))
	// Truncation keeps the padding, so this is still not a command
	assert.Equal(t, ResponseUnknown, Expected(CmdLightOn+strings.Repeat(" ", 40)))
}

func TestResponseKindString(t *testing.T) {
	assert.Equal(t, "light-on", ResponseLightOn.String())
	assert.Equal(t, "invalid", ResponseKind(42).String())
}
