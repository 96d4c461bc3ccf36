package protocol

import "strings"

// ResponseKind classifies a line received from the firmware
type ResponseKind uint8

const (
	ResponseInvalid ResponseKind = iota
	ResponseReady
	ResponseLightOn
	ResponseLightOff
	ResponseUnknown
)

func (k ResponseKind) String() string {
	switch k {
	case ResponseReady:
		return "ready"
	case ResponseLightOn:
		return "light-on"
	case ResponseLightOff:
		return "light-off"
	case ResponseUnknown:
		return "unknown-command"
	default:
		return "invalid"
	}
}

// Response is a parsed firmware reply
type Response struct {
	Kind ResponseKind
	// Echo holds the line the firmware did not recognise (ResponseUnknown only)
	Echo string
}

// ResponseError reports a line that is not a valid firmware reply
type ResponseError struct {
	Line string
}

func (e *ResponseError) Error() string {
	return "unexpected response line: " + quote(e.Line)
}

// ParseResponse classifies one reply line. The trailing "\r\n" is optional.
func ParseResponse(line string) (Response, error) {
	line = strings.TrimRight(line, LineEnd)
	switch line {
	case strings.TrimSuffix(RespReady, LineEnd):
		return Response{Kind: ResponseReady}, nil
	case strings.TrimSuffix(RespLightOn, LineEnd):
		return Response{Kind: ResponseLightOn}, nil
	case strings.TrimSuffix(RespLightOff, LineEnd):
		return Response{Kind: ResponseLightOff}, nil
	}
	if strings.HasPrefix(line, UnknownPrefix) {
		return Response{Kind: ResponseUnknown, Echo: line[len(UnknownPrefix):]}, nil
	}
	return Response{}, &ResponseError{Line: line}
}

// Expected returns the reply kind a well-behaved firmware sends for cmd.
func Expected(cmd string) ResponseKind {
	switch Truncate(cmd) {
	case CmdLightOn:
		return ResponseLightOn
	case CmdLightOff:
		return ResponseLightOff
	default:
		return ResponseUnknown
	}
}

// quote wraps s in double quotes, escaping control bytes as \xNN
func quote(s string) string {
	const hex = "0123456789abcdef"
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			b.WriteString(`\x`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
