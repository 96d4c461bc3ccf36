package core

// Line buffer geometry. One byte of the buffer is reserved for the
// terminating zero, so a line holds at most MaxLineLength bytes.
const (
	LineCapacity  = 32
	MaxLineLength = LineCapacity - 1
)

// Line is a fixed-size received command line.
// The byte after the content is always zero.
type Line struct {
	buf [LineCapacity]byte
	n   uint8
}

// Bytes returns the line content. The slice aliases the line.
func (l *Line) Bytes() []byte {
	return l.buf[:l.n]
}

func (l *Line) String() string {
	return string(l.buf[:l.n])
}

// Len returns the content length
func (l *Line) Len() int {
	return int(l.n)
}

// Equal reports whether the content is exactly s, byte for byte
func (l *Line) Equal(s string) bool {
	if len(s) != int(l.n) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if l.buf[i] != s[i] {
			return false
		}
	}
	return true
}

// Clear zeroes the whole buffer
func (l *Line) Clear() {
	l.buf = [LineCapacity]byte{}
	l.n = 0
}

// set copies src into the line and zero-fills the rest
func (l *Line) set(src []byte) {
	n := copy(l.buf[:MaxLineLength], src)
	for i := n; i < LineCapacity; i++ {
		l.buf[i] = 0
	}
	l.n = uint8(n)
}
