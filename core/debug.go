package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false
)

// SetDebugWriter sets the platform-specific debug output function.
// Targets route it to a console that is not the command link; the host
// simulator routes it to its logger.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugStats writes the firmware counters on the debug writer
func DebugStats(s Stats) {
	DebugPrintln("stats: lines=" + utoa(s.Rx.Lines) +
		" processed=" + utoa(s.Processed) +
		" unknown=" + utoa(s.Unknown) +
		" dropped=" + utoa(s.Rx.Dropped) +
		" overwritten=" + utoa(s.Rx.Overwritten))
}
