package core

import "sync/atomic"

// RxStats counts receive path events
type RxStats struct {
	// Lines is the number of lines published to the dispatcher
	Lines uint32
	// Dropped is the number of bytes discarded because the line was full
	Dropped uint32
	// Overwritten is the number of published lines replaced by a newer one
	// before the dispatcher took them
	Overwritten uint32
}

// LineReceiver assembles incoming bytes into lines.
//
// Receive runs in interrupt context (or a reader goroutine on the host) and
// writes a private staging buffer. A terminator publishes the staged bytes into
// the ready slot inside a critical section; Take copies the slot out inside the
// same critical section. The consumer therefore never sees a half-written line.
// If a second line completes before the first was taken, the newer line wins.
type LineReceiver struct {
	// Producer only
	staging [LineCapacity]byte
	index   uint8

	// Guarded by disableInterrupts
	ready Line
	stats RxStats

	flag   atomic.Uint32
	notify chan struct{}
}

// NewLineReceiver creates an empty receiver
func NewLineReceiver() *LineReceiver {
	return &LineReceiver{
		notify: make(chan struct{}, 1),
	}
}

// Receive handles one received byte. It never blocks.
func (r *LineReceiver) Receive(b byte) {
	if b == '\r' || b == '\n' {
		// Empty lines are never signalled
		if r.index > 0 {
			r.publish()
		}
		return
	}

	if r.index < MaxLineLength {
		r.staging[r.index] = b
		r.index++
		return
	}

	state := disableInterrupts()
	r.stats.Dropped++
	restoreInterrupts(state)
}

func (r *LineReceiver) publish() {
	state := disableInterrupts()
	if r.flag.Load() != 0 {
		r.stats.Overwritten++
	}
	r.ready.set(r.staging[:r.index])
	r.stats.Lines++
	r.flag.Store(1)
	restoreInterrupts(state)

	r.index = 0

	// Coalesced wake-up for a waiting consumer
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Ready reports whether a complete line is waiting
func (r *LineReceiver) Ready() bool {
	return r.flag.Load() != 0
}

// Notify returns a level-coalesced channel signalled after a line is published.
// Callers must re-check Ready after waking.
func (r *LineReceiver) Notify() <-chan struct{} {
	return r.notify
}

// Take moves the waiting line into dst and clears the ready flag.
// It returns false when no line is waiting.
func (r *LineReceiver) Take(dst *Line) bool {
	if r.flag.Load() == 0 {
		return false
	}
	state := disableInterrupts()
	*dst = r.ready
	r.ready.Clear()
	r.flag.Store(0)
	restoreInterrupts(state)
	return true
}

// Pending returns the number of bytes staged for the line in progress.
// Only meaningful when called from the producer side or while it is idle.
func (r *LineReceiver) Pending() int {
	return int(r.index)
}

// Stats returns a snapshot of the receive counters
func (r *LineReceiver) Stats() RxStats {
	state := disableInterrupts()
	s := r.stats
	restoreInterrupts(state)
	return s
}

// Reset drops any staged and waiting line. It must not run concurrently
// with Receive.
func (r *LineReceiver) Reset() {
	state := disableInterrupts()
	r.ready.Clear()
	r.flag.Store(0)
	r.stats = RxStats{}
	restoreInterrupts(state)
	r.staging = [LineCapacity]byte{}
	r.index = 0
}
