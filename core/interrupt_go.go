//go:build !tinygo

package core

import "sync"

// interruptState is a placeholder for interrupt state on regular Go
type interruptState uintptr

// On regular Go the receive "interrupt" is a goroutine, so the critical
// section is a plain mutex.
var interruptLock sync.Mutex

// disableInterrupts enters the receive critical section
func disableInterrupts() interruptState {
	interruptLock.Lock()
	return 0
}

// restoreInterrupts leaves the receive critical section
func restoreInterrupts(state interruptState) {
	interruptLock.Unlock()
}
