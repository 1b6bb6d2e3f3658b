// Package scheduler provides cancellable one-shot timers.
//
// Callers receive a Handle per timer. A cancelled handle's callback never runs,
// including when the underlying timer already fired and its callback is queued
// on an event loop but has not executed yet.
package scheduler

import (
	"time"

	"github.com/google/uuid"
)

// Handle is a pending one-shot timer.
type Handle interface {
	ID() uuid.UUID
	// Cancel prevents the callback from running. It reports whether the timer was
	// still pending; cancelling a fired or cancelled timer is a no-op.
	Cancel() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

// Poster marshals a callback onto an event loop. It returns false if the loop
// is gone, in which case the callback is dropped.
type Poster interface {
	Post(fn func()) bool
}

// CancelAll cancels every non-nil handle and returns how many were still pending.
func CancelAll(handles ...Handle) int {
	n := 0
	for _, h := range handles {
		if h != nil && h.Cancel() {
			n++
		}
	}
	return n
}

// handle states
const (
	statePending int32 = iota
	stateFired
	stateCancelled
)
