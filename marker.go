// Package resumable implements stackless cooperative coroutines for polled
// driver code.
//
// A resumable body is an ordinary method that dispatches on a continuation
// marker at its top and returns at every suspension point. Nothing but the
// marker survives between two polls, so a body costs one byte per nesting
// level and never allocates. Bodies are driven by calling them repeatedly
// from a superloop (see package loop) until they report Finished.
package resumable

import "strconv"

// Marker identifies a suspension point within one resumable body.
//
// Body authors declare one constant per suspension point, starting at 1.
// The values Fresh and Stopped are reserved.
type Marker uint8

const (
	// Fresh is the marker of a body that has not started yet, or that was
	// restarted.
	Fresh Marker = 0

	// Stopped is the marker of a body that ran to completion or was
	// stopped.
	Stopped Marker = 255
)

func (m Marker) String() string {
	switch m {
	case Fresh:
		return "fresh"
	case Stopped:
		return "stopped"
	default:
		return strconv.Itoa(int(m))
	}
}

func checkMarker(m Marker) {
	if m == Stopped {
		panic("resumable: the stopped marker cannot be set explicitly")
	}
}

// ID identifies a resumable body among the bodies sharing a Slot. Zero is
// reserved for "no owner".
type ID uint8
