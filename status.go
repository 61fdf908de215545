package resumable

// Status is the outcome of polling a resumable body once.
type Status uint8

// The zero Status is Suspended, so a zero Result never reads as done.
const (
	// Suspended means the body stopped at a suspension point and must be
	// polled again.
	Suspended Status = iota

	// Finished means the body ran past its last statement or exited.
	Finished

	// Conflict means another body owns the nesting level the body tried to
	// enter. The caller should poll again later, after the other body has
	// finished.
	Conflict
)

func (s Status) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Finished:
		return "finished"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Pending returns true if the body has not finished yet.
func (s Status) Pending() bool { return s != Finished }

// Result is returned by every resumable body. Value is only meaningful once
// the body finished.
type Result[T any] struct {
	Status Status
	Value  T
}

// Pending returns true while the body is suspended or blocked by a
// conflicting body.
func (r Result[T]) Pending() bool { return r.Status.Pending() }

// Done returns true once the body finished.
func (r Result[T]) Done() bool { return r.Status == Finished }

// Get returns the value and whether it is valid, which is the case only once
// the body finished.
func (r Result[T]) Get() (T, bool) {
	if r.Status != Finished {
		var zero T
		return zero, false
	}
	return r.Value, true
}
