package resumable

// Frame is the handle a resumable body uses to manipulate its continuation
// state. It is obtained from Begin at the top of the body, and every return
// statement of the body must return the result of exactly one of the Frame
// methods Suspend, Yield, Return, Exit, Reset or End, which release the
// nesting level the body occupies.
type Frame[T any] struct {
	stack    Stack
	st       *state
	level    int
	conflict bool
}

// Begin enters a resumable body identified by id on the next nesting level
// of s, and returns the frame of the body:
//
//	func (d *Device) readRegister(reg byte) resumable.Result[byte] {
//		f := resumable.Begin[byte](&d.slot, readRegisterID)
//		switch f.Marker() {
//		case resumable.Fresh:
//			d.buffer[0] = reg
//			f.Call(transfer)
//			fallthrough
//		case transfer:
//			if r := d.transfer(); r.Pending() {
//				return f.Suspend()
//			} else if !r.Value {
//				return f.Return(0)
//			}
//			return f.Return(d.buffer[1])
//		}
//		return f.End()
//	}
//
// The dispatch switch must not have a default case: markers that match no
// case (a finished body, or a level owned by another body) are handled by
// End.
//
// Begin panics with a *NestingError if s has no nesting level left.
func Begin[T any](s Stack, id ID) Frame[T] {
	if id == 0 {
		panic("resumable: body id must not be zero")
	}
	level := s.depth()
	st, conflict := s.push(id)
	return Frame[T]{stack: s, st: st, level: level, conflict: conflict}
}

// Marker returns the marker to dispatch on.
func (f Frame[T]) Marker() Marker {
	if f.conflict {
		return Stopped
	}
	return f.st.marker
}

// Depth returns the nesting level of the frame, 0 for the entry point.
func (f Frame[T]) Depth() int { return f.level }

// Set records m as the point to resume from.
func (f Frame[T]) Set(m Marker) {
	checkMarker(m)
	f.st.marker = m
}

// Suspend leaves the body without touching the marker; the next poll
// re-enters the body at the current marker and re-evaluates whatever
// condition made it suspend.
func (f Frame[T]) Suspend() Result[T] {
	f.stack.pop()
	return Result[T]{Status: Suspended}
}

// Yield leaves the body; the next poll resumes at next.
func (f Frame[T]) Yield(next Marker) Result[T] {
	f.Set(next)
	return f.Suspend()
}

// Call records site as the point to resume from and prepares the nesting
// level below the body, so that the resumable body called at site starts
// fresh even if another body ran at that level before. Slots of other
// objects whose bodies are called at site are passed as callees and reset,
// running or not, so that a body the caller gave up on earlier does not
// resume with stale state.
func (f Frame[T]) Call(site Marker, callees ...Callee) {
	f.Set(site)
	if next := f.level + 1; next < f.stack.capacity() {
		*f.stack.at(next) = state{}
	}
	for _, c := range callees {
		c.reset()
	}
}

// Spawn restarts child and records site as the point to resume from. The
// body then goes on and later waits for the child with Join.
func (f Frame[T]) Spawn(site Marker, child Restarter) {
	child.Restart()
	f.Set(site)
}

// Return finishes the body with the value v.
func (f Frame[T]) Return(v T) Result[T] {
	f.st.marker, f.st.running = Stopped, false
	f.stack.pop()
	return Result[T]{Status: Finished, Value: v}
}

// Exit finishes the body with the zero value of T.
func (f Frame[T]) Exit() Result[T] {
	var zero T
	return f.Return(zero)
}

// Reset restarts the body from inside; the next poll starts over from the
// top.
func (f Frame[T]) Reset() Result[T] {
	f.st.marker, f.st.running = Fresh, true
	f.stack.pop()
	return Result[T]{Status: Suspended}
}

// End declares the end of the body. Falling through to End finishes the
// body, and a body that already finished keeps returning Finished. If the
// level is owned by another body End returns Conflict.
func (f Frame[T]) End() Result[T] {
	if f.conflict {
		f.stack.pop()
		return Result[T]{Status: Conflict}
	}
	return f.Exit()
}
