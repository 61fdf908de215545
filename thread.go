package resumable

// Thread is a single-level resumable engine, a protothread. Types embed a
// Thread and implement Run by dispatching on the marker returned by Begin:
//
//	func (b *Blinker) Run() resumable.Status {
//		switch b.Begin() {
//		case resumable.Fresh:
//			b.led.High()
//			b.timeout.Restart(time.Second)
//			b.Set(waitOn)
//			fallthrough
//		case waitOn:
//			if !b.timeout.Expired() {
//				return b.Suspend()
//			}
//			b.led.Low()
//		}
//		return b.End()
//	}
//
// The zero value is a running thread that starts on the first call to Run.
type Thread struct {
	marker Marker
}

// Begin declares the start of the body and returns the marker to dispatch
// on. A stopped thread returns Stopped, which no case of the body matches,
// so control reaches End without side effects.
func (t *Thread) Begin() Marker { return t.marker }

// Set records m as the point to resume from. It is used right before a
// fallthrough into the case labeled m, so that a false wait condition in
// that case suspends there.
func (t *Thread) Set(m Marker) {
	checkMarker(m)
	t.marker = m
}

// Suspend returns Suspended without touching the marker; the next call to
// Run resumes at the current marker.
func (t *Thread) Suspend() Status { return Suspended }

// Yield suspends the thread; the next call to Run resumes at next.
func (t *Thread) Yield(next Marker) Status {
	t.Set(next)
	return Suspended
}

// Exit stops the thread. Subsequent calls to Run return Finished until the
// thread is restarted.
func (t *Thread) Exit() Status {
	t.marker = Stopped
	return Finished
}

// Reset restarts the thread from inside its body; the next call to Run
// starts over from the top.
func (t *Thread) Reset() Status {
	t.marker = Fresh
	return Suspended
}

// Rewind moves the thread back to its start without returning, for bodies
// that loop over their dispatch switch to restart within the same poll.
func (t *Thread) Rewind() { t.marker = Fresh }

// End declares the end of the body. Falling through to End stops the
// thread.
func (t *Thread) End() Status { return t.Exit() }

// Spawn restarts child and records site as the point to resume from. The
// body then continues and later waits for the child with Join.
func (t *Thread) Spawn(site Marker, child Restarter) {
	child.Restart()
	t.Set(site)
}

// Restart makes the thread start over from the top on the next call to Run.
func (t *Thread) Restart() { t.marker = Fresh }

// Stop stops the thread; Run returns Finished until Restart is called.
func (t *Thread) Stop() { t.marker = Stopped }

// Running returns true until the thread finishes or is stopped.
func (t *Thread) Running() bool { return t.marker != Stopped }

// Marker returns the current continuation marker.
func (t *Thread) Marker() Marker { return t.marker }
