package resumable

// Runner is implemented by types driven by polling, typically a type
// embedding a Thread, or an adapter around a resumable entry point.
type Runner interface {
	Run() Status
}

// Restarter is implemented by Thread and Slot.
type Restarter interface {
	Restart()
}

// Callee is implemented by Slot. Frame.Call resets callees so that a body
// abandoned by its caller starts over on the next call.
type Callee interface {
	reset()
}

// Runnable is implemented by Thread and Slot.
type Runnable interface {
	Running() bool
}

// Join polls r once and returns true if it finished. Bodies use it as the
// wait condition of a child they spawned:
//
//	case waitChild:
//		if !resumable.Join(&d.child) {
//			return f.Suspend()
//		}
func Join(r Runner) bool { return r.Run() == Finished }

// Any returns true if any of the given runnables is running.
func Any(rs ...Runnable) bool {
	for _, r := range rs {
		if r.Running() {
			return true
		}
	}
	return false
}

// All returns true if all of the given runnables are running.
func All(rs ...Runnable) bool {
	for _, r := range rs {
		if !r.Running() {
			return false
		}
	}
	return true
}

// None returns true if none of the given runnables is running, which is the
// condition to wait for when joining several of them.
func None(rs ...Runnable) bool { return !Any(rs...) }

// Func adapts a resumable entry point to the Runner interface, for
// registering it with a driving loop.
type Func[T any] func() Result[T]

// Run polls the entry point once.
func (f Func[T]) Run() Status { return f().Status }
