package resumable

// Block polls a resumable entry point until it finishes and returns its
// value.
//
// Block never yields to other bodies, so it must only be used where no
// driving loop is running yet, for example to initialize devices before
// entering the main loop. The background functions are called after every
// poll that did not finish; they stand in for the loop and advance whatever
// the entry point waits on, such as a bus master.
func Block[T any](poll func() Result[T], background ...func()) T {
	for {
		if r := poll(); r.Done() {
			return r.Value
		}
		for _, f := range background {
			f()
		}
	}
}

// Drive polls r until it finishes, at most max times. It returns the number
// of polls made and whether r finished.
func Drive(r Runner, max int) (polls int, done bool) {
	for polls < max {
		polls++
		if r.Run() == Finished {
			return polls, true
		}
	}
	return polls, false
}
