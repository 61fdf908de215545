package resumable

import "fmt"

// state is the continuation state of one nesting level.
type state struct {
	marker  Marker
	owner   ID
	running bool
}

// Depth1 to Depth8 are the storage types of slots, one element per nesting
// level. They are used as type arguments of Slot, which makes the capacity
// of every slot a compile time constant.
type (
	Depth1 [1]state
	Depth2 [2]state
	Depth3 [3]state
	Depth4 [4]state
	Depth5 [5]state
	Depth6 [6]state
	Depth7 [7]state
	Depth8 [8]state
)

// Depth is the set of slot storage types.
type Depth interface {
	Depth1 | Depth2 | Depth3 | Depth4 | Depth5 | Depth6 | Depth7 | Depth8
}

// NestingError is the value that resumable bodies panic with when they nest
// deeper than the capacity of their slot.
type NestingError struct {
	Depth    int
	Capacity int
}

func (e *NestingError) Error() string {
	return fmt.Sprintf("resumable: nesting depth %d exceeds slot capacity %d", e.Depth, e.Capacity)
}

// Stack is implemented by every *Slot. Bodies that are shared between the
// slots of an object take a Stack so that they need not be generic.
type Stack interface {
	push(id ID) (st *state, conflict bool)
	pop()
	at(level int) *state
	depth() int
	capacity() int
}

// Slot is the call nesting stack of one independently resumable entry point.
//
// The type parameter D fixes how many resumable bodies may be nested within
// one call to the entry point, the entry point itself included. Objects
// embed one Slot per entry point they want to be able to run independently,
// for example one for initialization and one for periodic updates.
//
// The zero value is ready to use; no body is running.
type Slot[D Depth] struct {
	levels D
	level  int
}

var (
	_ Stack  = (*Slot[Depth1])(nil)
	_ Stack  = (*Slot[Depth8])(nil)
	_ Callee = (*Slot[Depth1])(nil)
)

func (s *Slot[D]) push(id ID) (*state, bool) {
	if s.level >= len(s.levels) {
		panic(&NestingError{Depth: s.level + 1, Capacity: len(s.levels)})
	}
	st := &s.levels[s.level]
	s.level++

	switch {
	case st.running && st.owner != 0 && st.owner != id:
		return st, true
	case st.running:
		st.owner = id
	case st.marker == Stopped && st.owner == id:
		// Finished bodies stay finished until rearmed.
	default:
		*st = state{marker: Fresh, owner: id, running: true}
	}
	return st, false
}

func (s *Slot[D]) pop() {
	if s.level == 0 {
		panic("resumable: pop on a slot with no active body")
	}
	s.level--
}

func (s *Slot[D]) at(level int) *state { return &s.levels[level] }

func (s *Slot[D]) depth() int { return s.level }

func (s *Slot[D]) capacity() int { return len(s.levels) }

// Restart makes the entry point start over from the top on the next poll,
// regardless of what it was doing. Any body may claim the slot.
func (s *Slot[D]) Restart() {
	var zero D
	s.levels = zero
	s.levels[0].running = true
}

// Stop stops the body running at the entry point. It keeps reporting
// Finished until the slot is restarted or rearmed.
func (s *Slot[D]) Stop() {
	owner := s.levels[0].owner
	var zero D
	s.levels = zero
	s.levels[0] = state{marker: Stopped, owner: owner}
}

// Rearm makes a slot that is not running startable again, so that the next
// body entering it starts fresh. It returns false, and leaves the slot
// alone, if a body is still running.
func (s *Slot[D]) Rearm() bool {
	if s.levels[0].running {
		return false
	}
	var zero D
	s.levels = zero
	return true
}

// reset makes the slot idle whatever its state. It panics if a body is
// executing on the slot, since that body's frame would be lost.
func (s *Slot[D]) reset() {
	if s.level != 0 {
		panic("resumable: reset of a slot with an executing body")
	}
	var zero D
	s.levels = zero
}

// Running returns true if a body started at the entry point and has not
// finished yet, or if the slot was restarted.
func (s *Slot[D]) Running() bool { return s.levels[0].running }

// Depth returns the nesting depth of the body currently executing on the
// slot, or -1 when no body is executing.
func (s *Slot[D]) Depth() int { return s.level - 1 }

// Capacity returns the maximum nesting depth of the slot.
func (s *Slot[D]) Capacity() int { return len(s.levels) }

// Marker returns the continuation marker stored at the given nesting level.
func (s *Slot[D]) Marker(level int) Marker { return s.levels[level].marker }
