package resumable

import "testing"

func TestBlock(t *testing.T) {
	var s Slot[Depth1]
	b := new(bodies)
	ticks := 0

	v := Block(func() Result[bool] { return b.inner(&s) }, func() { ticks++ })
	if !v {
		t.Error("unexpected value")
	}
	if ticks != 2 {
		t.Errorf("background ran %d times, expect 2", ticks)
	}
}

func TestDrive(t *testing.T) {
	a := new(attempts)

	polls, done := Drive(a, 2)
	if done || polls != 2 {
		t.Fatalf("got (%d, %v), expect (2, false)", polls, done)
	}
	polls, done = Drive(a, 10)
	if !done || polls != 2 {
		t.Fatalf("got (%d, %v), expect (2, true)", polls, done)
	}
}

func TestZeroResultIsPending(t *testing.T) {
	var r Result[int]
	if r.Status != Suspended || !r.Pending() || r.Done() {
		t.Fatalf("zero result: got %v, expect %v", r.Status, Suspended)
	}
	if _, ok := r.Get(); ok {
		t.Error("zero result has a value")
	}
	if s := Status(0).String(); s != "suspended" {
		t.Errorf("zero status: got %q", s)
	}
}
