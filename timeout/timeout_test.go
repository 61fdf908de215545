package timeout

import (
	"testing"
	"time"
)

func TestTimeoutStopped(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	tests := []struct {
		name    string
		timeout func() Timeout
	}{
		{"zero", func() Timeout { return Timeout{} }},
		{"new", func() Timeout { return New(clock) }},
		{"negative", func() Timeout {
			timeout := New(clock)
			timeout.Restart(-10 * time.Millisecond)
			return timeout
		}},
		{"stopped", func() Timeout {
			timeout := New(clock)
			timeout.Restart(time.Second)
			timeout.Stop()
			return timeout
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			timeout := test.timeout()
			if s := timeout.State(); s != Stopped {
				t.Errorf("state: got %v, expect %v", s, Stopped)
			}
			if timeout.Expired() || timeout.Running() || !timeout.Stopped() {
				t.Error("stopped timeout is armed or expired")
			}
			if timeout.Execute() {
				t.Error("stopped timeout executed")
			}
			if r := timeout.Remaining(); r != 0 {
				t.Errorf("remaining: got %v, expect 0", r)
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	timeout := New(clock)

	timeout.Restart(10 * time.Millisecond)
	if s := timeout.State(); s != Armed {
		t.Fatalf("state after restart: got %v, expect %v", s, Armed)
	}
	if r := timeout.Remaining(); r != 10*time.Millisecond {
		t.Fatalf("remaining: got %v, expect 10ms", r)
	}

	for i := 1; i < 10; i++ {
		clock.Advance(time.Millisecond)
		if timeout.Execute() || timeout.Expired() {
			t.Fatalf("expired %dms before its deadline", 10-i)
		}
	}

	clock.Advance(time.Millisecond)
	if s := timeout.State(); s != Expired {
		t.Fatalf("state at deadline: got %v, expect %v", s, Expired)
	}
	if r := timeout.Remaining(); r != 0 {
		t.Fatalf("remaining at deadline: got %v, expect 0", r)
	}
	if !timeout.Execute() {
		t.Fatal("expired timeout did not execute")
	}
	if timeout.Execute() {
		t.Fatal("expired timeout executed twice")
	}

	clock.Advance(time.Millisecond)
	if !timeout.Expired() || timeout.Execute() {
		t.Fatal("expired timeout changed state")
	}
	if r := timeout.Remaining(); r != -time.Millisecond {
		t.Fatalf("remaining after deadline: got %v, expect -1ms", r)
	}

	timeout.Restart(0)
	if !timeout.Expired() || !timeout.Execute() {
		t.Fatal("zero timeout did not expire immediately")
	}
}

func TestPeriodic(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	p := NewPeriodic(clock, 10*time.Millisecond)

	tests := []struct {
		now       time.Duration
		count     int
		remaining time.Duration
	}{
		{5 * time.Millisecond, 0, 5 * time.Millisecond},
		{10 * time.Millisecond, 1, 10 * time.Millisecond},
		{10 * time.Millisecond, 0, 10 * time.Millisecond},
		{20 * time.Millisecond, 1, 10 * time.Millisecond},
		// Missed periods are counted and the timer stays on its grid.
		{100 * time.Millisecond, 7, 10 * time.Millisecond},
		{155 * time.Millisecond, 5, 5 * time.Millisecond},
		{159 * time.Millisecond, 0, time.Millisecond},
		{160 * time.Millisecond, 1, 10 * time.Millisecond},
		{165 * time.Millisecond, 0, 5 * time.Millisecond},
	}

	start := clock.Now()
	for _, test := range tests {
		clock.Advance(start.Add(test.now).Sub(clock.Now()))
		if count := p.Execute(); count != test.count {
			t.Fatalf("at %v: got %d periods, expect %d", test.now, count, test.count)
		}
		if r := p.Remaining(); r != test.remaining {
			t.Fatalf("at %v: remaining %v, expect %v", test.now, r, test.remaining)
		}
	}

	p.Stop()
	clock.Advance(time.Second)
	if p.Execute() != 0 || p.Running() || p.State() != Stopped {
		t.Fatal("stopped periodic timer fired")
	}

	p.Restart(0)
	if p.Execute() != 1 {
		t.Fatal("zero period did not fire")
	}
}
