package timeout

import "time"

// State is the state of a timer.
type State uint8

const (
	// Stopped timers were never started, or were stopped.
	Stopped State = iota
	// Armed timers have not reached their deadline yet.
	Armed
	// Expired timers reached their deadline.
	Expired
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Armed:
		return "armed"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Timeout expires once a duration has passed since it was last restarted.
//
// The zero value uses the System clock and is stopped. A stopped timeout is
// neither armed nor expired.
type Timeout struct {
	clock    Clock
	deadline time.Time
	started  bool
	executed bool
}

// New returns a stopped timeout reading time from c.
func New(c Clock) Timeout {
	return Timeout{clock: c}
}

func (t *Timeout) now() time.Time {
	if t.clock == nil {
		return System.Now()
	}
	return t.clock.Now()
}

// Restart arms the timeout to expire d from now. A zero duration expires
// immediately; a negative duration stops the timeout.
func (t *Timeout) Restart(d time.Duration) {
	if d < 0 {
		t.Stop()
		return
	}
	t.deadline = t.now().Add(d)
	t.started, t.executed = true, false
}

// Stop disarms the timeout.
func (t *Timeout) Stop() { t.started, t.executed = false, false }

// State returns the current state of the timeout.
func (t *Timeout) State() State {
	switch {
	case !t.started:
		return Stopped
	case t.now().Before(t.deadline):
		return Armed
	default:
		return Expired
	}
}

// Stopped returns true if the timeout is stopped.
func (t *Timeout) Stopped() bool { return !t.started }

// Running returns true if the timeout is armed and has not expired yet.
func (t *Timeout) Running() bool { return t.State() == Armed }

// Expired returns true once the deadline passed, until the timeout is
// restarted or stopped.
func (t *Timeout) Expired() bool { return t.State() == Expired }

// Execute returns true exactly once after the timeout expired.
func (t *Timeout) Execute() bool {
	if t.executed || t.State() != Expired {
		return false
	}
	t.executed = true
	return true
}

// Remaining returns the time left until the deadline, negative once it
// passed, and zero if the timeout is stopped.
func (t *Timeout) Remaining() time.Duration {
	if !t.started {
		return 0
	}
	return t.deadline.Sub(t.now())
}

// Periodic fires once every period. Its deadlines stay on the grid of the
// period it was started with, even when it is polled late.
//
// The zero value uses the System clock and is stopped.
type Periodic struct {
	timeout Timeout
	period  time.Duration
}

// NewPeriodic returns a periodic timer reading time from c, started with
// the given period.
func NewPeriodic(c Clock, period time.Duration) Periodic {
	p := Periodic{timeout: New(c)}
	p.Restart(period)
	return p
}

// Restart restarts the timer with a new period; it fires first one period
// from now.
func (p *Periodic) Restart(period time.Duration) {
	p.period = period
	p.timeout.Restart(period)
}

// Stop stops the timer; Execute returns 0 until it is restarted.
func (p *Periodic) Stop() { p.timeout.Stop() }

// State returns the state of the current period.
func (p *Periodic) State() State { return p.timeout.State() }

// Running returns true if the timer is started.
func (p *Periodic) Running() bool { return p.timeout.started }

// Remaining returns the time left until the end of the current period,
// negative if the timer is late.
func (p *Periodic) Remaining() time.Duration { return p.timeout.Remaining() }

// Execute returns the number of periods that elapsed since the last call
// that returned non-zero, and schedules the next deadline on the period grid
// after now. It returns 0 while the current period is running.
func (p *Periodic) Execute() int {
	t := &p.timeout
	if t.State() != Expired {
		return 0
	}
	now := t.now()
	if p.period <= 0 {
		t.deadline = now
		return 1
	}
	late := now.Sub(t.deadline)
	count := int((late + p.period - 1) / p.period)
	if count == 0 {
		count = 1
	}
	t.deadline = t.deadline.Add(p.period * (late/p.period + 1))
	return count
}
