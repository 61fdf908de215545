// Package loop drives resumable bodies: a Loop polls its tasks in the order
// they were added, once per iteration, forever.
package loop

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/stealthrocket/resumable"
)

// DefaultInterval is the iteration period of a Loop with no Interval.
const DefaultInterval = time.Millisecond

type task struct {
	name     string
	runner   resumable.Runner
	fn       func()
	finished bool
}

func (t *task) poll() {
	if t.fn != nil {
		t.fn()
		return
	}
	s := t.runner.Run()
	if glog.V(3) {
		glog.Infof("loop: %s %v", t.name, s)
	}
	switch {
	case s == resumable.Conflict:
		glog.Warningf("loop: %s conflicts with another body on its slot", t.name)
	case s == resumable.Finished && !t.finished:
		t.finished = true
		glog.V(1).Infof("loop: %s finished", t.name)
	case s != resumable.Finished:
		t.finished = false
	}
}

// Loop is a superloop. A Loop and the tasks it polls belong to one
// goroutine; only TriggerNext may be called from others. The zero value is
// ready to use.
type Loop struct {
	Interval time.Duration

	tasks      []*task
	iterations uint64
	wakeUpOnce sync.Once
	wakeUpCh   chan struct{}
}

// New creates a Loop polling every DefaultInterval.
func New() *Loop {
	return &Loop{Interval: DefaultInterval}
}

func (l *Loop) wakeUp() chan struct{} {
	l.wakeUpOnce.Do(func() { l.wakeUpCh = make(chan struct{}, 1) })
	return l.wakeUpCh
}

// Add registers a runner, polled once per iteration. A finished runner
// keeps being polled so that it runs again when restarted.
func (l *Loop) Add(name string, r resumable.Runner) *Loop {
	l.tasks = append(l.tasks, &task{name: name, runner: r})
	return l
}

// AddFunc registers a function called once per iteration.
func (l *Loop) AddFunc(name string, f func()) *Loop {
	l.tasks = append(l.tasks, &task{name: name, fn: f})
	return l
}

// Step runs one iteration.
func (l *Loop) Step() {
	for _, t := range l.tasks {
		t.poll()
	}
	l.iterations++
}

// Iterations returns the number of iterations run so far.
func (l *Loop) Iterations() uint64 { return l.iterations }

// TriggerNext makes Run start the next iteration without waiting for the
// interval to elapse.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUp() <- struct{}{}:
	default:
	}
}

// Run iterates every Interval, and whenever TriggerNext is called, until
// ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	wakeUp := l.wakeUp()
	interval := l.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	glog.V(1).Infof("loop: running %d tasks every %v", len(l.tasks), interval)
	for {
		select {
		case <-ctx.Done():
			glog.V(1).Infof("loop: stopped after %d iterations", l.iterations)
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		case <-wakeUp:
			l.Step()
		}
	}
}

// Until steps the loop until r finishes, polling r after the tasks of each
// iteration. It returns the number of iterations run, or the error of ctx
// if it is done first.
func (l *Loop) Until(ctx context.Context, r resumable.Runner) (int, error) {
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return n - 1, err
		}
		l.Step()
		if r.Run() == resumable.Finished {
			return n, nil
		}
	}
}

// RunAll runs loops on their own goroutines until ctx is done. Loops must
// not share tasks.
func RunAll(ctx context.Context, loops ...*Loop) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, l := range loops {
		l := l
		group.Go(func() error { return l.Run(ctx) })
	}
	return group.Wait()
}
