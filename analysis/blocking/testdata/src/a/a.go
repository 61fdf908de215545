package a

import (
	"sync"
	"time"

	"github.com/stealthrocket/resumable"
)

type device struct {
	resumable.Thread
	ch   chan int
	wg   sync.WaitGroup
	cond *sync.Cond
}

func (d *device) Run() resumable.Status {
	switch d.Begin() {
	case resumable.Fresh:
		time.Sleep(time.Millisecond) // want "time.Sleep blocks the driving loop"
		d.wg.Wait()                  // want "sync.WaitGroup.Wait blocks the driving loop"
		d.cond.Wait()                // want "sync.Cond.Wait blocks the driving loop"
		d.ch <- 1                    // want "channel send blocks the driving loop"
		_ = <-d.ch                   // want "channel receive blocks the driving loop"
		for range d.ch {             // want "range over a channel blocks the driving loop"
		}
	}
	return d.End()
}

func (d *device) poll() resumable.Status {
	select {
	case v := <-d.ch:
		_ = v
		return d.Suspend()
	default:
	}
	select { // want "select without default blocks the driving loop"
	case d.ch <- 1:
		<-d.ch // want "channel receive blocks the driving loop"
	}
	return d.End()
}

func (d *device) dispatch() resumable.Result[int] {
	f := resumable.Begin[int](nil, 1)
	switch f.Marker() { // want "default case in a dispatch switch"
	case resumable.Fresh:
		return f.Suspend()
	default:
	}
	return f.End()
}

func (d *device) nested() resumable.Result[bool] {
	v := resumable.Block(d.dispatch) // want "resumable.Block busy-waits inside a body"
	resumable.Drive(d, 10)           // want "resumable.Drive busy-waits inside a body"
	_ = v
	go func() {
		time.Sleep(time.Second)
		d.wg.Wait()
	}()
	return resumable.Result[bool]{Status: resumable.Finished}
}

// Plain functions may block.
func (d *device) Close() {
	d.wg.Wait()
	<-d.ch
	time.Sleep(time.Millisecond)
}

func (d *device) ok() resumable.Status {
	switch d.Begin() {
	case resumable.Fresh:
		select {
		case d.ch <- 1:
		default:
			return d.Suspend()
		}
	}
	return d.End()
}
