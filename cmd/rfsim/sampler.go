package main

import (
	"encoding/hex"
	"fmt"

	"github.com/golang/glog"

	"github.com/stealthrocket/resumable"
	"github.com/stealthrocket/resumable/driver/ads101x"
	"github.com/stealthrocket/resumable/timeout"
)

// sampler initializes the converter, then measures input 4 once per
// period.
type sampler struct {
	resumable.Thread

	adc     *ads101x.Device
	period  timeout.Periodic
	samples int
	max     int
	dump    bool
	done    func()
}

const (
	samplerInitialize resumable.Marker = iota + 1
	samplerWait
	samplerMeasure
)

func (s *sampler) Run() resumable.Status {
	switch s.Begin() {
	case resumable.Fresh:
		s.Set(samplerInitialize)
		fallthrough
	case samplerInitialize:
		r := s.adc.Initialize()
		if r.Pending() {
			return s.Suspend()
		}
		if !r.Value {
			glog.Errorf("rfsim: ads1015 at 0x%02x did not initialize: %v", ads101x.Address, s.adc.Transaction().Err())
			return s.finish()
		}
		glog.V(1).Info("rfsim: ads1015 initialized")
		s.Set(samplerWait)
		fallthrough
	case samplerWait:
		switch n := s.period.Execute(); {
		case n == 0:
			return s.Suspend()
		case n > 1:
			glog.Warningf("rfsim: missed %d sampling periods", n-1)
		}
		if !s.adc.Rearm() {
			glog.Warning("rfsim: ads1015 still busy, sample skipped")
			return s.Suspend()
		}
		s.Set(samplerMeasure)
		fallthrough
	case samplerMeasure:
		r := s.adc.Measure(ads101x.Input4)
		if r.Pending() {
			return s.Suspend()
		}
		if r.Value {
			s.samples++
			fmt.Printf("%d\t%+.3fV\n", s.samples, s.adc.Data().Voltage())
		} else {
			glog.Warning("rfsim: measurement failed")
		}
		if s.dump {
			s.printSnapshot()
		}
		if s.max > 0 && s.samples >= s.max {
			return s.finish()
		}
		return s.Yield(samplerWait)
	}
	return s.End()
}

func (s *sampler) finish() resumable.Status {
	s.done()
	return s.Exit()
}

func (s *sampler) printSnapshot() {
	b, err := s.adc.MarshalAppend(nil)
	if err != nil {
		glog.Errorf("rfsim: snapshot: %v", err)
		return
	}
	fmt.Printf("\tslot %s\n", hex.EncodeToString(b))
}
