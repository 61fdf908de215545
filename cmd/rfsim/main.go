// Command rfsim samples a simulated ADS1015 through the resumable I2C stack,
// driven by a loop.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"

	"github.com/stealthrocket/resumable/driver/ads101x"
	"github.com/stealthrocket/resumable/driver/ads101x/ads101xsim"
	"github.com/stealthrocket/resumable/i2c"
	"github.com/stealthrocket/resumable/i2c/i2csim"
	"github.com/stealthrocket/resumable/loop"
	"github.com/stealthrocket/resumable/timeout"
)

const usage = `
rfsim samples a simulated ADC through resumable drivers.

USAGE:
  rfsim [OPTIONS]

OPTIONS:
`

type config struct {
	interval  time.Duration
	period    time.Duration
	samples   int
	latency   int
	amplitude float64
	frequency float64
	dump      bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var c config
	flag.DurationVar(&c.interval, "interval", envDuration("RFSIM_INTERVAL", loop.DefaultInterval), "period of the driving loop (env RFSIM_INTERVAL)")
	flag.DurationVar(&c.period, "period", 100*time.Millisecond, "sampling period")
	flag.IntVar(&c.samples, "samples", 10, "number of samples to take, 0 to sample until interrupted")
	flag.IntVar(&c.latency, "latency", 2, "polls of the bus master before a transfer happens")
	flag.Float64Var(&c.amplitude, "amplitude", 1.5, "amplitude of the simulated signal in volts")
	flag.Float64Var(&c.frequency, "frequency", 1, "frequency of the simulated signal in hertz")
	flag.BoolVar(&c.dump, "dump", false, "print a snapshot of the driver slot after each sample")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage[1:])
		flag.PrintDefaults()
	}
	flag.Parse()
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	_, err := simulate(ctx, cancel, c)
	return err
}

// simulate runs the sampler until it took c.samples samples or ctx is
// done, and returns the number of samples taken.
func simulate(ctx context.Context, done func(), c config) (int, error) {
	clock := timeout.System
	adc := ads101xsim.New(clock)
	bus := i2csim.NewBus()
	bus.Attach(ads101x.Address, adc)

	master := i2c.NewMaster(bus)
	master.Latency = c.latency

	s := &sampler{
		adc:    ads101x.New(master, ads101x.Address, ads101x.WithClock(clock)),
		period: timeout.NewPeriodic(clock, c.period),
		max:    c.samples,
		dump:   c.dump,
		done:   done,
	}

	start := clock.Now()
	sampling := loop.New()
	sampling.Interval = c.interval
	sampling.AddFunc("signal", func() {
		t := clock.Now().Sub(start).Seconds()
		adc.SetInput(0, c.amplitude*math.Sin(2*math.Pi*c.frequency*t))
	})
	sampling.Add("sampler", s)
	sampling.AddFunc("i2c", master.Update)

	heartbeat := loop.New()
	heartbeat.Interval = time.Second
	heartbeat.AddFunc("stats", func() {
		glog.V(1).Infof("rfsim: %d transfers on the bus", bus.Transfers())
	})

	glog.V(1).Infof("rfsim: sampling every %v, loop interval %v", c.period, c.interval)
	err := loop.RunAll(ctx, sampling, heartbeat)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	transfers, failures := master.Stats()
	glog.Infof("rfsim: %d samples, %d transfers, %d failed", s.samples, transfers, failures)
	return s.samples, err
}

func envDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		glog.Warningf("rfsim: ignoring %s=%q: %v", name, v, err)
		return fallback
	}
	return d
}
