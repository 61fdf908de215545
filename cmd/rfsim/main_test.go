package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stealthrocket/resumable"
	"github.com/stealthrocket/resumable/driver/ads101x"
	"github.com/stealthrocket/resumable/driver/ads101x/ads101xsim"
	"github.com/stealthrocket/resumable/i2c"
	"github.com/stealthrocket/resumable/i2c/i2csim"
	"github.com/stealthrocket/resumable/timeout"
)

func TestSimulate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := simulate(ctx, cancel, config{
		interval:  100 * time.Microsecond,
		period:    5 * time.Millisecond,
		samples:   3,
		latency:   1,
		amplitude: 1,
		frequency: 1,
	})
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestSamplerSkipsBusyConverter(t *testing.T) {
	clock := timeout.NewFakeClock(time.Unix(0, 0))
	bus := i2csim.NewBus()
	bus.Attach(ads101x.Address, ads101xsim.New(clock))
	master := i2c.NewMaster(bus)

	adc := ads101x.New(master, ads101x.Address, ads101x.WithClock(clock))
	require.True(t, adc.Measure(ads101x.Input4).Pending())

	s := &sampler{
		adc:    adc,
		period: timeout.NewPeriodic(clock, time.Millisecond),
		done:   func() {},
	}
	s.Set(samplerWait)
	clock.Advance(time.Millisecond)

	require.Equal(t, resumable.Suspended, s.Run())
	require.Equal(t, 0, s.samples)
	require.Equal(t, samplerWait, s.Begin())
	require.True(t, adc.Running())
}

func TestEnvDuration(t *testing.T) {
	const name = "RFSIM_TEST_INTERVAL"
	defer os.Unsetenv(name)

	require.Equal(t, time.Second, envDuration(name, time.Second))
	os.Setenv(name, "250us")
	require.Equal(t, 250*time.Microsecond, envDuration(name, time.Second))
	os.Setenv(name, "soon")
	require.Equal(t, time.Second, envDuration(name, time.Second))
}
