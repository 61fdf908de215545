package ads101x_test

import (
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

type rig struct {
	clock *timeout.FakeClock
	sim   *ads101xsim.ADS1015
	bus   *i2csim.Bus
	m     *i2c.Master
}

func newRig() *rig {
	clock := timeout.NewFakeClock(time.Unix(0, 0))
	r := &rig{
		clock: clock,
		sim:   ads101xsim.New(clock),
		bus:   i2csim.NewBus(),
	}
	r.bus.Attach(ads101x.Address, r.sim)
	r.m = i2c.NewMaster(r.bus)
	return r
}

// drive polls an operation until it finishes, updating the master and
// advancing the clock by 100µs between polls.
func (r *rig) drive(t *testing.T, poll func() resumable.Result[bool]) bool {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if res := poll(); res.Done() {
			return res.Value
		}
		r.m.Update()
		r.clock.Advance(100 * time.Microsecond)
	}
	t.Fatal("operation did not finish")
	return false
}

func TestInitialize(t *testing.T) {
	r := newRig()
	d := ads101x.New(r.m, ads101x.Address, ads101x.WithClock(r.clock))

	require.True(t, r.drive(t, d.Initialize))
	require.Equal(t, ads101x.DefaultConfig, d.ConfigRegister())
	require.Equal(t, ads101x.DefaultConfig|ads101x.ConfigOS, r.sim.Config())
}

func TestInitializeAbsent(t *testing.T) {
	r := newRig()
	d := ads101x.New(r.m, ads101x.Address+1)

	require.False(t, r.drive(t, d.Initialize))
	require.Equal(t, i2c.Error, d.Transaction().State())
}

func TestMeasure(t *testing.T) {
	r := newRig()
	r.sim.SetInput(0, 1.5)
	r.sim.SetInput(1, 3.0)
	d := ads101x.New(r.m, ads101x.Address, ads101x.WithClock(r.clock))

	require.True(t, r.drive(t, d.Initialize))
	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.Measure(ads101x.Input4) }))
	require.Equal(t, int16(1500), d.Data().Value())
	require.InDelta(t, 1.5, d.Data().Voltage(), 1e-6)

	// A finished operation keeps reporting its end until the slot is
	// rearmed.
	res := d.Measure(ads101x.Input5)
	require.True(t, res.Done())
	require.False(t, res.Value)
	require.True(t, d.Rearm())

	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.SetFullScaleRange(ads101x.V4_096) }))
	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.Measure(ads101x.Input5) }))
	require.Equal(t, int16(1500), d.Data().Value())
	require.InDelta(t, 3.0, d.Data().Voltage(), 1e-6)
}

func TestMeasureNegative(t *testing.T) {
	r := newRig()
	r.sim.SetInput(0, 0.5)
	r.sim.SetInput(1, 1.0)
	d := ads101x.New(r.m, ads101x.Address, ads101x.WithClock(r.clock))

	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.Measure(ads101x.Input0) }))
	require.Equal(t, int16(-500), d.Data().Value())
}

func TestMeasureTimeout(t *testing.T) {
	r := newRig()
	d := ads101x.New(r.m, ads101x.Address,
		ads101x.WithClock(r.clock),
		ads101x.WithConversionTimeout(100*time.Microsecond))

	require.False(t, r.drive(t, func() resumable.Result[bool] { return d.Measure(ads101x.Input4) }))
	require.False(t, d.Running())
}

func TestThresholds(t *testing.T) {
	r := newRig()
	d := ads101x.New(r.m, ads101x.Address)

	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.SetLowThreshold(-100) }))
	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.SetHighThreshold(1000) }))
	low, high := r.sim.Thresholds()
	require.Equal(t, uint16(0xf9c0), low)
	require.Equal(t, uint16(1000<<4|0x0f), high)

	// Out of range values saturate.
	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.SetLowThreshold(-5000) }))
	require.True(t, r.drive(t, func() resumable.Result[bool] { return d.SetHighThreshold(5000) }))
	low, high = r.sim.Thresholds()
	require.Equal(t, uint16(0x8000), low)
	require.Equal(t, uint16(0x7fff), high)

	require.True(t, r.drive(t, d.EnableConversionReadyFunction))
	low, high = r.sim.Thresholds()
	require.Equal(t, uint16(0x0000), low)
	require.Equal(t, uint16(0x8000), high)
	require.Zero(t, d.ConfigRegister()&ads101x.ConfigCompQue)
}

func TestEnableComparator(t *testing.T) {
	r := newRig()
	d := ads101x.New(r.m, ads101x.Address)
	require.True(t, r.drive(t, d.Initialize))

	require.True(t, r.drive(t, func() resumable.Result[bool] {
		return d.EnableComparator(ads101x.Window, ads101x.ActiveHigh, ads101x.Latching, ads101x.FourConversions)
	}))
	expect := ads101x.DefaultConfig&^ads101x.ConfigCompQue |
		ads101x.ConfigCompMode | ads101x.ConfigCompPol | ads101x.ConfigCompLat | uint16(ads101x.FourConversions)
	require.Equal(t, expect, d.ConfigRegister())
	require.Equal(t, expect|ads101x.ConfigOS, r.sim.Config())

	require.True(t, d.Rearm())
	require.True(t, r.drive(t, func() resumable.Result[bool] {
		return d.EnableComparator(ads101x.Traditional, ads101x.ActiveLow, ads101x.Nonlatching, ads101x.DisableQueue)
	}))
	require.Equal(t, ads101x.DefaultConfig, d.ConfigRegister())
	require.Equal(t, ads101x.DefaultConfig|ads101x.ConfigOS, r.sim.Config())
}

func TestContinuousConversion(t *testing.T) {
	r := newRig()
	r.sim.SetInput(2, 0.25)
	d := ads101x.New(r.m, ads101x.Address)

	require.True(t, r.drive(t, func() resumable.Result[bool] {
		return d.StartContinuousConversion(ads101x.Input6, ads101x.Sps3300)
	}))
	require.Zero(t, d.ConfigRegister()&ads101x.ConfigMode)

	r.clock.Advance(time.Millisecond)
	require.True(t, r.drive(t, d.ReadConversionResult))
	require.Equal(t, int16(250), d.Data().Value())
}

func TestData(t *testing.T) {
	tests := []struct {
		scale ads101x.FullScaleRange
		lsb   float32
	}{
		{ads101x.V6_144, 0.003},
		{ads101x.V4_096, 0.002},
		{ads101x.V2_048, 0.001},
		{ads101x.V1_024, 0.0005},
		{ads101x.V0_512, 0.00025},
		{ads101x.V0_256, 0.000125},
	}
	for _, test := range tests {
		require.Equal(t, test.lsb, test.scale.LSB())
	}
}
