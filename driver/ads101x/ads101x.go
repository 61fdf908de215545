// Package ads101x is a driver for the ADS1013, ADS1014 and ADS1015 12-bit
// analog-to-digital converters. Every operation is a resumable body that
// the application polls until it finishes.
package ads101x

import (
	"time"

	"github.com/golang/glog"

	"github.com/stealthrocket/resumable"
	"github.com/stealthrocket/resumable/i2c"
	"github.com/stealthrocket/resumable/timeout"
)

// Address is the default address of the device, with ADDR tied to ground.
const Address = 0x48

const (
	initializeID resumable.ID = i2c.FirstID + iota
	startSingleShotID
	startContinuousID
	isBusyID
	readResultID
	setFullScaleRangeID
	setLowThresholdID
	setHighThresholdID
	enableReadyID
	measureID
	writeRegisterID
	readRegisterID
	enableComparatorID
)

// Device is an ADS101x on an I2C bus. Operations nest up to four levels
// deep: Measure, StartSingleShotConversion, the register write and the
// transaction.
type Device struct {
	i2c.Device[resumable.Depth4]

	buffer  [3]byte
	config  uint16
	pending uint16
	data    Data

	input             InputMultiplexer
	timeout           timeout.Timeout
	conversionTimeout time.Duration
}

// Option configures a Device.
type Option func(*Device)

// WithClock sets the clock Measure times conversions with.
func WithClock(c timeout.Clock) Option {
	return func(d *Device) {
		d.timeout = timeout.New(c)
	}
}

// WithConversionTimeout sets how long Measure waits for a conversion.
func WithConversionTimeout(t time.Duration) Option {
	return func(d *Device) {
		d.conversionTimeout = t
	}
}

// New returns a driver for the device at address on the bus of m.
func New(m *i2c.Master, address uint16, options ...Option) *Device {
	d := &Device{
		Device:            i2c.MakeDevice[resumable.Depth4](m, address),
		config:            DefaultConfig,
		conversionTimeout: 10 * time.Millisecond,
	}
	d.data.scale = V2_048
	for _, opt := range options {
		opt(d)
	}
	return d
}

// Data returns the last conversion result read by ReadConversionResult.
func (d *Device) Data() Data { return d.data }

// ConfigRegister returns the config the driver last wrote to the device.
func (d *Device) ConfigRegister() uint16 { return d.config }

const (
	writeRegisterRun resumable.Marker = iota + 1
)

func (d *Device) writeRegister(reg Register, value uint16) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, writeRegisterID)
	switch f.Marker() {
	case resumable.Fresh:
		if !d.Transaction().ConfigureWrite(d.buffer[:3]) {
			return f.Suspend()
		}
		d.buffer = [3]byte{byte(reg), byte(value >> 8), byte(value)}
		f.Call(writeRegisterRun)
		fallthrough
	case writeRegisterRun:
		r := d.RunTransaction()
		if r.Pending() {
			return f.Suspend()
		}
		return f.Return(r.Value)
	}
	return f.End()
}

const (
	readRegisterRun resumable.Marker = iota + 1
)

// readRegister finishes with the value of reg and true, or false if the
// transfer failed.
func (d *Device) readRegister(reg Register) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, readRegisterID)
	switch f.Marker() {
	case resumable.Fresh:
		if !d.Transaction().ConfigureWriteRead(d.buffer[:1], d.buffer[1:3]) {
			return f.Suspend()
		}
		d.buffer[0] = byte(reg)
		f.Call(readRegisterRun)
		fallthrough
	case readRegisterRun:
		r := d.RunTransaction()
		if r.Pending() {
			return f.Suspend()
		}
		return f.Return(r.Value)
	}
	return f.End()
}

func (d *Device) registerValue() uint16 {
	return uint16(d.buffer[1])<<8 | uint16(d.buffer[2])
}

const (
	configWrite resumable.Marker = iota + 1
)

// writeConfig writes d.pending to the config register and keeps it as the
// current config if the write succeeded.
func (d *Device) writeConfig(f *resumable.Frame[bool]) resumable.Result[bool] {
	r := d.writeRegister(Config, d.pending)
	if r.Pending() {
		return f.Suspend()
	}
	if r.Value {
		d.config = d.pending &^ ConfigOS
	}
	return f.Return(r.Value)
}

// Initialize writes DefaultConfig to the device.
func (d *Device) Initialize() resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, initializeID)
	switch f.Marker() {
	case resumable.Fresh:
		d.pending = DefaultConfig
		f.Call(configWrite)
		fallthrough
	case configWrite:
		return d.writeConfig(&f)
	}
	return f.End()
}

// StartSingleShotConversion starts one conversion of input. The device
// powers down once it completes.
func (d *Device) StartSingleShotConversion(input InputMultiplexer) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, startSingleShotID)
	switch f.Marker() {
	case resumable.Fresh:
		d.pending = d.config&^ConfigMux | uint16(input) | ConfigOS | ConfigMode
		f.Call(configWrite)
		fallthrough
	case configWrite:
		return d.writeConfig(&f)
	}
	return f.End()
}

// StartContinuousConversion makes the device convert input continuously at
// the given rate.
func (d *Device) StartContinuousConversion(input InputMultiplexer, rate DataRate) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, startContinuousID)
	switch f.Marker() {
	case resumable.Fresh:
		d.pending = d.config&^(ConfigMux|ConfigMode|ConfigDataRate) | uint16(input) | uint16(rate)
		f.Call(configWrite)
		fallthrough
	case configWrite:
		return d.writeConfig(&f)
	}
	return f.End()
}

// SetFullScaleRange sets the gain of the amplifier for the next
// conversions.
func (d *Device) SetFullScaleRange(r FullScaleRange) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, setFullScaleRangeID)
	switch f.Marker() {
	case resumable.Fresh:
		d.pending = d.config&^ConfigPGA | uint16(r)
		f.Call(configWrite)
		fallthrough
	case configWrite:
		return d.writeConfig(&f)
	}
	return f.End()
}

const (
	isBusyRead resumable.Marker = iota + 1
)

// IsBusy reads the config register and finishes with true while a
// conversion is in progress. A failed read counts as busy.
func (d *Device) IsBusy() resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, isBusyID)
	switch f.Marker() {
	case resumable.Fresh:
		f.Call(isBusyRead)
		fallthrough
	case isBusyRead:
		r := d.readRegister(Config)
		if r.Pending() {
			return f.Suspend()
		}
		if !r.Value {
			return f.Return(true)
		}
		return f.Return(d.registerValue()&ConfigOS == 0)
	}
	return f.End()
}

const (
	readResultRead resumable.Marker = iota + 1
)

// ReadConversionResult reads the conversion register into Data.
func (d *Device) ReadConversionResult() resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, readResultID)
	switch f.Marker() {
	case resumable.Fresh:
		f.Call(readResultRead)
		fallthrough
	case readResultRead:
		r := d.readRegister(Conversion)
		if r.Pending() {
			return f.Suspend()
		}
		if r.Value {
			d.data = Data{
				raw:   [2]byte{d.buffer[1], d.buffer[2]},
				scale: FullScaleRange(d.config & ConfigPGA),
			}
		}
		return f.Return(r.Value)
	}
	return f.End()
}

// threshold converts a signed 12-bit value, clamped to -2048..2047, to its
// register layout. The four unused low bits are set in the high threshold so
// that a full scale result does not trip it.
func threshold(v int16, high bool) uint16 {
	r := uint16(min(max(v, -2048), 2047)) << 4
	if high {
		r |= 0x0F
	}
	return r
}

const (
	thresholdWrite resumable.Marker = iota + 1
)

// SetLowThreshold sets the low threshold of the comparator.
func (d *Device) SetLowThreshold(v int16) resumable.Result[bool] {
	return d.setThreshold(setLowThresholdID, LowThreshold, v)
}

// SetHighThreshold sets the high threshold of the comparator.
func (d *Device) SetHighThreshold(v int16) resumable.Result[bool] {
	return d.setThreshold(setHighThresholdID, HighThreshold, v)
}

func (d *Device) setThreshold(id resumable.ID, reg Register, v int16) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, id)
	switch f.Marker() {
	case resumable.Fresh:
		d.pending = threshold(v, reg == HighThreshold)
		f.Call(thresholdWrite)
		fallthrough
	case thresholdWrite:
		r := d.writeRegister(reg, d.pending)
		if r.Pending() {
			return f.Suspend()
		}
		return f.Return(r.Value)
	}
	return f.End()
}

const (
	enableReadyHigh resumable.Marker = iota + 1
	enableReadyLow
	enableReadyConfig
)

// EnableConversionReadyFunction turns the ALERT/RDY pin into a conversion
// ready signal: the MSB of the high threshold is set, the MSB of the low
// threshold is cleared and the comparator asserts after one conversion.
func (d *Device) EnableConversionReadyFunction() resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, enableReadyID)
	switch f.Marker() {
	case resumable.Fresh:
		f.Call(enableReadyHigh)
		fallthrough
	case enableReadyHigh:
		if r := d.writeRegister(HighThreshold, 0x8000); r.Pending() {
			return f.Suspend()
		} else if !r.Value {
			return f.Return(false)
		}
		f.Call(enableReadyLow)
		fallthrough
	case enableReadyLow:
		if r := d.writeRegister(LowThreshold, 0x0000); r.Pending() {
			return f.Suspend()
		} else if !r.Value {
			return f.Return(false)
		}
		d.pending = d.config&^ConfigCompQue | uint16(OneConversion)
		f.Call(enableReadyConfig)
		fallthrough
	case enableReadyConfig:
		return d.writeConfig(&f)
	}
	return f.End()
}

const (
	comparatorConfig resumable.Marker = iota + 1
)

// EnableComparator configures the comparator driving the ALERT/RDY pin. The
// queue sets how many consecutive conversions must exceed a threshold before
// the pin asserts; DisableQueue turns the comparator off.
func (d *Device) EnableComparator(mode ComparatorMode, polarity ComparatorPolarity, latch ComparatorLatch, queue ComparatorQueue) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, enableComparatorID)
	switch f.Marker() {
	case resumable.Fresh:
		d.pending = d.config&^(ConfigCompMode|ConfigCompPol|ConfigCompLat|ConfigCompQue) |
			uint16(mode)&ConfigCompMode |
			uint16(polarity)&ConfigCompPol |
			uint16(latch)&ConfigCompLat |
			uint16(queue)&ConfigCompQue
		f.Call(comparatorConfig)
		fallthrough
	case comparatorConfig:
		return d.writeConfig(&f)
	}
	return f.End()
}

const (
	measureStart resumable.Marker = iota + 1
	measurePoll
	measureRead
)

// Measure converts input once and reads the result into Data. It finishes
// with false if a transfer failed or the conversion did not complete within
// the conversion timeout.
func (d *Device) Measure(input InputMultiplexer) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, measureID)
	switch f.Marker() {
	case resumable.Fresh:
		d.input = input
		f.Call(measureStart)
		fallthrough
	case measureStart:
		if r := d.StartSingleShotConversion(d.input); r.Pending() {
			return f.Suspend()
		} else if !r.Value {
			return f.Return(false)
		}
		d.timeout.Restart(d.conversionTimeout)
		f.Call(measurePoll)
		fallthrough
	case measurePoll:
		r := d.IsBusy()
		if r.Pending() {
			return f.Suspend()
		}
		if r.Value {
			if d.timeout.Expired() {
				glog.Warningf("ads101x: conversion of 0x%02x timed out after %v", d.Transaction().Address(), d.conversionTimeout)
				return f.Return(false)
			}
			f.Call(measurePoll)
			return f.Suspend()
		}
		d.timeout.Stop()
		f.Call(measureRead)
		fallthrough
	case measureRead:
		r := d.ReadConversionResult()
		if r.Pending() {
			return f.Suspend()
		}
		if r.Value {
			glog.V(2).Infof("ads101x: 0x%02x read %vV", d.Transaction().Address(), d.data.Voltage())
		}
		return f.Return(r.Value)
	}
	return f.End()
}
