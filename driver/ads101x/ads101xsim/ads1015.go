// Package ads101xsim simulates an ADS1015 as a target of an i2csim.Bus.
package ads101xsim

import (
	"math"
	"sync"
	"time"

	"github.com/stealthrocket/resumable/driver/ads101x"
	"github.com/stealthrocket/resumable/timeout"
)

// ADS1015 is a simulated converter. Conversions take the time of one sample
// at the configured data rate, measured on the clock of the model.
type ADS1015 struct {
	mu      sync.Mutex
	clock   timeout.Clock
	pointer ads101x.Register
	config  uint16
	result  uint16
	low     uint16
	high    uint16
	inputs  [4]float64

	converting bool
	done       time.Time
}

// New returns a converter in its power-on state.
func New(c timeout.Clock) *ADS1015 {
	return &ADS1015{
		clock:  c,
		config: 0x8583,
		low:    0x8000,
		high:   0x7fff,
	}
}

// SetInput sets the voltage on analog input ch.
func (a *ADS1015) SetInput(ch int, volts float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inputs[ch] = volts
}

// Config returns the config register.
func (a *ADS1015) Config() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.update()
	return a.config
}

// Thresholds returns the low and high threshold registers.
func (a *ADS1015) Thresholds() (low, high uint16) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.low, a.high
}

func (a *ADS1015) Transfer(w, r []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.update()

	if len(w) > 0 {
		a.pointer = ads101x.Register(w[0] & 0b11)
	}
	if len(w) >= 3 {
		a.write(uint16(w[1])<<8 | uint16(w[2]))
	}
	if len(r) > 0 {
		v := a.read()
		r[0] = byte(v >> 8)
		if len(r) > 1 {
			r[1] = byte(v)
		}
	}
	return nil
}

func (a *ADS1015) write(v uint16) {
	switch a.pointer {
	case ads101x.Config:
		a.config = v &^ ads101x.ConfigOS
		if v&ads101x.ConfigMode == 0 || v&ads101x.ConfigOS != 0 {
			a.start()
		} else {
			a.config |= ads101x.ConfigOS
		}
	case ads101x.LowThreshold:
		a.low = v
	case ads101x.HighThreshold:
		a.high = v
	}
}

func (a *ADS1015) read() uint16 {
	switch a.pointer {
	case ads101x.Conversion:
		return a.result
	case ads101x.Config:
		return a.config
	case ads101x.LowThreshold:
		return a.low
	default:
		return a.high
	}
}

func (a *ADS1015) start() {
	rate := ads101x.DataRate(a.config & ads101x.ConfigDataRate)
	a.converting = true
	a.done = a.clock.Now().Add(time.Second / time.Duration(rate.SamplesPerSecond()))
}

// update completes the conversion in progress if its time has come.
func (a *ADS1015) update() {
	if !a.converting || a.clock.Now().Before(a.done) {
		return
	}
	a.result = a.sample()
	if a.config&ads101x.ConfigMode != 0 {
		a.converting = false
		a.config |= ads101x.ConfigOS
	} else {
		a.start()
	}
}

func (a *ADS1015) sample() uint16 {
	var volts float64
	switch ads101x.InputMultiplexer(a.config & ads101x.ConfigMux) {
	case ads101x.Input0:
		volts = a.inputs[0] - a.inputs[1]
	case ads101x.Input1:
		volts = a.inputs[0] - a.inputs[3]
	case ads101x.Input2:
		volts = a.inputs[1] - a.inputs[3]
	case ads101x.Input3:
		volts = a.inputs[2] - a.inputs[3]
	case ads101x.Input4:
		volts = a.inputs[0]
	case ads101x.Input5:
		volts = a.inputs[1]
	case ads101x.Input6:
		volts = a.inputs[2]
	case ads101x.Input7:
		volts = a.inputs[3]
	}
	lsb := float64(ads101x.FullScaleRange(a.config & ads101x.ConfigPGA).LSB())
	v := math.Round(volts / lsb)
	v = math.Max(-2048, math.Min(2047, v))
	return uint16(int16(v)) << 4
}
