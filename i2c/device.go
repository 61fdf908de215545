package i2c

import "github.com/stealthrocket/resumable"

// Ids of the bodies of Device. Drivers embedding a Device number their own
// bodies starting at FirstID so that conflicts on the slot are detected.
const (
	pingID resumable.ID = iota + 1
	runTransactionID
	writeReadID

	FirstID
)

// Device is the base of I2C device drivers. It owns the transaction of the
// device and the resumable slot its bodies run on; D fixes how deep driver
// bodies may nest, RunTransaction included.
type Device[D resumable.Depth] struct {
	resumable.Slot[D]

	master *Master
	tx     Transaction

	// Buffers of WriteRead, kept until the transaction is free.
	w, r []byte
}

// MakeDevice returns a device with the given address on the bus of m.
func MakeDevice[D resumable.Depth](m *Master, address uint16) Device[D] {
	d := Device[D]{master: m}
	d.tx.SetAddress(address)
	return d
}

// SetAddress changes the address of the device.
func (d *Device[D]) SetAddress(address uint16) { d.tx.SetAddress(address) }

// Transaction returns the transaction of the device, for drivers to
// configure before calling RunTransaction.
func (d *Device[D]) Transaction() *Transaction { return &d.tx }

const (
	runStart resumable.Marker = iota + 1
	runWait
)

// RunTransaction waits for the bus, starts the configured transaction and
// waits for its completion. It finishes with true if the transfer succeeded.
func (d *Device[D]) RunTransaction() resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, runTransactionID)
	switch f.Marker() {
	case resumable.Fresh:
		f.Set(runStart)
		fallthrough
	case runStart:
		if !d.master.Start(&d.tx) {
			return f.Suspend()
		}
		f.Set(runWait)
		fallthrough
	case runWait:
		if d.tx.Busy() {
			return f.Suspend()
		}
		return f.Return(d.tx.State() == Idle)
	}
	return f.End()
}

const (
	pingConfigure resumable.Marker = iota + 1
	pingRun
)

// Ping addresses the device and finishes with true if it acknowledged.
func (d *Device[D]) Ping() resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, pingID)
	switch f.Marker() {
	case resumable.Fresh:
		f.Set(pingConfigure)
		fallthrough
	case pingConfigure:
		if !d.tx.ConfigurePing() {
			return f.Suspend()
		}
		f.Call(pingRun)
		fallthrough
	case pingRun:
		r := d.RunTransaction()
		if r.Pending() {
			return f.Suspend()
		}
		return f.Return(r.Value)
	}
	return f.End()
}

const (
	writeReadConfigure resumable.Marker = iota + 1
	writeReadRun
)

// WriteRead writes w to the device, then reads into r, and finishes with
// true if the transfer succeeded. The arguments are only read when the body
// starts.
func (d *Device[D]) WriteRead(w, r []byte) resumable.Result[bool] {
	f := resumable.Begin[bool](&d.Slot, writeReadID)
	switch f.Marker() {
	case resumable.Fresh:
		d.w, d.r = w, r
		f.Set(writeReadConfigure)
		fallthrough
	case writeReadConfigure:
		if !d.tx.ConfigureWriteRead(d.w, d.r) {
			return f.Suspend()
		}
		f.Call(writeReadRun)
		fallthrough
	case writeReadRun:
		res := d.RunTransaction()
		if res.Pending() {
			return f.Suspend()
		}
		d.w, d.r = nil, nil
		return f.Return(res.Value)
	}
	return f.End()
}
