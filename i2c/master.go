package i2c

import (
	"github.com/golang/glog"
	"tinygo.org/x/drivers"
)

// Master executes transactions on a bus, one at a time. Start acquires the
// bus for a transaction and the transfer completes during a later call to
// Update, which makes the bus look asynchronous to device drivers even when
// the underlying implementation transfers synchronously.
type Master struct {
	// Latency is the number of calls to Update between the start of a
	// transaction and its transfer.
	Latency int

	bus     drivers.I2C
	current *Transaction
	wait    int

	transfers uint64
	failures  uint64
}

// NewMaster returns a master transferring on bus.
func NewMaster(bus drivers.I2C) *Master {
	return &Master{bus: bus}
}

// Start attaches t to the master. It returns false if the master is busy
// with another transaction or t is already attached.
func (m *Master) Start(t *Transaction) bool {
	if m.current != nil {
		return false
	}
	if !t.attach() {
		return false
	}
	m.current, m.wait = t, m.Latency
	if glog.V(3) {
		glog.Infof("i2c: start %#02x write=%d read=%d", t.address, len(t.write), len(t.read))
	}
	return true
}

// Busy returns true while a transaction is attached.
func (m *Master) Busy() bool { return m.current != nil }

// Update advances the attached transaction. It must be called from the
// driving loop.
func (m *Master) Update() {
	t := m.current
	if t == nil {
		return
	}
	if m.wait > 0 {
		m.wait--
		return
	}

	err := m.bus.Tx(t.address, t.write, t.read)
	m.current = nil
	m.transfers++
	if err != nil {
		m.failures++
		if glog.V(2) {
			glog.Infof("i2c: transfer to %#02x failed: %v", t.address, err)
		}
	}
	t.detach(err)
}

// Reset detaches the current transaction, if any, failing it with
// ErrAborted.
func (m *Master) Reset() {
	if t := m.current; t != nil {
		m.current = nil
		t.detach(ErrAborted)
		glog.Warningf("i2c: aborted transaction to %#02x", t.address)
	}
}

// Stats returns the number of transfers made and how many of them failed.
func (m *Master) Stats() (transfers, failures uint64) {
	return m.transfers, m.failures
}
