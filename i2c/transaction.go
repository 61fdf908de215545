// Package i2c implements asynchronous I2C transactions for resumable device
// drivers.
//
// A Master owns a bus and executes one Transaction at a time; it is advanced
// by calling Update from the driving loop. Device drivers embed a Device,
// configure its transaction and wait for it with the resumable body
// RunTransaction, which suspends while the bus is in use by another device
// or the transfer is in progress.
package i2c

import "errors"

// State is the state of a transaction.
type State uint8

const (
	// Idle means the last transfer completed successfully, or none ran yet.
	Idle State = iota
	// Busy means the transaction is attached to a master.
	Busy
	// Error means the last transfer failed.
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// ErrAborted is the error of transactions detached by Master.Reset.
var ErrAborted = errors.New("i2c: transaction aborted")

// Transaction describes one transfer to a target: an optional write
// followed by an optional read. A transaction without write and read
// buffers only addresses the target.
//
// The buffers are owned by the device; they must not be modified while
// the transaction is busy.
type Transaction struct {
	address uint16
	write   []byte
	read    []byte
	state   State
	err     error
}

// SetAddress sets the 7-bit target address.
func (t *Transaction) SetAddress(address uint16) { t.address = address }

// Address returns the 7-bit target address.
func (t *Transaction) Address() uint16 { return t.address }

// State returns the state of the transaction.
func (t *Transaction) State() State { return t.state }

// Busy returns true while the transaction is attached to a master.
func (t *Transaction) Busy() bool { return t.state == Busy }

// Err returns the error of the last transfer.
func (t *Transaction) Err() error { return t.err }

// ConfigurePing configures the transaction to only address the target.
// It returns false if the transaction is busy.
func (t *Transaction) ConfigurePing() bool {
	return t.ConfigureWriteRead(nil, nil)
}

// ConfigureWrite configures the transaction to write w. It returns false if
// the transaction is busy.
func (t *Transaction) ConfigureWrite(w []byte) bool {
	return t.ConfigureWriteRead(w, nil)
}

// ConfigureRead configures the transaction to read into r. It returns false
// if the transaction is busy.
func (t *Transaction) ConfigureRead(r []byte) bool {
	return t.ConfigureWriteRead(nil, r)
}

// ConfigureWriteRead configures the transaction to write w, then read into
// r. It returns false if the transaction is busy.
func (t *Transaction) ConfigureWriteRead(w, r []byte) bool {
	if t.state == Busy {
		return false
	}
	t.write, t.read = w, r
	return true
}

func (t *Transaction) attach() bool {
	if t.state == Busy {
		return false
	}
	t.state, t.err = Busy, nil
	return true
}

func (t *Transaction) detach(err error) {
	if err != nil {
		t.state, t.err = Error, err
	} else {
		t.state, t.err = Idle, nil
	}
}
