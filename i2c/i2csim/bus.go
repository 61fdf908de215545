// Package i2csim simulates an I2C bus with register mapped targets. The bus
// implements drivers.I2C, so it can stand in for a machine.I2C in tests and
// host simulations.
package i2csim

import (
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/drivers"
)

// ErrNack is returned for transfers to addresses no target answers.
var ErrNack = errors.New("i2csim: address not acknowledged")

// Target is a simulated device. Transfer is called for every transfer
// addressed to the target with the bytes written by the master and the
// buffer to fill with the bytes read.
type Target interface {
	Transfer(w, r []byte) error
}

// Bus is a simulated I2C bus.
type Bus struct {
	mu        sync.Mutex
	targets   map[uint16]Target
	transfers int
}

var _ drivers.I2C = (*Bus)(nil)

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{targets: make(map[uint16]Target)}
}

// Attach connects t to the bus at the given address, replacing the target
// previously attached there.
func (b *Bus) Attach(address uint16, t Target) {
	b.mu.Lock()
	b.targets[address] = t
	b.mu.Unlock()
}

// Detach disconnects the target at the given address.
func (b *Bus) Detach(address uint16) {
	b.mu.Lock()
	delete(b.targets, address)
	b.mu.Unlock()
}

// Transfers returns the number of transfers made on the bus.
func (b *Bus) Transfers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transfers
}

// Tx performs a transfer: it writes w, then reads len(r) bytes into r.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	t := b.targets[addr]
	b.transfers++
	b.mu.Unlock()

	if t == nil {
		return fmt.Errorf("%w: %#02x", ErrNack, addr)
	}
	return t.Transfer(w, r)
}

// ReadRegister reads len(buf) bytes starting at register r.
func (b *Bus) ReadRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{r}, buf)
}

// WriteRegister writes buf starting at register r.
func (b *Bus) WriteRegister(addr uint8, r uint8, buf []byte) error {
	return b.Tx(uint16(addr), append([]byte{r}, buf...), nil)
}
