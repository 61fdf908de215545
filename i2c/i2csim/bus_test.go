package i2csim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBusMemory(t *testing.T) {
	bus := NewBus()
	mem := new(Memory)
	bus.Attach(0x50, mem)

	require.NoError(t, bus.WriteRegister(0x50, 0x10, []byte{1, 2, 3}))
	require.Equal(t, byte(2), mem.Register(0x11))

	buf := make([]byte, 3)
	require.NoError(t, bus.ReadRegister(0x50, 0x10, buf))
	require.Equal(t, []byte{1, 2, 3}, buf)

	// Reads continue from the register pointer.
	mem.Load(0x13, 4)
	one := make([]byte, 1)
	require.NoError(t, bus.Tx(0x50, nil, one))
	require.Equal(t, []byte{4}, one)

	require.Equal(t, 3, bus.Transfers())
}

func TestBusNack(t *testing.T) {
	bus := NewBus()
	err := bus.Tx(0x42, nil, nil)
	require.True(t, errors.Is(err, ErrNack), "unexpected error: %v", err)

	bus.Attach(0x42, new(Memory))
	require.NoError(t, bus.Tx(0x42, nil, nil))
	bus.Detach(0x42)
	require.Error(t, bus.Tx(0x42, nil, nil))
}
