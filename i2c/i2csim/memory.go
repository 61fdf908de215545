package i2csim

import "sync"

// Memory is a target with 256 byte wide registers, addressed like most
// sensors and EEPROMs: the first byte written selects a register, the bytes
// that follow are written starting there, and reads continue from the
// selected register. The register pointer increments after every byte.
type Memory struct {
	mu        sync.Mutex
	registers [256]byte
	pointer   uint8
}

func (m *Memory) Transfer(w, r []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(w) > 0 {
		m.pointer = w[0]
		for _, c := range w[1:] {
			m.registers[m.pointer] = c
			m.pointer++
		}
	}
	for i := range r {
		r[i] = m.registers[m.pointer]
		m.pointer++
	}
	return nil
}

// Load sets the value of registers starting at reg.
func (m *Memory) Load(reg uint8, values ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range values {
		m.registers[reg] = v
		reg++
	}
}

// Register returns the value of a register.
func (m *Memory) Register(reg uint8) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registers[reg]
}
