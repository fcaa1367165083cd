package mmio

import (
	"errors"
	"fmt"
	"sync"
)

// Device is a simulated peripheral. Offsets are relative to the address the
// device is attached at.
type Device interface {
	Read32(off uintptr) uint32
	Write32(off uintptr, v uint32)
}

// Translator resolves a virtual address to a physical one. Addresses it
// doesn't know are used as they are.
type Translator interface {
	Translate(addr uintptr) (phys uintptr, ok bool)
}

var ErrWindowOverlap = errors.New("device window overlaps")

type window struct {
	base, size uintptr
	dev        Device
}

// Map is a host-side system bus. Devices are attached at physical address
// windows; accesses outside of all windows panic.
//
// Map is safe for concurrent use. Devices must do their own locking.
type Map struct {
	// Translator is consulted before resolving a device window, e.g. to model
	// an MMU. Nil means all addresses are physical.
	Translator Translator

	mtx     sync.RWMutex
	windows []window
}

// Attach places dev at the physical window [base, base+size).
func (m *Map) Attach(base, size uintptr, dev Device) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for _, w := range m.windows {
		if base < w.base+w.size && w.base < base+size {
			return fmt.Errorf("%w: %#x-%#x", ErrWindowOverlap, base, base+size)
		}
	}
	m.windows = append(m.windows, window{base, size, dev})
	return nil
}

func (m *Map) resolve(addr uintptr) (Device, uintptr) {
	if addr&0x3 != 0 {
		panic(fmt.Sprintf("mmio: unaligned access at %#x", addr))
	}
	if m.Translator != nil {
		if phys, ok := m.Translator.Translate(addr); ok {
			addr = phys
		}
	}

	m.mtx.RLock()
	defer m.mtx.RUnlock()
	for _, w := range m.windows {
		if addr >= w.base && addr < w.base+w.size {
			return w.dev, addr - w.base
		}
	}
	panic(fmt.Sprintf("mmio: bus error at %#x", addr))
}

func (m *Map) Load32(addr uintptr) uint32 {
	dev, off := m.resolve(addr)
	return dev.Read32(off)
}

func (m *Map) Store32(addr uintptr, v uint32) {
	dev, off := m.resolve(addr)
	dev.Write32(off, v)
}
