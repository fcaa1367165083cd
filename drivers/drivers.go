// Package drivers defines the interface between the kernel and its device
// drivers and keeps the table of drivers to bring up at boot.
package drivers

import (
	"fmt"
	"io"
	"sync"
)

// DeviceDriver is implemented by every driver in the device table.
type DeviceDriver interface {
	// Compatible returns a string identifying the driver.
	Compatible() string

	// Init brings up the device. Called once during boot.
	Init() error

	// RegisterAndEnableIRQHandler binds the driver's interrupt handler and
	// enables delivery. Called after all drivers were initialized.
	RegisterAndEnableIRQHandler() error

	// VirtMMIOStartAddr returns the virtual MMIO base once the device was
	// remapped by Init.
	VirtMMIOStartAddr() (addr uintptr, ok bool)
}

// Descriptor is an entry in the device table.
type Descriptor struct {
	Driver DeviceDriver

	// PostInit is called right after the driver's Init succeeded, e.g. to
	// make it the kernel console. Optional.
	PostInit func() error
}

// Manager is the device table. Drivers are brought up in registration order.
//
// Manager is safe for concurrent use.
type Manager struct {
	mtx         sync.Mutex
	descriptors []Descriptor
}

func NewManager() *Manager { return &Manager{} }

func (m *Manager) Register(d Descriptor) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.descriptors = append(m.descriptors, d)
}

// Drivers returns the registered drivers in registration order.
func (m *Manager) Drivers() []DeviceDriver {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	ret := make([]DeviceDriver, len(m.descriptors))
	for i, d := range m.descriptors {
		ret[i] = d.Driver
	}
	return ret
}

// Lookup returns the first driver with the given compatible string.
func (m *Manager) Lookup(compatible string) (DeviceDriver, bool) {
	for _, d := range m.Drivers() {
		if d.Compatible() == compatible {
			return d, true
		}
	}
	return nil, false
}

func (m *Manager) snapshot() []Descriptor {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return append([]Descriptor(nil), m.descriptors...)
}

// InitDrivers initializes all drivers and runs their PostInit callbacks. It
// stops at the first error.
func (m *Manager) InitDrivers() error {
	for _, d := range m.snapshot() {
		if err := d.Driver.Init(); err != nil {
			return fmt.Errorf("init %s: %w", d.Driver.Compatible(), err)
		}
		if d.PostInit == nil {
			continue
		}
		if err := d.PostInit(); err != nil {
			return fmt.Errorf("post init %s: %w", d.Driver.Compatible(), err)
		}
	}
	return nil
}

// InitIRQs registers and enables the interrupt handlers of all drivers. It
// stops at the first error.
func (m *Manager) InitIRQs() error {
	for _, d := range m.snapshot() {
		if err := d.Driver.RegisterAndEnableIRQHandler(); err != nil {
			return fmt.Errorf("irq %s: %w", d.Driver.Compatible(), err)
		}
	}
	return nil
}

// Enumerate prints a numbered list of the drivers.
func (m *Manager) Enumerate(w io.Writer) error {
	for i, d := range m.Drivers() {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, d.Compatible()); err != nil {
			return err
		}
	}
	return nil
}

// SystemWriter is the signature of the runtime's system writer, which prints
// panics and the output of print and println.
type SystemWriter func(int, []byte) int

// NewSystemWriter returns a SystemWriter from an io.Writer.
func NewSystemWriter(w io.Writer) SystemWriter {
	return func(fd int, p []byte) int {
		n, _ := w.Write(p)
		return n
	}
}
