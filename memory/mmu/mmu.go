// Package mmu describes MMIO regions and maps them into the kernel's virtual
// address space.
package mmu

import (
	"errors"
	"fmt"
)

// PhysAddr is a physical bus address.
type PhysAddr uintptr

// VirtAddr is a kernel virtual address.
type VirtAddr uintptr

var (
	ErrInvalidDescriptor = errors.New("invalid MMIO descriptor")
	ErrOverlap           = errors.New("MMIO region overlaps an existing mapping")
	ErrCapacity          = errors.New("not enough MMIO space left")
)

// MMIODescriptor is a validated physical MMIO region. It can only be created
// with NewMMIODescriptor; the zero value is invalid.
type MMIODescriptor struct {
	start PhysAddr
	size  uintptr
}

// NewMMIODescriptor checks that the region is non-empty, word aligned and
// doesn't wrap around the address space.
func NewMMIODescriptor(start PhysAddr, size uintptr) (MMIODescriptor, error) {
	switch {
	case size == 0:
		return MMIODescriptor{}, fmt.Errorf("%w: empty region at %#x", ErrInvalidDescriptor, start)
	case start&0x3 != 0, size&0x3 != 0:
		return MMIODescriptor{}, fmt.Errorf("%w: unaligned region %#x+%#x", ErrInvalidDescriptor, start, size)
	case uintptr(start)+size < uintptr(start):
		return MMIODescriptor{}, fmt.Errorf("%w: region %#x+%#x wraps", ErrInvalidDescriptor, start, size)
	}
	return MMIODescriptor{start, size}, nil
}

func (d MMIODescriptor) Start() PhysAddr { return d.start }
func (d MMIODescriptor) Size() uintptr   { return d.size }

// End returns the first address after the region.
func (d MMIODescriptor) End() PhysAddr { return d.start + PhysAddr(d.size) }

// Valid is false only for the zero value.
func (d MMIODescriptor) Valid() bool { return d.size != 0 }

func (d MMIODescriptor) String() string {
	return fmt.Sprintf("%#x-%#x", uintptr(d.start), uintptr(d.End()))
}

// Mapper maps MMIO regions on behalf of drivers. name identifies the
// requester in errors and listings.
type Mapper interface {
	MapMMIO(name string, d MMIODescriptor) (VirtAddr, error)
}

// Identity is a Mapper for a kernel running with the MMU disabled.
type Identity struct{}

func (Identity) MapMMIO(name string, d MMIODescriptor) (VirtAddr, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("map %s: %w", name, ErrInvalidDescriptor)
	}
	return VirtAddr(d.Start()), nil
}
