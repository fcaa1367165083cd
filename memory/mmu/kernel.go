package mmu

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"text/tabwriter"

	"github.com/clktmr/rpi/debug"
)

// Granule is the translation granule used for MMIO mappings.
const Granule = 64 << 10

// Mapping is a granule aligned region of the MMIO window.
type Mapping struct {
	Users []string
	Phys  PhysAddr
	Virt  VirtAddr
	Size  uintptr
}

func (m *Mapping) containsPhys(start, end PhysAddr) bool {
	return start >= m.Phys && end <= m.Phys+PhysAddr(m.Size)
}

func (m *Mapping) overlapsPhys(start, end PhysAddr) bool {
	return start < m.Phys+PhysAddr(m.Size) && m.Phys < end
}

// KernelMapper allocates virtual addresses for MMIO regions from a fixed
// window. Requests for an already mapped physical range share the existing
// mapping. Mappings are never removed.
//
// KernelMapper only keeps the translation records. Programming the page tables
// from them is the job of the platform code.
type KernelMapper struct {
	mtx      sync.Mutex
	start    VirtAddr
	end      VirtAddr
	next     VirtAddr
	mappings []Mapping
}

// NewKernelMapper returns a mapper for the window [start, start+size). Both
// must be granule aligned.
func NewKernelMapper(start VirtAddr, size uintptr) *KernelMapper {
	debug.Assert(start%Granule == 0 && size%Granule == 0, "unaligned MMIO window")
	return &KernelMapper{start: start, end: start + VirtAddr(size), next: start}
}

func alignDown(a PhysAddr) PhysAddr { return a &^ (Granule - 1) }
func alignUp(a PhysAddr) PhysAddr   { return (a + Granule - 1) &^ (Granule - 1) }

func (k *KernelMapper) MapMMIO(name string, d MMIODescriptor) (VirtAddr, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("map %s: %w", name, ErrInvalidDescriptor)
	}

	k.mtx.Lock()
	defer k.mtx.Unlock()

	start, end := alignDown(d.Start()), alignUp(d.End())
	offset := VirtAddr(d.Start() - start)

	for i := range k.mappings {
		m := &k.mappings[i]
		if m.containsPhys(start, end) {
			if !slices.Contains(m.Users, name) {
				m.Users = append(m.Users, name)
			}
			return m.Virt + VirtAddr(d.Start()-m.Phys), nil
		}
		if m.overlapsPhys(start, end) {
			return 0, fmt.Errorf("map %s %v: %w", name, d, ErrOverlap)
		}
	}

	size := uintptr(end - start)
	if size > uintptr(k.end-k.next) {
		return 0, fmt.Errorf("map %s %v: %w", name, d, ErrCapacity)
	}

	virt := k.next
	k.next += VirtAddr(size)
	k.mappings = append(k.mappings, Mapping{
		Users: []string{name},
		Phys:  start,
		Virt:  virt,
		Size:  size,
	})
	return virt + offset, nil
}

// Translate returns the physical address for a virtual address inside the
// MMIO window.
func (k *KernelMapper) Translate(addr uintptr) (uintptr, bool) {
	k.mtx.Lock()
	defer k.mtx.Unlock()

	v := VirtAddr(addr)
	for _, m := range k.mappings {
		if v >= m.Virt && v < m.Virt+VirtAddr(m.Size) {
			return uintptr(m.Phys) + uintptr(v-m.Virt), true
		}
	}
	return 0, false
}

// Mappings returns a copy of the current mappings in allocation order.
func (k *KernelMapper) Mappings() []Mapping {
	k.mtx.Lock()
	defer k.mtx.Unlock()

	ret := make([]Mapping, len(k.mappings))
	for i, m := range k.mappings {
		m.Users = slices.Clone(m.Users)
		ret[i] = m
	}
	return ret
}

// WriteMappings prints the mappings as a table.
func (k *KernelMapper) WriteMappings(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "VIRTUAL\tPHYSICAL\tSIZE\tUSERS")
	for _, m := range k.Mappings() {
		fmt.Fprintf(tw, "%#x\t%#x\t%d KiB\t%v\n", uintptr(m.Virt), uintptr(m.Phys), m.Size>>10, m.Users)
	}
	return tw.Flush()
}
