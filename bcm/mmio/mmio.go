// Package mmio provides typed access to memory-mapped hardware registers.
//
// Registers are reached through a Bus. On the noos target the Direct bus reads
// and writes the address with volatile semantics. On a host, Map routes the
// accesses to simulated devices instead.
//
// The access rights of a register are part of its type: RO has no Store
// method and WO has no Load method, so a driver can't read back a write-only
// register by accident.
package mmio

// Bus performs 32 bit accesses to register addresses.
type Bus interface {
	Load32(addr uintptr) uint32
	Store32(addr uintptr, v uint32)
}

// T32 is the constraint for register value types.
type T32 interface{ ~uint32 }

// RO is a read-only register.
type RO[T T32] struct {
	bus  Bus
	addr uintptr
}

func NewRO[T T32](bus Bus, addr uintptr) RO[T] { return RO[T]{bus, addr} }

func (r RO[T]) Load() T       { return T(r.bus.Load32(r.addr)) }
func (r RO[T]) Addr() uintptr { return r.addr }

// WO is a write-only register.
type WO[T T32] struct {
	bus  Bus
	addr uintptr
}

func NewWO[T T32](bus Bus, addr uintptr) WO[T] { return WO[T]{bus, addr} }

func (r WO[T]) Store(v T)     { r.bus.Store32(r.addr, uint32(v)) }
func (r WO[T]) Addr() uintptr { return r.addr }

// RW is a read-write register.
type RW[T T32] struct {
	bus  Bus
	addr uintptr
}

func NewRW[T T32](bus Bus, addr uintptr) RW[T] { return RW[T]{bus, addr} }

func (r RW[T]) Load() T       { return T(r.bus.Load32(r.addr)) }
func (r RW[T]) Store(v T)     { r.bus.Store32(r.addr, uint32(v)) }
func (r RW[T]) Addr() uintptr { return r.addr }

// LoadBits returns the register value masked with mask.
func (r RW[T]) LoadBits(mask T) T { return r.Load() & mask }

// StoreBits performs a read-modify-write of the bits selected by mask.
func (r RW[T]) StoreBits(mask, bits T) {
	r.Store(r.Load()&^mask | bits&mask)
}
