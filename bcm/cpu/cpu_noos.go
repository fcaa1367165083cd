//go:build noos && arm64

package cpu

// Nop executes a single no-operation instruction. Use it in busy-wait loops
// polling a hardware register.
//
//go:nosplit
func Nop()

// DAIF returns the current exception mask.
//
//go:nosplit
func DAIF() uint64

// SetDAIF restores an exception mask previously returned by DAIF.
//
//go:nosplit
func SetDAIF(daif uint64)

// MaskIRQ masks IRQ delivery on the executing core.
//
//go:nosplit
func MaskIRQ()
