//go:build noos && arm64

package exception

import "github.com/clktmr/rpi/bcm/cpu"

// LocalIRQMaskSave masks IRQs on the executing core and returns the previous
// state for LocalIRQRestore.
//
//go:nosplit
func LocalIRQMaskSave() IRQState {
	s := IRQState(cpu.DAIF())
	cpu.MaskIRQ()
	return s
}

// LocalIRQRestore restores the exception mask saved by LocalIRQMaskSave.
//
//go:nosplit
func LocalIRQRestore(s IRQState) {
	cpu.SetDAIF(uint64(s))
}

// IsLocalIRQMasked reports whether IRQ delivery is masked on the executing
// core.
//
//go:nosplit
func IsLocalIRQMasked() bool {
	return cpu.DAIF()&cpu.MaskI != 0
}
