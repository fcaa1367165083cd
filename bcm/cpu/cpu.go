// Package cpu provides access to the ARMv8-A core the kernel runs on.
//
// On the noos target the functions are implemented in assembly. Host builds
// only provide Nop.
package cpu

// DAIF exception mask bits, as found in the DAIF system register.
const (
	MaskF uint64 = 1 << (iota + 6) // FIQ
	MaskI                          // IRQ
	MaskA                          // SError
	MaskD                          // Debug
)
