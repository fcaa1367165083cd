// Package pl011 is the driver for the ARM PL011 UART used as the kernel
// console on the Raspberry Pi.
//
// The UART is configured for 230400 baud 8N1 with FIFOs enabled, derived from
// a 48 MHz reference clock. Received characters raise an interrupt, which the
// driver services by echoing them back.
//
// The registers are reached through an mmio.Bus. Before Init they're bound to
// the physical base of the device, afterwards to the virtual address the
// mmu.Mapper assigned.
package pl011
