// Package raspberrypi describes the supported Raspberry Pi boards and brings
// up their kernel console.
package raspberrypi

import (
	"github.com/clktmr/rpi/exception/irq"
	"github.com/clktmr/rpi/memory/mmu"
)

// Board holds the addresses and interrupt lines of a board.
type Board struct {
	Name string

	// PL011Start is the physical base of the console UART.
	PL011Start mmu.PhysAddr
	PL011IRQ   irq.Number

	// IRQLines is the number of lines of the interrupt controller.
	IRQLines int

	// The kernel maps MMIO regions into this virtual window.
	MMIOWindowStart mmu.VirtAddr
	MMIOWindowSize  uintptr
}

const (
	mmioWindowStart = 0x2000_0000
	mmioWindowSize  = 16 << 20
)

var (
	// RPi3 is the Raspberry Pi 3 with the BCM2837 interrupt controller.
	RPi3 = Board{
		Name:            "Raspberry Pi 3",
		PL011Start:      0x3f20_1000,
		PL011IRQ:        57,
		IRQLines:        64,
		MMIOWindowStart: mmioWindowStart,
		MMIOWindowSize:  mmioWindowSize,
	}

	// RPi4 is the Raspberry Pi 4 with the GIC-400.
	RPi4 = Board{
		Name:            "Raspberry Pi 4",
		PL011Start:      0xfe20_1000,
		PL011IRQ:        153,
		IRQLines:        1020,
		MMIOWindowStart: mmioWindowStart,
		MMIOWindowSize:  mmioWindowSize,
	}
)

// Boards maps the names accepted on command lines to boards.
var Boards = map[string]Board{
	"rpi3": RPi3,
	"rpi4": RPi4,
}
