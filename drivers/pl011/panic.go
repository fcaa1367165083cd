package pl011

import "github.com/clktmr/rpi/bcm/mmio"

// PanicUART drives the UART without taking any lock, for printing while the
// kernel panics. Its lock-free access may interleave with other output.
type PanicUART struct {
	u uart
}

// NewPanicUART binds a PanicUART to the registers at base.
func NewPanicUART(bus mmio.Bus, base uintptr) *PanicUART {
	return &PanicUART{newUART(bus, base)}
}

// PanicUART returns a lock-free handle to the same device. It uses the
// virtual mapping once Init published it and the physical base before.
func (u *UART) PanicUART() *PanicUART {
	base, ok := u.VirtMMIOStartAddr()
	if !ok {
		base = uintptr(u.mmio.Start())
	}
	return NewPanicUART(u.bus, base)
}

// Init reprograms the UART. The panic path may start before the kernel console
// was set up.
func (p *PanicUART) Init() { p.u.init(0) }

// Base returns the address the registers are bound to.
func (p *PanicUART) Base() uintptr { return p.u.regs.base() }

func (p *PanicUART) WriteChar(c rune) { p.u.writeChar(c) }

func (p *PanicUART) Write(b []byte) (int, error) { return p.u.Write(b) }

func (p *PanicUART) Flush() { p.u.flush() }
