package pl011

import (
	"math"

	"github.com/clktmr/rpi/bcm/cpu"
	"github.com/clktmr/rpi/bcm/mmio"
)

// The UART's reference clock is set to 48 MHz in the firmware's config.txt.
const (
	ReferenceClock = 48_000_000
	BaudRate       = 230_400
)

// Divisors returns the integer and fractional baud rate divisor for the given
// reference clock and baud rate. The fractional part has 6 bits.
//
// For 48 MHz and 230400 baud: (48_000_000/16)/230400 = 13.02083, so IBRD is 13
// and FBRD is round(0.02083*64) = 1. The resulting error of 0.01% is well
// within the 5% tolerated by asynchronous serial.
func Divisors(clock, baud uint32) (ibrd, fbrd uint32) {
	div := float64(clock) / 16 / float64(baud)
	ibrd = uint32(div)
	fbrd = uint32(math.Round((div - float64(ibrd)) * 64))
	if fbrd == 64 {
		ibrd, fbrd = ibrd+1, 0
	}
	return
}

type blockingMode bool

const (
	blocking    blockingMode = true
	nonBlocking blockingMode = false
)

// uart performs all register accesses. It's not safe for concurrent use, see
// UART for the locked version.
type uart struct {
	bus          mmio.Bus
	regs         registers
	charsWritten int
	charsRead    int
}

func newUART(bus mmio.Bus, base uintptr) uart {
	return uart{bus: bus, regs: newRegisters(bus, base)}
}

// init configures the UART for 8N1 at BaudRate with FIFOs and receive
// interrupts enabled. A non-zero newBase rebinds the registers before the
// first access.
//
// The order of the writes matters: the UART is disabled before it's
// reconfigured and enabled only after the interrupts are unmasked.
func (u *uart) init(newBase uintptr) {
	if newBase != 0 {
		u.regs = newRegisters(u.bus, newBase)
	}

	// Turn it off temporarily.
	u.regs.cr.Store(0)

	ibrd, fbrd := Divisors(ReferenceClock, BaudRate)
	u.regs.icr.Store(icrALL.Set())
	u.regs.ibrd.Store(ibrdIBRD.Val(ibrd))
	u.regs.fbrd.Store(fbrdFBRD.Val(fbrd))
	u.regs.lcrh.Store(lcrhWLEN.Val(wlenEightBit) | lcrhFEN.Set())
	u.regs.ifls.Store(iflsRXIFLSEL.Val(rxOneEighth))
	u.regs.imsc.Store(imscRXIM.Set() | imscRTIM.Set())
	u.regs.cr.Store(crUARTEN.Set() | crTXE.Set() | crRXE.Set())
}

func (u *uart) writeChar(c rune) {
	// Spin while TX FIFO full is set, waiting for an empty slot.
	for frTXFF.IsSet(u.regs.fr.Load()) {
		cpu.Nop()
	}

	u.regs.dr.Store(uint32(byte(c)))
	u.charsWritten++
}

// Write sends p byte by byte. It never fails.
func (u *uart) Write(p []byte) (int, error) {
	for _, b := range p {
		u.writeChar(rune(b))
	}
	return len(p), nil
}

// readChar returns the next received character, converting carriage return
// to newline. In non-blocking mode ok is false if the RX FIFO is empty.
func (u *uart) readChar(mode blockingMode) (c rune, ok bool) {
	if frRXFE.IsSet(u.regs.fr.Load()) {
		if mode == nonBlocking {
			return 0, false
		}
		for frRXFE.IsSet(u.regs.fr.Load()) {
			cpu.Nop()
		}
	}

	c = rune(byte(u.regs.dr.Load()))
	if c == '\r' {
		c = '\n'
	}

	u.charsRead++
	return c, true
}

// flush spins until the TX FIFO is empty.
func (u *uart) flush() {
	for !frTXFE.IsSet(u.regs.fr.Load()) {
		cpu.Nop()
	}
}

// clear discards the content of the RX FIFO.
func (u *uart) clear() {
	for !frRXFE.IsSet(u.regs.fr.Load()) {
		u.regs.dr.Load()
	}
}

// handleIRQ echoes received characters. Pending interrupts are cleared
// before the FIFO is drained: the drain polls the FIFO itself, so a character
// arriving after the clear is still echoed.
func (u *uart) handleIRQ() {
	pending := u.regs.mis.Load()

	u.regs.icr.Store(icrALL.Set())

	if misRXMIS.IsSet(pending) || misRTMIS.IsSet(pending) {
		for {
			c, ok := u.readChar(nonBlocking)
			if !ok {
				break
			}
			u.writeChar(c)
		}
	}
}
