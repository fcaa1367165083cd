package pl011

import "github.com/clktmr/rpi/bcm/mmio"

// Register values, one type per register so fields can't be mixed up.
type (
	frReg   uint32
	ibrdReg uint32
	fbrdReg uint32
	lcrhReg uint32
	crReg   uint32
	iflsReg uint32
	imscReg uint32
	misReg  uint32
	icrReg  uint32
)

// Flag register
var (
	// Transmit FIFO empty. With FIFOs disabled, set when the transmit
	// holding register is empty. Doesn't reflect the transmit shift
	// register.
	frTXFE = mmio.Field[frReg]{Pos: 7, Width: 1}

	// Transmit FIFO full. With FIFOs disabled, set when the transmit
	// holding register is full.
	frTXFF = mmio.Field[frReg]{Pos: 5, Width: 1}

	// Receive FIFO empty. With FIFOs disabled, set when the receive
	// holding register is empty.
	frRXFE = mmio.Field[frReg]{Pos: 4, Width: 1}
)

// Integer and fractional baud rate divisor
var (
	ibrdIBRD = mmio.Field[ibrdReg]{Pos: 0, Width: 16}
	fbrdFBRD = mmio.Field[fbrdReg]{Pos: 0, Width: 6}
)

// Line control register
var (
	// Word length, the number of data bits per frame.
	lcrhWLEN = mmio.Field[lcrhReg]{Pos: 5, Width: 2}

	// Enable FIFOs. When cleared the FIFOs become 1-byte-deep holding
	// registers.
	lcrhFEN = mmio.Field[lcrhReg]{Pos: 4, Width: 1}
)

const (
	wlenFiveBit uint32 = iota
	wlenSixBit
	wlenSevenBit
	wlenEightBit
)

// Control register. A section disabled in the middle of a transfer
// completes the current character before stopping.
var (
	crRXE    = mmio.Field[crReg]{Pos: 9, Width: 1}
	crTXE    = mmio.Field[crReg]{Pos: 8, Width: 1}
	crUARTEN = mmio.Field[crReg]{Pos: 0, Width: 1}
)

// Interrupt FIFO level select register
var iflsRXIFLSEL = mmio.Field[iflsReg]{Pos: 3, Width: 5}

// Receive interrupt trigger levels
const (
	rxOneEighth uint32 = iota
	rxOneQuarter
	rxOneHalf
	rxThreeQuarters
	rxSevenEighths
)

// Interrupt mask set/clear register. Writing 1 unmasks the interrupt.
var (
	imscRTIM = mmio.Field[imscReg]{Pos: 6, Width: 1} // receive timeout
	imscRXIM = mmio.Field[imscReg]{Pos: 4, Width: 1} // receive
)

// Masked interrupt status register
var (
	misRTMIS = mmio.Field[misReg]{Pos: 6, Width: 1}
	misRXMIS = mmio.Field[misReg]{Pos: 4, Width: 1}
)

// Interrupt clear register. Writing 1 clears the interrupt, ALL covers all
// eleven sources.
var icrALL = mmio.Field[icrReg]{Pos: 0, Width: 11}

// Register offsets
const (
	offDR   = 0x00
	offFR   = 0x18
	offIBRD = 0x24
	offFBRD = 0x28
	offLCRH = 0x2c
	offCR   = 0x30
	offIFLS = 0x34
	offIMSC = 0x38
	offMIS  = 0x40
	offICR  = 0x44
)

// BlockSize is the size of the register block.
const BlockSize = 0x48

// registers binds the register block to a base address.
type registers struct {
	dr   mmio.RW[uint32]
	fr   mmio.RO[frReg]
	ibrd mmio.WO[ibrdReg]
	fbrd mmio.WO[fbrdReg]
	lcrh mmio.WO[lcrhReg]
	cr   mmio.WO[crReg]
	ifls mmio.RW[iflsReg]
	imsc mmio.RW[imscReg]
	mis  mmio.RO[misReg]
	icr  mmio.WO[icrReg]
}

func newRegisters(bus mmio.Bus, base uintptr) registers {
	return registers{
		dr:   mmio.NewRW[uint32](bus, base+offDR),
		fr:   mmio.NewRO[frReg](bus, base+offFR),
		ibrd: mmio.NewWO[ibrdReg](bus, base+offIBRD),
		fbrd: mmio.NewWO[fbrdReg](bus, base+offFBRD),
		lcrh: mmio.NewWO[lcrhReg](bus, base+offLCRH),
		cr:   mmio.NewWO[crReg](bus, base+offCR),
		ifls: mmio.NewRW[iflsReg](bus, base+offIFLS),
		imsc: mmio.NewRW[imscReg](bus, base+offIMSC),
		mis:  mmio.NewRO[misReg](bus, base+offMIS),
		icr:  mmio.NewWO[icrReg](bus, base+offICR),
	}
}

// base returns the address the block is bound to.
func (r *registers) base() uintptr { return r.dr.Addr() - offDR }
