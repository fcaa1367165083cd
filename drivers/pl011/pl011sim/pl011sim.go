// Package pl011sim models a PL011 UART at the register level, for running
// the driver on a host.
//
// The model implements the parts of the PL011 the driver relies on: both
// FIFOs, flag register, receive and receive-timeout interrupts and the
// write-one-to-clear interrupt clear register. Transmitted bytes leave the TX
// FIFO immediately while the transmitter is enabled and not stalled.
package pl011sim

import (
	"fmt"
	"io"
	"sync"
)

// Size of the register block.
const Size = 0x48

// Register offsets.
const (
	DR   = 0x00
	RSR  = 0x04
	FR   = 0x18
	IBRD = 0x24
	FBRD = 0x28
	LCRH = 0x2c
	CR   = 0x30
	IFLS = 0x34
	IMSC = 0x38
	RIS  = 0x3c
	MIS  = 0x40
	ICR  = 0x44
)

var regNames = map[uintptr]string{
	DR: "DR", RSR: "RSR", FR: "FR", IBRD: "IBRD", FBRD: "FBRD", LCRH: "LCRH",
	CR: "CR", IFLS: "IFLS", IMSC: "IMSC", RIS: "RIS", MIS: "MIS", ICR: "ICR",
}

// Flag register bits.
const (
	FlagRXFE = 1 << 4
	FlagTXFF = 1 << 5
	FlagTXFE = 1 << 7
)

// Interrupt bits of RIS, MIS, IMSC and ICR.
const (
	IntRX  = 1 << 4
	IntRT  = 1 << 6
	IntAll = 0x7ff
)

// Control and line control bits.
const (
	CtrlUARTEN = 1 << 0
	CtrlTXE    = 1 << 8
	CtrlRXE    = 1 << 9

	LineFEN = 1 << 4
)

const fifoDepth = 32

// Access is a recorded register access.
type Access struct {
	Reg   string
	Write bool
	Value uint32
}

func (a Access) String() string {
	if a.Write {
		return fmt.Sprintf("%s=%#x", a.Reg, a.Value)
	}
	return fmt.Sprintf("%s->%#x", a.Reg, a.Value)
}

// State is a snapshot of the configuration registers.
type State struct {
	CR, LCRH, IBRD, FBRD, IFLS, IMSC, RIS uint32
}

// Device is a simulated PL011. Attach it to an mmio.Map.
//
// Device is safe for concurrent use.
type Device struct {
	mtx sync.Mutex

	cr, lcrh, ibrd, fbrd, ifls, imsc, ris uint32

	rx, tx  []byte
	out     []byte
	sink    io.Writer
	stalled bool
	overrun int

	txFullPolls int
	txBusyPolls int
	rxHeld      []heldData

	flagPolls  int
	trace      []Access
	violations []Access

	onIRQ func()
}

type heldData struct {
	polls int
	data  []byte
}

// New returns a device in the state the firmware leaves the console UART in:
// enabled for transmit and receive, FIFOs off, interrupts masked.
func New() *Device {
	return &Device{cr: CtrlUARTEN | CtrlTXE | CtrlRXE}
}

func (d *Device) depth() int {
	if d.lcrh&LineFEN != 0 {
		return fifoDepth
	}
	return 1
}

// trigger returns the RX FIFO level asserting the receive interrupt.
func (d *Device) trigger() int {
	if d.lcrh&LineFEN == 0 {
		return 1
	}
	switch d.ifls >> 3 & 0x7 {
	case 0:
		return fifoDepth / 8
	case 1:
		return fifoDepth / 4
	case 2:
		return fifoDepth / 2
	case 3:
		return fifoDepth * 3 / 4
	default:
		return fifoDepth * 7 / 8
	}
}

func (d *Device) transmitting() bool {
	return !d.stalled && d.cr&(CtrlUARTEN|CtrlTXE) == CtrlUARTEN|CtrlTXE
}

func (d *Device) shiftOut() {
	if !d.transmitting() || len(d.tx) == 0 {
		return
	}
	d.out = append(d.out, d.tx...)
	if d.sink != nil {
		d.sink.Write(d.tx)
	}
	d.tx = d.tx[:0]
}

// updateRX recomputes the receive interrupt status from the FIFO level. The
// timeout interrupt is raised for data sitting below the trigger level and
// stays pending until the FIFO runs empty or it's cleared.
func (d *Device) updateRX(received bool) {
	switch n := len(d.rx); {
	case n == 0:
		d.ris &^= IntRX | IntRT
	case n >= d.trigger():
		d.ris |= IntRX
	default:
		d.ris &^= IntRX
		if received {
			d.ris |= IntRT
		}
	}
}

// pending reports whether the IRQ line is asserted.
func (d *Device) pending() bool {
	return d.ris&d.imsc != 0
}

func (d *Device) Read32(off uintptr) uint32 {
	d.mtx.Lock()
	v, irq := d.read(off)
	d.mtx.Unlock()
	if irq {
		d.raise()
	}
	return v
}

func (d *Device) read(off uintptr) (v uint32, irq bool) {
	switch off {
	case DR:
		if len(d.rx) > 0 {
			v = uint32(d.rx[0])
			d.rx = d.rx[1:]
		}
		d.updateRX(false)
	case RSR:
	case FR:
		d.flagPolls++
		v, irq = d.flags()
		return v, irq
	case IFLS:
		v = d.ifls
	case IMSC:
		v = d.imsc
	case RIS:
		v = d.ris
	case MIS:
		v = d.ris & d.imsc
	case IBRD, FBRD, LCRH, CR, ICR:
		d.violations = append(d.violations, Access{Reg: regNames[off]})
	default:
		d.violations = append(d.violations, Access{Reg: fmt.Sprintf("%#x", off)})
	}
	d.trace = append(d.trace, Access{Reg: regNames[off], Value: v})
	return v, false
}

// flags computes FR and releases held receive data whose delay expired.
func (d *Device) flags() (v uint32, irq bool) {
	for i := 0; i < len(d.rxHeld); {
		h := &d.rxHeld[i]
		if h.polls--; h.polls > 0 {
			i++
			continue
		}
		irq = d.receive(h.data) || irq
		d.rxHeld = append(d.rxHeld[:i], d.rxHeld[i+1:]...)
	}

	if len(d.rx) == 0 {
		v |= FlagRXFE
	}
	if d.txFullPolls > 0 {
		d.txFullPolls--
		v |= FlagTXFF
	} else if len(d.tx) >= d.depth() {
		v |= FlagTXFF
	}
	if d.txBusyPolls > 0 {
		d.txBusyPolls--
	} else if len(d.tx) == 0 {
		v |= FlagTXFE
	}
	return v, irq
}

func (d *Device) Write32(off uintptr, v uint32) {
	d.mtx.Lock()
	irq := d.write(off, v)
	d.mtx.Unlock()
	if irq {
		d.raise()
	}
}

func (d *Device) write(off uintptr, v uint32) (irq bool) {
	d.trace = append(d.trace, Access{Reg: regNames[off], Write: true, Value: v})

	before := d.pending()
	switch off {
	case DR:
		if len(d.tx) < d.depth() {
			d.tx = append(d.tx, byte(v))
		}
		d.shiftOut()
	case RSR:
	case IBRD:
		d.ibrd = v & 0xffff
	case FBRD:
		d.fbrd = v & 0x3f
	case LCRH:
		d.lcrh = v & 0xff
	case CR:
		d.cr = v & 0xff87
		d.shiftOut()
	case IFLS:
		d.ifls = v & 0x3f
	case IMSC:
		d.imsc = v & IntAll
	case ICR:
		d.ris &^= v & IntAll
	case FR, RIS, MIS:
		d.violations = append(d.violations, Access{Reg: regNames[off], Write: true, Value: v})
	default:
		d.violations = append(d.violations, Access{Reg: fmt.Sprintf("%#x", off), Write: true, Value: v})
	}
	return !before && d.pending()
}

func (d *Device) receive(p []byte) (irq bool) {
	if d.cr&(CtrlUARTEN|CtrlRXE) != CtrlUARTEN|CtrlRXE {
		return false
	}
	before := d.pending()
	for _, b := range p {
		if len(d.rx) >= d.depth() {
			d.overrun++
			continue
		}
		d.rx = append(d.rx, b)
	}
	d.updateRX(true)
	return !before && d.pending()
}

func (d *Device) raise() {
	d.mtx.Lock()
	f := d.onIRQ
	d.mtx.Unlock()
	if f != nil {
		f()
	}
}

// OnIRQ sets a function to call whenever the IRQ line gets asserted. It's
// called without any lock of the device held.
func (d *Device) OnIRQ(f func()) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.onIRQ = f
}

// SetOutput additionally copies transmitted bytes to w.
func (d *Device) SetOutput(w io.Writer) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.sink = w
}

// Feed makes p arrive on the receive line.
func (d *Device) Feed(p []byte) {
	d.mtx.Lock()
	irq := d.receive(p)
	d.mtx.Unlock()
	if irq {
		d.raise()
	}
}

// FeedAfter makes p arrive after the flag register was polled the given
// number of times.
func (d *Device) FeedAfter(polls int, p []byte) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.rxHeld = append(d.rxHeld, heldData{polls, append([]byte(nil), p...)})
}

// HoldTXFull reports a full TX FIFO for the next polls reads of the flag
// register.
func (d *Device) HoldTXFull(polls int) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.txFullPolls = polls
}

// HoldTXBusy reports a non-empty TX FIFO for the next polls reads of the flag
// register.
func (d *Device) HoldTXBusy(polls int) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.txBusyPolls = polls
}

// Stall stops the transmitter, so written bytes accumulate in the TX FIFO.
// Resuming sends them.
func (d *Device) Stall(stalled bool) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.stalled = stalled
	d.shiftOut()
}

// TakeOutput returns the bytes transmitted since the last call.
func (d *Device) TakeOutput() []byte {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	out := d.out
	d.out = nil
	return out
}

// Pending returns the number of bytes in the RX FIFO.
func (d *Device) Pending() int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return len(d.rx)
}

// Overrun returns the number of received bytes dropped on a full RX FIFO.
func (d *Device) Overrun() int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.overrun
}

// FlagPolls returns the number of reads of the flag register.
func (d *Device) FlagPolls() int {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.flagPolls
}

// State returns the configuration registers.
func (d *Device) State() State {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return State{
		CR: d.cr, LCRH: d.lcrh, IBRD: d.ibrd, FBRD: d.fbrd,
		IFLS: d.ifls, IMSC: d.imsc, RIS: d.ris,
	}
}

// Trace returns and resets the recorded accesses, except reads of the flag
// register.
func (d *Device) Trace() []Access {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	t := d.trace
	d.trace = nil
	return t
}

// Violations returns reads of write-only and writes of read-only registers.
func (d *Device) Violations() []Access {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return append([]Access(nil), d.violations...)
}
