package pl011

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/clktmr/rpi/bcm/mmio"
	"github.com/clktmr/rpi/console"
	"github.com/clktmr/rpi/debug"
	"github.com/clktmr/rpi/drivers"
	"github.com/clktmr/rpi/exception/irq"
	"github.com/clktmr/rpi/irqlock"
	"github.com/clktmr/rpi/memory/mmu"
)

const compatible = "BCM PL011 UART"

// UART is the kernel's handle to a PL011. It's safe for concurrent use from
// threads and the interrupt handler.
type UART struct {
	bus      mmio.Bus
	mmio     mmu.MMIODescriptor
	virtBase atomic.Uintptr
	irqNum   irq.Number
	mapper   mmu.Mapper
	irqs     irq.Manager

	inner *irqlock.Mutex[uart]
}

var (
	_ drivers.DeviceDriver    = (*UART)(nil)
	_ console.All             = (*UART)(nil)
	_ console.NonBlockingRead = (*UART)(nil)
	_ irq.Handler             = (*UART)(nil)
	_ io.Writer               = (*UART)(nil)
)

// New returns a handle to the UART at the physical region d, reached through
// bus. The registers stay bound to the physical base until Init maps the
// region with mapper. irqs is the controller IRQ line irqNum belongs to.
//
// The device isn't accessed before Init.
func New(bus mmio.Bus, d mmu.MMIODescriptor, irqNum irq.Number, mapper mmu.Mapper, irqs irq.Manager) *UART {
	debug.Assert(d.Size() >= BlockSize, "pl011: MMIO region smaller than register block")
	return &UART{
		bus:    bus,
		mmio:   d,
		irqNum: irqNum,
		mapper: mapper,
		irqs:   irqs,
		inner:  irqlock.New(newUART(bus, uintptr(d.Start()))),
	}
}

func (u *UART) Compatible() string { return compatible }

// Init maps the register block into the kernel's address space and programs
// the UART through the new mapping. The virtual base is published only after
// the UART was configured. On error the device is left untouched.
func (u *UART) Init() error {
	virt, err := u.mapper.MapMMIO(compatible, u.mmio)
	if err != nil {
		return fmt.Errorf("pl011: %w", err)
	}

	u.inner.Lock(func(inner *uart) {
		inner.init(uintptr(virt))
	})
	u.virtBase.Store(uintptr(virt))
	return nil
}

func (u *UART) RegisterAndEnableIRQHandler() error {
	err := u.irqs.RegisterHandler(u.irqNum, irq.Descriptor{
		Name:    compatible,
		Handler: u,
	})
	if err != nil {
		return err
	}
	u.irqs.Enable(u.irqNum)
	return nil
}

// VirtMMIOStartAddr returns the virtual base of the registers, once Init
// succeeded.
func (u *UART) VirtMMIOStartAddr() (uintptr, bool) {
	addr := u.virtBase.Load()
	return addr, addr != 0
}

// IRQNumber returns the interrupt line of the UART.
func (u *UART) IRQNumber() irq.Number { return u.irqNum }

func (u *UART) WriteChar(c rune) {
	u.inner.Lock(func(inner *uart) { inner.writeChar(c) })
}

// Printf writes formatted output. The lock is held for the whole output, so
// concurrent calls don't interleave.
func (u *UART) Printf(format string, a ...any) (err error) {
	u.inner.Lock(func(inner *uart) {
		_, err = fmt.Fprintf(inner, format, a...)
	})
	return
}

func (u *UART) Write(p []byte) (n int, err error) {
	u.inner.Lock(func(inner *uart) { n, err = inner.Write(p) })
	return
}

func (u *UART) Flush() {
	u.inner.Lock(func(inner *uart) { inner.flush() })
}

// ReadChar blocks until a character was received. Carriage return is
// returned as newline.
func (u *UART) ReadChar() (c rune) {
	u.inner.Lock(func(inner *uart) { c, _ = inner.readChar(blocking) })
	return
}

func (u *UART) ReadCharNonBlocking() (c rune, ok bool) {
	u.inner.Lock(func(inner *uart) { c, ok = inner.readChar(nonBlocking) })
	return
}

func (u *UART) Clear() {
	u.inner.Lock(func(inner *uart) { inner.clear() })
}

func (u *UART) CharsWritten() (n int) {
	u.inner.Lock(func(inner *uart) { n = inner.charsWritten })
	return
}

func (u *UART) CharsRead() (n int) {
	u.inner.Lock(func(inner *uart) { n = inner.charsRead })
	return
}

// Handle services the UART interrupt by echoing all received characters.
func (u *UART) Handle() error {
	u.inner.Lock(func(inner *uart) { inner.handleIRQ() })
	return nil
}
