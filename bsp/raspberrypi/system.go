package raspberrypi

import (
	"fmt"
	"io"

	"github.com/clktmr/rpi/bcm/mmio"
	"github.com/clktmr/rpi/console"
	"github.com/clktmr/rpi/drivers"
	"github.com/clktmr/rpi/drivers/pl011"
	"github.com/clktmr/rpi/exception/irq"
	"github.com/clktmr/rpi/memory/mmu"
)

// NewConsole returns the driver for the board's console UART.
func NewConsole(b Board, bus mmio.Bus, mapper mmu.Mapper, irqs irq.Manager) (*pl011.UART, error) {
	d, err := mmu.NewMMIODescriptor(b.PL011Start, pl011.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%s console: %w", b.Name, err)
	}
	return pl011.New(bus, d, b.PL011IRQ, mapper, irqs), nil
}

// System is the set of drivers of a board, ready to be brought up by Init.
type System struct {
	Board   Board
	Mapper  mmu.Mapper
	IRQs    *irq.Controller
	Drivers *drivers.Manager
	Console *pl011.UART

	// ConsoleReady is called right after the console was initialized,
	// before any interrupt is enabled. Optional.
	ConsoleReady func(c console.All) error
}

// NewSystem populates the device table of board b. Registers are accessed
// through bus and mapped by mapper.
func NewSystem(b Board, bus mmio.Bus, mapper mmu.Mapper) (*System, error) {
	s := &System{
		Board:   b,
		Mapper:  mapper,
		IRQs:    irq.NewController(b.IRQLines),
		Drivers: drivers.NewManager(),
	}

	var err error
	s.Console, err = NewConsole(b, bus, mapper, s.IRQs)
	if err != nil {
		return nil, err
	}
	s.Drivers.Register(drivers.Descriptor{
		Driver:   s.Console,
		PostInit: s.consoleReady,
	})
	return s, nil
}

func (s *System) consoleReady() error {
	if s.ConsoleReady == nil {
		return nil
	}
	return s.ConsoleReady(s.Console)
}

// Init initializes all drivers and enables their interrupts afterwards.
func (s *System) Init() error {
	if err := s.Drivers.InitDrivers(); err != nil {
		return err
	}
	return s.Drivers.InitIRQs()
}

// WriteStatus prints the drivers, MMIO mappings and interrupt handlers.
func (s *System) WriteStatus(w io.Writer) error {
	fmt.Fprintf(w, "%s\n\nDrivers:\n", s.Board.Name)
	if err := s.Drivers.Enumerate(w); err != nil {
		return err
	}
	if m, ok := s.Mapper.(interface{ WriteMappings(io.Writer) error }); ok {
		fmt.Fprint(w, "\nMMIO mappings:\n")
		if err := m.WriteMappings(w); err != nil {
			return err
		}
	}
	fmt.Fprint(w, "\nInterrupt handlers:\n")
	return s.IRQs.WriteHandlers(w)
}
