//go:build !noos

package raspberrypi

import (
	"github.com/clktmr/rpi/bcm/mmio"
	"github.com/clktmr/rpi/drivers/pl011/pl011sim"
	"github.com/clktmr/rpi/memory/mmu"
)

// Simulated is a board running on the host, with its console UART replaced
// by a pl011sim.Device.
type Simulated struct {
	*System
	Bus    *mmio.Map
	MMU    *mmu.KernelMapper
	UART   *pl011sim.Device

	irq chan struct{}
}

// NewSimulated returns a simulation of board b. Interrupts of the UART are
// queued until ServeIRQs dispatches them.
func NewSimulated(b Board) (*Simulated, error) {
	s := &Simulated{
		MMU:    mmu.NewKernelMapper(b.MMIOWindowStart, b.MMIOWindowSize),
		UART:   pl011sim.New(),
		irq:    make(chan struct{}, 1),
	}
	s.Bus = &mmio.Map{Translator: s.MMU}
	if err := s.Bus.Attach(uintptr(b.PL011Start), pl011sim.Size, s.UART); err != nil {
		return nil, err
	}

	var err error
	s.System, err = NewSystem(b, s.Bus, s.MMU)
	if err != nil {
		return nil, err
	}

	// The line may be raised from within a register access, while the
	// driver holds its lock. Don't dispatch from here.
	s.UART.OnIRQ(func() {
		select {
		case s.irq <- struct{}{}:
		default:
		}
	})
	return s, nil
}

// ServeIRQs dispatches the interrupts of the UART until done is closed or the
// dispatch fails.
func (s *Simulated) ServeIRQs(done <-chan struct{}) error {
	for {
		select {
		case <-done:
			return nil
		case <-s.irq:
			if err := s.IRQs.Dispatch(s.Board.PL011IRQ); err != nil {
				return err
			}
		}
	}
}
