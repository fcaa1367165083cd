// Package irq dispatches hardware interrupts to the drivers that registered
// for them.
package irq

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/clktmr/rpi/exception"
)

// Number identifies an interrupt line of the interrupt controller.
type Number uint32

// Handler services a pending interrupt. It's called with IRQs masked on the
// executing core.
type Handler interface {
	Handle() error
}

// Descriptor binds a handler to a line.
type Descriptor struct {
	Name    string
	Handler Handler
}

// Manager is implemented by interrupt controllers.
type Manager interface {
	RegisterHandler(n Number, d Descriptor) error
	Enable(n Number)
}

var (
	ErrOutOfRange        = errors.New("IRQ number out of range")
	ErrAlreadyRegistered = errors.New("IRQ handler already registered")
	ErrUnhandled         = errors.New("no IRQ handler registered")
	ErrMasked            = errors.New("IRQ not enabled")
)

// Controller is a table-based interrupt controller with a fixed number of
// lines. A handler is bound only once and stays bound for the lifetime of
// the controller.
type Controller struct {
	mtx      sync.Mutex
	handlers []*Descriptor
	enabled  []bool
}

func NewController(lines int) *Controller {
	return &Controller{
		handlers: make([]*Descriptor, lines),
		enabled:  make([]bool, lines),
	}
}

// Lines returns the number of interrupt lines.
func (c *Controller) Lines() int { return len(c.handlers) }

func (c *Controller) RegisterHandler(n Number, d Descriptor) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if int(n) >= len(c.handlers) {
		return fmt.Errorf("register %s: %w: %d", d.Name, ErrOutOfRange, n)
	}
	if c.handlers[n] != nil {
		return fmt.Errorf("register %s: %w: %d (%s)", d.Name, ErrAlreadyRegistered, n, c.handlers[n].Name)
	}
	c.handlers[n] = &d
	return nil
}

// Enable activates delivery of line n. Invalid lines are ignored.
func (c *Controller) Enable(n Number) { c.setEnabled(n, true) }

// Disable stops delivery of line n. Invalid lines are ignored.
func (c *Controller) Disable(n Number) { c.setEnabled(n, false) }

func (c *Controller) setEnabled(n Number, en bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if int(n) < len(c.enabled) {
		c.enabled[n] = en
	}
}

func (c *Controller) Enabled(n Number) bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return int(n) < len(c.enabled) && c.enabled[n]
}

// Dispatch delivers an interrupt on line n to its handler. The handler runs
// with IRQs masked on the executing core.
func (c *Controller) Dispatch(n Number) error {
	c.mtx.Lock()
	if int(n) >= len(c.handlers) {
		c.mtx.Unlock()
		return fmt.Errorf("dispatch: %w: %d", ErrOutOfRange, n)
	}
	d, en := c.handlers[n], c.enabled[n]
	c.mtx.Unlock()

	if !en {
		return fmt.Errorf("dispatch: %w: %d", ErrMasked, n)
	}
	if d == nil {
		return fmt.Errorf("dispatch: %w: %d", ErrUnhandled, n)
	}

	state := exception.LocalIRQMaskSave()
	err := d.Handler.Handle()
	exception.LocalIRQRestore(state)
	if err != nil {
		return fmt.Errorf("irq %d (%s): %w", n, d.Name, err)
	}
	return nil
}

// WriteHandlers prints a table of the registered handlers.
func (c *Controller) WriteHandlers(w io.Writer) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "IRQ\tHANDLER\tENABLED")
	for n, d := range c.handlers {
		if d == nil {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%v\n", n, d.Name, c.enabled[n])
	}
	return tw.Flush()
}
