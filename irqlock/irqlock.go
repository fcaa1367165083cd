// Package irqlock provides a lock that is safe to take from both normal and
// interrupt context.
package irqlock

import (
	"sync/atomic"

	"github.com/clktmr/rpi/bcm/cpu"
	"github.com/clktmr/rpi/exception"
)

// Mutex guards a value of type T. Taking the lock masks IRQs on the executing
// core, so an interrupt handler can't preempt a holder of the same lock and
// deadlock. A spin flag serializes holders on different cores.
//
// The lock is not reentrant. Critical sections are allowed to busy-wait on
// hardware, but should otherwise be short.
type Mutex[T any] struct {
	locked atomic.Bool
	data   T
}

func New[T any](data T) *Mutex[T] {
	return &Mutex[T]{data: data}
}

// Lock runs f with exclusive access to the guarded value. The pointer must
// not be retained after f returns.
func (m *Mutex[T]) Lock(f func(v *T)) {
	state := exception.LocalIRQMaskSave()
	for !m.locked.CompareAndSwap(false, true) {
		cpu.Nop()
	}
	defer func() {
		m.locked.Store(false)
		exception.LocalIRQRestore(state)
	}()

	f(&m.data)
}
