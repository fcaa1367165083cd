// Package exception handles the core's asynchronous exception state.
//
// On a host there are no exceptions to mask. IRQs are modelled as masked
// while any caller is between LocalIRQMaskSave and LocalIRQRestore, which
// behaves like a single core even when goroutines take the lock concurrently.
package exception

// IRQState is a saved exception mask.
type IRQState uint64
