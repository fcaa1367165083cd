//go:build !noos

package mmio

import (
	"sync/atomic"
	"unsafe"
)

type direct struct{}

// Direct accesses the register at its address. On a host this is plain memory,
// accessed atomically so loads and stores aren't elided.
var Direct Bus = direct{}

func (direct) Load32(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

func (direct) Store32(addr uintptr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}
