//go:build !(noos && arm64)

package exception

import "sync/atomic"

var maskDepth atomic.Int32

func LocalIRQMaskSave() IRQState {
	return IRQState(maskDepth.Add(1) - 1)
}

func LocalIRQRestore(s IRQState) {
	if maskDepth.Add(-1) < 0 {
		panic("exception: unbalanced LocalIRQRestore")
	}
}

func IsLocalIRQMasked() bool {
	return maskDepth.Load() > 0
}
