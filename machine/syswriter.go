// Package machine provides the kernel's last resort output, used for panics
// and exceptions when the regular console may be unusable.
package machine

import (
	"io"

	"github.com/clktmr/rpi/drivers/pl011"
)

// PanicWriter returns a writer printing through a lock-free handle to u.
// Each write picks the virtual or physical base depending on whether u was
// mapped yet, so it works from early boot on. Newlines are sent as CRLF and
// the write returns after the UART drained its TX FIFO.
func PanicWriter(u *pl011.UART) io.Writer { return panicWriter{u} }

type panicWriter struct {
	u *pl011.UART
}

func (w panicWriter) Write(p []byte) (int, error) {
	pu := w.u.PanicUART()
	if _, mapped := w.u.VirtMMIOStartAddr(); !mapped {
		// Nobody configured the UART yet.
		pu.Init()
	}

	for _, b := range p {
		if b == '\n' {
			pu.WriteChar('\r')
		}
		pu.WriteChar(rune(b))
	}
	pu.Flush()
	return len(p), nil
}
