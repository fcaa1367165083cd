// Package console defines the roles a kernel console device plays and adapts
// them to the io interfaces.
package console

import "io"

// Write is the output side of a console.
type Write interface {
	// WriteChar writes a single character.
	WriteChar(c rune)

	// Printf writes formatted text.
	Printf(format string, a ...any) error

	// Flush blocks until all previously written characters left the
	// device.
	Flush()
}

// Read is the input side of a console.
type Read interface {
	// ReadChar blocks until a character is available.
	ReadChar() rune

	// Clear discards pending input.
	Clear()
}

// NonBlockingRead is optionally implemented by consoles which can poll for
// input.
type NonBlockingRead interface {
	ReadCharNonBlocking() (c rune, ok bool)
}

// Statistics reports the number of characters transferred.
type Statistics interface {
	CharsWritten() int
	CharsRead() int
}

// All is a full console.
type All interface {
	Write
	Read
	Statistics
}

// Writer returns an io.Writer writing to c. If c already implements
// io.Writer it's returned as is.
func Writer(c Write) io.Writer {
	if w, ok := c.(io.Writer); ok {
		return w
	}
	return writer{c}
}

type writer struct{ c Write }

func (w writer) Write(p []byte) (int, error) {
	for _, b := range p {
		w.c.WriteChar(rune(b))
	}
	return len(p), nil
}

// Reader returns an io.Reader reading from c. Read blocks for the first byte
// and then returns whatever else is pending, if c can be polled.
func Reader(c Read) io.Reader { return reader{c} }

type reader struct{ c Read }

func (r reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	p[0] = byte(r.c.ReadChar())
	n = 1

	nb, ok := r.c.(NonBlockingRead)
	if !ok {
		return
	}
	for n < len(p) {
		c, ok := nb.ReadCharNonBlocking()
		if !ok {
			break
		}
		p[n] = byte(c)
		n++
	}
	return
}
