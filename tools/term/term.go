package term

import (
	"io"

	"go.bug.st/serial"
	"gopkg.in/tomb.v2"
)

// Mode returns the line settings of the console UART at the given baud
// rate: 8 data bits, no parity, one stop bit.
func Mode(baud int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Bridge connects a serial port to the local terminal.
type Bridge struct {
	t tomb.Tomb
}

// NewBridge copies from port to out and from in to port. The bridge stops
// when the port reaches EOF or either copy fails, and closes the port.
//
// The copy from in isn't tracked, since reads from a terminal can't be
// interrupted. It ends with the next input after the port was closed.
func NewBridge(port io.ReadWriteCloser, in io.Reader, out io.Writer) *Bridge {
	b := &Bridge{}
	b.t.Go(func() error {
		_, err := io.Copy(out, port)
		return b.stop(err)
	})
	b.t.Go(func() error {
		<-b.t.Dying()
		return port.Close()
	})
	go func() {
		if _, err := io.Copy(port, in); err != nil {
			b.stop(err)
		}
	}()
	return b
}

// stop kills the bridge with err, unless it's already dying. Errors caused
// by closing the port are dropped that way.
func (b *Bridge) stop(err error) error {
	select {
	case <-b.t.Dying():
		return nil
	default:
	}
	b.t.Kill(err)
	return err
}

// Dying is closed once the bridge stops.
func (b *Bridge) Dying() <-chan struct{} { return b.t.Dying() }

// Stop closes the port and returns the error the bridge failed with, if
// any.
func (b *Bridge) Stop() error {
	b.t.Kill(nil)
	return b.t.Wait()
}
