package sim

import (
	"errors"
	"fmt"
	"io"
	"syscall"
	"time"

	"gopkg.in/tomb.v2"

	"github.com/clktmr/rpi/bsp/raspberrypi"
	"github.com/clktmr/rpi/console"
	"github.com/clktmr/rpi/drivers/pl011"
)

// Bytes are held back from the simulated UART while its RX FIFO is filled
// above this level, so fast senders don't overrun it.
const rxHighWater = 16

// Session connects the console UART of a simulated board to a serial line.
// Received bytes raise interrupts, which are serviced by the driver's echo
// handler. Transmitted bytes are written to the line.
type Session struct {
	Board *raspberrypi.Simulated
	line  io.ReadWriter
	t     tomb.Tomb
}

// NewSession returns a session for board b on line. If line implements
// io.Closer, it's closed by Stop.
func NewSession(b raspberrypi.Board, line io.ReadWriter) (*Session, error) {
	sim, err := raspberrypi.NewSimulated(b)
	if err != nil {
		return nil, err
	}
	sim.UART.SetOutput(line)

	s := &Session{Board: sim, line: line}
	sim.ConsoleReady = s.greet
	return s, nil
}

func (s *Session) greet(c console.All) error {
	w := console.NewCRLFWriter(console.Writer(c))
	_, err := fmt.Fprintf(w, "%s console, %d baud 8N1\n", s.Board.Board.Name, pl011.BaudRate)
	return err
}

// Start brings up the board and starts serving the line.
func (s *Session) Start() error {
	if err := s.Board.Init(); err != nil {
		return err
	}
	s.t.Go(func() error { return s.Board.ServeIRQs(s.t.Dying()) })
	s.t.Go(s.receive)
	return nil
}

// Go runs f along with the session. The session stops once f returns.
func (s *Session) Go(f func() error) {
	s.t.Go(func() error {
		err := f()
		s.t.Kill(err)
		return err
	})
}

// Dying is closed once the session is asked to stop.
func (s *Session) Dying() <-chan struct{} { return s.t.Dying() }

// Stop ends the session and returns the first error it failed with.
func (s *Session) Stop() error {
	s.t.Kill(nil)
	if c, ok := s.line.(io.Closer); ok {
		c.Close()
	}
	return s.t.Wait()
}

func (s *Session) receive() error {
	buf := make([]byte, 64)
	for {
		n, err := s.line.Read(buf)
		for _, b := range buf[:n] {
			if !s.waitRX() {
				return nil
			}
			s.Board.UART.Feed([]byte{b})
		}
		switch {
		case err == nil:
		case err == io.EOF, errors.Is(err, syscall.EIO):
			// Hangup
			s.t.Kill(nil)
			return nil
		default:
			select {
			case <-s.t.Dying():
				return nil
			default:
				return err
			}
		}
	}
}

// waitRX blocks while the RX FIFO is above rxHighWater. It returns false if
// the session is stopping.
func (s *Session) waitRX() bool {
	for s.Board.UART.Pending() >= rxHighWater {
		select {
		case <-s.t.Dying():
			return false
		case <-time.After(time.Millisecond):
		}
	}
	return true
}
