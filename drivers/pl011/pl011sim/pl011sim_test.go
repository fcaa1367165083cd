package pl011sim

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func enableFIFO(d *Device) {
	d.Write32(LCRH, 0x70)
	d.Write32(IMSC, IntRX|IntRT)
	d.Write32(CR, CtrlUARTEN|CtrlTXE|CtrlRXE)
}

func TestTransmit(t *testing.T) {
	d := New()
	var sink bytes.Buffer
	d.SetOutput(&sink)

	d.Write32(DR, 'h')
	d.Write32(DR, 'i')
	if got := string(d.TakeOutput()); got != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got)
	}
	if sink.String() != "hi" {
		t.Fatalf("sink got %q", sink.String())
	}

	d.Write32(CR, 0)
	d.Write32(DR, 'x')
	if fr := d.Read32(FR); fr&FlagTXFE != 0 || fr&FlagTXFF == 0 {
		t.Fatalf("expected full, non-empty TX holding register, FR %#x", fr)
	}
	if len(d.TakeOutput()) != 0 {
		t.Fatal("disabled UART transmitted")
	}
	d.Write32(CR, CtrlUARTEN|CtrlTXE)
	if got := string(d.TakeOutput()); got != "x" {
		t.Fatalf("expected %q after enabling, got %q", "x", got)
	}
}

func TestStall(t *testing.T) {
	d := New()
	enableFIFO(d)
	d.Stall(true)
	for i := range fifoDepth + 4 {
		d.Write32(DR, uint32('a'+i%26))
	}
	if fr := d.Read32(FR); fr&FlagTXFF == 0 {
		t.Fatalf("expected TX FIFO full, FR %#x", fr)
	}
	d.Stall(false)
	if n := len(d.TakeOutput()); n != fifoDepth {
		t.Fatalf("expected %d bytes, got %d", fifoDepth, n)
	}
	if fr := d.Read32(FR); fr&FlagTXFE == 0 {
		t.Fatalf("expected TX FIFO empty, FR %#x", fr)
	}
}

func TestReceiveInterrupts(t *testing.T) {
	d := New()
	enableFIFO(d)
	irqs := 0
	d.OnIRQ(func() { irqs++ })

	d.Feed([]byte("ab"))
	if mis := d.Read32(MIS); mis != IntRT {
		t.Fatalf("expected timeout interrupt, MIS %#x", mis)
	}
	if irqs != 1 {
		t.Fatalf("expected 1 IRQ, got %d", irqs)
	}

	d.Feed([]byte("cd"))
	if mis := d.Read32(MIS); mis != IntRX|IntRT {
		t.Fatalf("expected receive and timeout interrupt, MIS %#x", mis)
	}
	if irqs != 1 {
		t.Fatal("IRQ raised while line was still asserted")
	}

	d.Write32(ICR, IntAll)
	if mis := d.Read32(MIS); mis != 0 {
		t.Fatalf("expected no interrupt after clear, MIS %#x", mis)
	}

	var got []byte
	for d.Read32(FR)&FlagRXFE == 0 {
		got = append(got, byte(d.Read32(DR)))
	}
	if string(got) != "abcd" {
		t.Fatalf("expected %q, got %q", "abcd", got)
	}

	d.Write32(IMSC, 0)
	d.Feed([]byte("e"))
	if irqs != 1 || d.Read32(RIS) != IntRT {
		t.Fatalf("masked interrupt raised, RIS %#x", d.Read32(RIS))
	}
}

func TestViolations(t *testing.T) {
	d := New()
	d.Read32(CR)
	d.Read32(ICR)
	d.Write32(FR, 1)
	d.Write32(MIS, 1)
	d.Read32(IMSC)

	v := d.Violations()
	if len(v) != 4 {
		t.Fatalf("expected 4 violations, got %s", spew.Sdump(v))
	}
	if v[0].Reg != "CR" || v[3].Reg != "MIS" || !v[3].Write {
		t.Fatalf("unexpected violations %v", v)
	}
}

func TestFeedAfter(t *testing.T) {
	d := New()
	d.FeedAfter(3, []byte("z"))
	for i := 1; i < 3; i++ {
		if d.Read32(FR)&FlagRXFE == 0 {
			t.Fatalf("data visible after %d polls", i)
		}
	}
	if d.Read32(FR)&FlagRXFE != 0 {
		t.Fatal("data not visible after 3 polls")
	}
	if c := d.Read32(DR); c != 'z' {
		t.Fatalf("expected 'z', got %q", rune(c))
	}
}

func TestOverrun(t *testing.T) {
	d := New() // FIFOs disabled
	d.Feed([]byte("xyz"))
	if d.Pending() != 1 || d.Overrun() != 2 {
		t.Fatalf("expected 1 pending and 2 dropped, got %d and %d", d.Pending(), d.Overrun())
	}
}
