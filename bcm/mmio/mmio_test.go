package mmio

import (
	"errors"
	"testing"
	"unsafe"
)

// ram is a Device backed by plain words.
type ram []uint32

func (r ram) Read32(off uintptr) uint32     { return r[off/4] }
func (r ram) Write32(off uintptr, v uint32) { r[off/4] = v }

type lcrh uint32

func TestField(t *testing.T) {
	wlen := Field[lcrh]{Pos: 5, Width: 2}
	fen := Field[lcrh]{Pos: 4, Width: 1}

	tests := map[string]struct {
		got, want lcrh
	}{
		"val":      {wlen.Val(0b11), 0x60},
		"overflow": {wlen.Val(0b111), 0x60},
		"set":      {fen.Set(), 0x10},
		"mask":     {wlen.Mask(), 0x60},
		"combined": {wlen.Val(0b11) | fen.Set(), 0x70},
		"zero":     {wlen.Val(0), 0},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Fatalf("expected %#x, got %#x", tc.want, tc.got)
			}
		})
	}

	v := lcrh(0x70)
	if got := wlen.Get(v); got != 0b11 {
		t.Errorf("Get: expected 3, got %d", got)
	}
	if !fen.IsSet(v) || fen.IsClear(v) {
		t.Error("fen should be set in", v)
	}
	if wlen.IsSet(0x20) {
		t.Error("partially set field reported as set")
	}
}

func TestMap(t *testing.T) {
	var m Map
	dev := make(ram, 4)
	if err := m.Attach(0x1000, 0x10, dev); err != nil {
		t.Fatal(err)
	}
	if err := m.Attach(0x100c, 0x10, make(ram, 4)); !errors.Is(err, ErrWindowOverlap) {
		t.Fatalf("expected %v, got %v", ErrWindowOverlap, err)
	}

	reg := NewRW[uint32](&m, 0x1008)
	reg.Store(0xf0)
	reg.StoreBits(0x3c, 0x0f)
	if got := dev[2]; got != 0xcc {
		t.Fatalf("expected 0xcc, got %#x", got)
	}
	if got := reg.LoadBits(0x0c); got != 0x0c {
		t.Fatalf("expected 0xc, got %#x", got)
	}

	ro := NewRO[uint32](&m, 0x1000)
	dev[0] = 42
	if ro.Load() != 42 {
		t.Fatal("read-only register doesn't read device")
	}
	NewWO[uint32](&m, 0x1004).Store(7)
	if dev[1] != 7 {
		t.Fatal("write-only register doesn't write device")
	}
}

type offset uintptr

func (o offset) Translate(addr uintptr) (uintptr, bool) {
	if addr >= 0x8000 {
		return addr - uintptr(o), true
	}
	return 0, false
}

func TestMapTranslate(t *testing.T) {
	m := Map{Translator: offset(0x7000)}
	dev := make(ram, 4)
	m.Attach(0x1000, 0x10, dev)

	m.Store32(0x8004, 1)
	m.Store32(0x1008, 2)
	if dev[1] != 1 || dev[2] != 2 {
		t.Fatalf("unexpected device state %v", dev)
	}
}

func TestMapBusError(t *testing.T) {
	tests := map[string]uintptr{
		"unmapped":  0x2000,
		"unaligned": 0x1002,
	}
	for name, addr := range tests {
		t.Run(name, func(t *testing.T) {
			var m Map
			m.Attach(0x1000, 0x10, make(ram, 4))
			defer func() {
				if recover() == nil {
					t.Fatal("expected panic")
				}
			}()
			m.Load32(addr)
		})
	}
}

func TestDirect(t *testing.T) {
	words := make([]uint32, 2)
	addr := uintptr(unsafe.Pointer(&words[0]))

	NewWO[uint32](Direct, addr+4).Store(0xcafe)
	if words[1] != 0xcafe {
		t.Fatalf("expected 0xcafe, got %#x", words[1])
	}
	words[0] = 0xbeef
	if got := NewRO[uint32](Direct, addr).Load(); got != 0xbeef {
		t.Fatalf("expected 0xbeef, got %#x", got)
	}
}
