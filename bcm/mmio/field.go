package mmio

import "github.com/usbarmory/tamago/bits"

// Field describes a bitfield of register type R.
type Field[R T32] struct {
	Pos   int
	Width int
}

func (f Field[R]) mask() int { return 1<<f.Width - 1 }

// Mask returns the bits occupied by the field.
func (f Field[R]) Mask() R { return f.Val(uint32(f.mask())) }

// Val returns v placed into the field, all other bits cleared. Excess bits of
// v are dropped.
func (f Field[R]) Val(v uint32) R {
	var r uint32
	bits.SetN(&r, f.Pos, f.mask(), v&uint32(f.mask()))
	return R(r)
}

// Set returns the field with all of its bits set.
func (f Field[R]) Set() R { return f.Mask() }

// Get extracts the field from a register value.
func (f Field[R]) Get(r R) uint32 {
	v := uint32(r)
	return bits.Get(&v, f.Pos, f.mask())
}

// IsSet reports whether all bits of the field are set in r.
func (f Field[R]) IsSet(r R) bool { return f.Get(r) == uint32(f.mask()) }

// IsClear reports whether no bit of the field is set in r.
func (f Field[R]) IsClear(r R) bool { return f.Get(r) == 0 }
