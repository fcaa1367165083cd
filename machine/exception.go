package machine

import "io"

// Exception classes of ESR_EL1.EC
var excNames = [64]string{
	0x00: "Unknown Reason",
	0x01: "Trapped WFI/WFE",
	0x07: "SIMD/FP Access",
	0x0e: "Illegal Execution State",
	0x15: "SVC",
	0x18: "Trapped MSR/MRS",
	0x20: "Instruction Abort (lower EL)",
	0x21: "Instruction Abort",
	0x22: "PC Alignment Fault",
	0x24: "Data Abort (lower EL)",
	0x25: "Data Abort",
	0x26: "SP Alignment Fault",
	0x2c: "Floating-Point",
	0x2f: "SError",
	0x30: "Breakpoint (lower EL)",
	0x31: "Breakpoint",
	0x32: "Software Step (lower EL)",
	0x33: "Software Step",
	0x34: "Watchpoint (lower EL)",
	0x35: "Watchpoint",
	0x3c: "BRK",
}

// ExceptionContext holds the system registers describing a synchronous
// exception.
type ExceptionContext struct {
	ESR  uint64
	ELR  uint64
	FAR  uint64
	SPSR uint64
}

// WriteException prints c to w. It doesn't allocate, so it can be used with
// a broken heap.
func WriteException(w io.Writer, c *ExceptionContext) {
	var buf [16]byte
	name := excNames[c.ESR>>26&0x3f]
	if name == "" {
		name = "Reserved"
	}
	io.WriteString(w, "Unhandled ")
	io.WriteString(w, name)
	io.WriteString(w, " Exception")

	io.WriteString(w, "\nesr  0x")
	w.Write(itoa(buf[:], c.ESR))
	io.WriteString(w, "\nelr  0x")
	w.Write(itoa(buf[:], c.ELR))
	io.WriteString(w, "\nfar  0x")
	w.Write(itoa(buf[:], c.FAR))
	io.WriteString(w, "\nspsr 0x")
	w.Write(itoa(buf[:], c.SPSR))
	io.WriteString(w, "\n")
}

// itoa formats num as 16 hex digits.
func itoa(buf []byte, num uint64) []byte {
	for i := range 16 {
		char := byte(num>>(60-(4*i))) & 0xf
		if char > 9 {
			char += 'a' - 10
		} else {
			char += '0'
		}
		buf[i] = char
	}
	return buf
}
