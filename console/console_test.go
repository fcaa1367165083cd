package console

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

// fake is a console backed by byte buffers.
type fake struct {
	in  []byte
	out bytes.Buffer
}

func (f *fake) WriteChar(c rune) { f.out.WriteByte(byte(c)) }
func (f *fake) Printf(format string, a ...any) error {
	_, err := fmt.Fprintf(&f.out, format, a...)
	return err
}
func (f *fake) Flush() {}
func (f *fake) ReadChar() rune {
	c, ok := f.ReadCharNonBlocking()
	if !ok {
		panic("blocking read on empty input")
	}
	return c
}
func (f *fake) ReadCharNonBlocking() (rune, bool) {
	if len(f.in) == 0 {
		return 0, false
	}
	c := f.in[0]
	f.in = f.in[1:]
	return rune(c), true
}
func (f *fake) Clear() { f.in = nil }

// blockingOnly hides ReadCharNonBlocking.
type blockingOnly struct{ Read }

func TestWriter(t *testing.T) {
	f := &fake{}
	w := Writer(f)
	if _, ok := w.(writer); !ok {
		t.Fatalf("unexpected writer type %T", w)
	}
	n, err := io.WriteString(w, "hello\n")
	if err != nil || n != 6 {
		t.Fatalf("expected 6, got %d (%v)", n, err)
	}
	if got := f.out.String(); got != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", got)
	}
}

func TestReader(t *testing.T) {
	tests := map[string]struct {
		c    Read
		size int
		want string
	}{
		"pending":  {&fake{in: []byte("abc")}, 8, "abc"},
		"short":    {&fake{in: []byte("abcdef")}, 4, "abcd"},
		"blocking": {blockingOnly{&fake{in: []byte("abc")}}, 8, "a"},
		"empty":    {&fake{in: []byte("abc")}, 0, ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			p := make([]byte, tc.size)
			n, err := Reader(tc.c).Read(p)
			if err != nil {
				t.Fatal(err)
			}
			if got := string(p[:n]); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestCRLFWriter(t *testing.T) {
	tests := map[string]struct {
		in, want string
	}{
		"plain":    {"abc", "abc"},
		"newline":  {"a\nb\n", "a\r\nb\r\n"},
		"only":     {"\n\n", "\r\n\r\n"},
		"carriage": {"\r", "\r"},
		"empty":    {"", ""},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewCRLFWriter(&buf)
			n, err := io.WriteString(w, tc.in)
			if err != nil || n != len(tc.in) {
				t.Fatalf("expected %d, got %d (%v)", len(tc.in), n, err)
			}
			if got := buf.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}

	// Bigger than the internal buffer of transform.Writer.
	var buf bytes.Buffer
	long := strings.Repeat("line\n", 2000)
	io.WriteString(NewCRLFWriter(&buf), long)
	if got, want := buf.String(), strings.ReplaceAll(long, "\n", "\r\n"); got != want {
		t.Fatalf("long input: got %d bytes, expected %d", len(got), len(want))
	}
}

func TestNull(t *testing.T) {
	var c All = Null{}
	c.WriteChar('x')
	if err := c.Printf("%d", 1); err != nil {
		t.Fatal(err)
	}
	if c.CharsWritten() != 0 || c.CharsRead() != 0 {
		t.Fatal("null console counts characters")
	}
	if _, ok := c.(NonBlockingRead).ReadCharNonBlocking(); ok {
		t.Fatal("null console returned input")
	}
}
