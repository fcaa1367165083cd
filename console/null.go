package console

// Null is a console that discards all output. Reading from it blocks
// forever.
type Null struct{}

func (Null) WriteChar(c rune)                     {}
func (Null) Printf(format string, a ...any) error { return nil }
func (Null) Flush()                               {}
func (Null) ReadChar() rune                       { select {} }
func (Null) ReadCharNonBlocking() (rune, bool)    { return 0, false }
func (Null) Clear()                               {}
func (Null) CharsWritten() int                    { return 0 }
func (Null) CharsRead() int                       { return 0 }
