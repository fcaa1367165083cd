//go:build !debug

// Package debug provides assertions for invariants of the kernel. They're
// checked with the debug build tag and compile to nothing otherwise.
//
// Wrap checks that need more than a boolean expression in `if debug.Enabled`
// so they're removed from release builds too.
package debug

// Enabled reports whether the debug build tag is set.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}
