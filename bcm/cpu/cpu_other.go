//go:build !(noos && arm64)

package cpu

func Nop() {}
