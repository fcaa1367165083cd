//go:build !rpi4

package raspberrypi

// Default is the board the kernel is built for.
var Default = RPi3
