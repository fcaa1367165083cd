//go:build noos

// Package testing provides utilities for running tests on a board.
package testing

import (
	"os"
	"testing"

	"github.com/clktmr/rpi/bcm/mmio"
	"github.com/clktmr/rpi/bsp/raspberrypi"
	"github.com/clktmr/rpi/console"
	"github.com/clktmr/rpi/machine"
	"github.com/clktmr/rpi/memory/mmu"
)

// System is the board brought up by TestMain.
var System *raspberrypi.System

// TestMain should be used as TestMain for tests running on the board. It
// brings up the console and redirects stdout and stderr to it.
func TestMain(m *testing.M) {
	var err error

	System, err = raspberrypi.NewSystem(raspberrypi.Default, mmio.Direct, mmu.Identity{})
	if err != nil {
		panic(err)
	}
	machine.SetupPanicOutput(System.Console)

	System.ConsoleReady = func(c console.All) error {
		return console.Mount(c, "/dev/console")
	}
	if err = System.Init(); err != nil {
		panic(err)
	}

	// There is no way to pass flags from 'go test' to the board.
	os.Args = append(os.Args, "-test.v")
	if _, ok := os.LookupEnv("RPI_BENCH"); ok {
		os.Args = append(os.Args, "-test.bench=.", "-test.benchmem")
	}

	os.Exit(m.Run())
}
