package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clktmr/rpi/tools/run"
	"github.com/clktmr/rpi/tools/sim"
	"github.com/clktmr/rpi/tools/term"
)

const usageString = `rpigo is a tool for development of Raspberry Pi kernels.

Usage:

	%s <command> [arguments]

The commands are:

	sim      run the console driver against a simulated UART on a pty
	term     connect to the console UART of a board
	run      run a kernel image and report the outcome of its tests
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "sim":
		sim.Main(flag.Args())
	case "term":
		term.Main(flag.Args())
	case "run":
		run.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
