package term

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"go.bug.st/serial"

	"github.com/clktmr/rpi/drivers/pl011"
)

const usageString = `Terminal for the console UART of a board.

Usage: %s [flags]

Without -port, the only serial port of the host is used.

`

var (
	flags = flag.NewFlagSet("term", flag.ExitOnError)

	port = flags.String("port", "", "Serial port connected to the board")
	baud = flags.Int("baud", pl011.BaudRate, "Baud rate")
	list = flags.Bool("list", false, "List serial ports and exit")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "term")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 0 {
		flags.Usage()
		os.Exit(1)
	}

	if *list {
		ports, err := serial.GetPortsList()
		if err != nil {
			log.Fatalln("list ports:", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	if *port == "" {
		ports, err := serial.GetPortsList()
		if err != nil {
			log.Fatalln("list ports:", err)
		}
		if len(ports) != 1 {
			log.Fatalf("found %d serial ports, select one with -port", len(ports))
		}
		*port = ports[0]
	}

	p, err := serial.Open(*port, Mode(*baud))
	if err != nil {
		log.Fatalln("open:", err)
	}
	log.Printf("connected to %s at %d baud, exit with ^C", *port, *baud)

	b := NewBridge(p, os.Stdin, os.Stdout)

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)
	select {
	case <-sigintr:
	case <-b.Dying():
	}
	if err := b.Stop(); err != nil {
		log.Fatalln(err)
	}
}
