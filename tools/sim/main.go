package sim

import (
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/aymanbagabas/go-pty"
	"github.com/buildkite/shellwords"

	"github.com/clktmr/rpi/bsp/raspberrypi"
)

const usageString = `Simulated console UART on a pseudo terminal.

Usage: %s [flags]

Characters typed into the terminal are echoed by the driver's interrupt
handler. Without -run, attach a terminal program to the printed pty.

`

var (
	flags = flag.NewFlagSet("sim", flag.ExitOnError)

	board  = flags.String("board", "rpi3", strings.Join(slices.Sorted(maps.Keys(raspberrypi.Boards)), " | "))
	run    = flags.String("run", "", "Run command with the pty as its terminal")
	status = flags.Bool("status", false, "Print drivers, mappings and interrupt handlers")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "sim")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 0 {
		flags.Usage()
		os.Exit(1)
	}

	b, ok := raspberrypi.Boards[*board]
	if !ok {
		log.Fatalf("unknown board: %s", *board)
	}

	p, err := pty.New()
	if err != nil {
		log.Fatalln("open pty:", err)
	}

	sess, err := NewSession(b, p)
	if err != nil {
		log.Fatalln(err)
	}
	if err := sess.Start(); err != nil {
		log.Fatalln("start:", err)
	}
	if *status {
		sess.Board.WriteStatus(os.Stderr)
	}

	if *run != "" {
		args, err := shellwords.Split(*run)
		if err != nil {
			log.Fatalln("run:", err)
		}
		if len(args) == 0 {
			log.Fatalln("run: empty command")
		}
		cmd := p.Command(args[0], args[1:]...)
		if err := cmd.Start(); err != nil {
			log.Fatalln("start command:", err)
		}
		sess.Go(cmd.Wait)
	} else {
		log.Println("console on", p.Name())
	}

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)
	sess.Go(func() error {
		select {
		case <-sigintr:
		case <-sess.Dying():
		}
		return nil
	})

	<-sess.Dying()
	if err := sess.Stop(); err != nil {
		log.Fatalln(err)
	}
	c := sess.Board.Console
	log.Printf("%d characters read, %d written", c.CharsRead(), c.CharsWritten())
}
