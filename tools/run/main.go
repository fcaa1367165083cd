package run

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/buildkite/shellwords"
)

const usageString = `Run a kernel image and report the outcome of its tests.

Usage: %s [flags] <image>

The kernel's console is expected on the command's stdout. The command is
stopped once the tests passed or failed.

`

var (
	flags = flag.NewFlagSet("run", flag.ExitOnError)

	command = flags.String("cmd", "qemu-system-aarch64 -M raspi3b -display none -serial stdio -kernel", "Command to run the image with")
)

func usage() {
	fmt.Fprintf(flags.Output(), usageString, "run")
	flags.PrintDefaults()
}

func Main(args []string) {
	flags.Usage = usage
	flags.Parse(args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(1)
	}

	cmdline, err := shellwords.Split(*command)
	if err != nil {
		log.Fatalln("cmd:", err)
	}
	if len(cmdline) == 0 {
		log.Fatalln("cmd: empty command")
	}
	cmdline = append(cmdline, flags.Arg(0))

	cmd := exec.Command(cmdline[0], cmdline[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	processGroupEnable(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		log.Fatalln("open stdout:", err)
	}

	sigintr := make(chan os.Signal, 1)
	signal.Notify(sigintr, os.Interrupt)

	if err = cmd.Start(); err != nil {
		log.Fatalln("start command:", err)
	}

	stop := func() {
		stdout.Close()
		if err := processGroupKill(cmd); err != nil {
			log.Println(err)
		}
	}
	go func() {
		<-sigintr
		stop()
	}()

	code := Watch(stdout, os.Stdout, func(int) {
		go func() {
			// give panic() time to print the stacktrace
			time.Sleep(500 * time.Millisecond)
			stop()
		}()
	})
	cmd.Wait()
	os.Exit(code)
}
