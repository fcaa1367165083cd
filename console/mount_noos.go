//go:build noos

package console

import (
	"embedded/rtos"
	"os"
	"syscall"

	"github.com/embeddedgo/fs/termfs"
)

// Mount exposes c as a terminal file at path and redirects os.Stdin,
// os.Stdout and os.Stderr to it.
func Mount(c All, path string) (err error) {
	fs := termfs.NewLight("termfs", Reader(c), NewCRLFWriter(Writer(c)))
	rtos.Mount(fs, path)

	os.Stdout, err = os.OpenFile(path, syscall.O_WRONLY, 0)
	if err != nil {
		return err
	}
	os.Stderr = os.Stdout

	os.Stdin, err = os.OpenFile(path, syscall.O_RDONLY, 0)
	return err
}
