//go:build noos

package machine

import (
	"embedded/rtos"

	"github.com/clktmr/rpi/drivers"
	"github.com/clktmr/rpi/drivers/pl011"
)

// SetupPanicOutput makes the runtime print panics, print and println to u.
func SetupPanicOutput(u *pl011.UART) {
	rtos.SetSystemWriter(drivers.NewSystemWriter(PanicWriter(u)))
}
