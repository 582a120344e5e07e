//go:build !linux

package uart

import (
	"fmt"
	"os"
)

func openTermios(device string, baud int) (*os.File, error) {
	return nil, fmt.Errorf("uart: termios driver not supported on this platform")
}
