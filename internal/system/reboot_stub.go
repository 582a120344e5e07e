//go:build !linux

package system

import "fmt"

func reboot() error {
	return fmt.Errorf("reboot not supported on this platform")
}
