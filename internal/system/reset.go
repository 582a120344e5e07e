// Package system performs the full device reset requested by the GPS
// watchdog.
package system

import (
	"fmt"
	"os"

	"github.com/dumacp/go-logs/pkg/logs"
)

// reset modes
const (
	ModeExit   = "exit"
	ModeReboot = "reboot"
)

// ExitCode is returned to the process supervisor on a watchdog reset.
const ExitCode = 3

// Resetter does not return on success.
type Resetter interface {
	Reset()
}

// ResetFunc adapts a function to Resetter.
type ResetFunc func()

func (f ResetFunc) Reset() { f() }

var exit = os.Exit

// New returns the resetter for mode.
func New(mode string) (Resetter, error) {
	switch mode {
	case "", ModeExit:
		return ResetFunc(exitReset), nil
	case ModeReboot:
		return ResetFunc(rebootReset), nil
	}
	return nil, fmt.Errorf("unknown reset mode %q", mode)
}

func exitReset() {
	logs.LogError.Printf("device reset, exit code %d", ExitCode)
	exit(ExitCode)
}

func rebootReset() {
	logs.LogError.Println("device reset, rebooting")
	if err := reboot(); err != nil {
		logs.LogError.Printf("reboot failed: %s", err)
		exit(ExitCode)
	}
}
