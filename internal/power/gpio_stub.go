//go:build !linux

package power

import "fmt"

func OpenLine(chipPath, line string) (Line, error) {
	return nil, fmt.Errorf("power: gpio unsupported on this platform")
}
