package main

import (
	"bufio"
	"os"
	"strings"

	"github.com/dumacp/go-logs/pkg/logs"
)

const (
	pathudev       = "/etc/udev/rules.d/local.rules"
	defaultGPSPort = "/dev/ttyGPS"
	fallbackGPS    = "/dev/ttyUSB1"
)

// resolveGPSPort falls back to the raw USB device when no udev rule creates
// the ttyGPS alias.
func resolveGPSPort(port string) string {
	if port != defaultGPSPort {
		return port
	}
	fileenv, err := os.Open(pathudev)
	if err != nil {
		logs.LogWarn.Printf("error: reading file UDEV, %s", err)
		return port
	}
	defer fileenv.Close()
	scanner := bufio.NewScanner(fileenv)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), "ttyGPS") {
			return port
		}
	}
	return fallbackGPS
}
