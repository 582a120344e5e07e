package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "acft_id: 0xDD1234\n")
	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if o.GPSSpeed != 9600 || o.ConsoleSpeed != 115200 {
		t.Fatalf("speeds = %d/%d", o.GPSSpeed, o.ConsoleSpeed)
	}
	if o.AcftID != 0xDD1234 {
		t.Fatalf("acft_id = %X", o.AcftID)
	}
	if o.WatchdogTimeout() != 0 {
		t.Fatalf("watchdog = %s, want disabled", o.WatchdogTimeout())
	}
	if o.Parser != ParserLenient || o.Reset != ResetExit || o.Devices.Driver != DriverTarm {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.Report.Interval != 30*time.Second {
		t.Fatalf("report interval = %s", o.Report.Interval)
	}
}

func TestLoad_Values(t *testing.T) {
	path := writeTempConfig(t, strings.Join([]string{
		"gps_speed: 4800",
		"gps_wdg_time: 60",
		"gps_alw_on: true",
		"gps_dump: true",
		"parser: strict",
		"devices:",
		"  gps_port: /dev/ttyUSB1",
		"  driver: jacobsa",
		"  gpio_chip: gpiochip0",
		"  gpio_line: 4",
		"report:",
		"  interval: 5s",
	}, "\n"))
	o, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if o.GPSSpeed != 4800 || !o.GPSAlwaysOn || !o.GPSDump {
		t.Fatalf("unexpected values: %+v", o)
	}
	if o.WatchdogTimeout() != time.Minute {
		t.Fatalf("watchdog = %s", o.WatchdogTimeout())
	}
	if o.Devices.GPSPort != "/dev/ttyUSB1" || o.Devices.GPIOLine != "4" {
		t.Fatalf("devices = %+v", o.Devices)
	}
	if o.Report.Interval != 5*time.Second {
		t.Fatalf("report interval = %s", o.Report.Interval)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "parser", body: "parser: fancy\n", want: `parser must be "lenient" or "strict", got "fancy"`},
		{name: "reset", body: "reset: halt\n", want: `reset must be "exit" or "reboot", got "halt"`},
		{name: "driver", body: "devices:\n  driver: usb\n", want: `devices.driver must be "tarm", "jacobsa" or "termios", got "usb"`},
		{name: "gpio", body: "devices:\n  gpio_chip: gpiochip0\n", want: "devices.gpio_line is required with devices.gpio_chip"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, tc.body))
			if err == nil {
				t.Fatalf("expected error %q, got nil", tc.want)
			}
			if err.Error() != tc.want {
				t.Fatalf("error=%q want %q", err.Error(), tc.want)
			}
		})
	}
}

func TestWatchdogSeconds(t *testing.T) {
	cases := []struct {
		name    string
		in      int
		want    uint16
		wantErr bool
	}{
		{name: "disabled", in: 0, want: 0},
		{name: "minute", in: 60, want: 60},
		{name: "max", in: 65535, want: 65535},
		{name: "negative", in: -1, wantErr: true},
		{name: "too large", in: 65536, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WatchdogSeconds(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("WatchdogSeconds(%d) error=%v wantErr %v", tc.in, err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("WatchdogSeconds(%d)=%d want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestLoad_NegativeWatchdog(t *testing.T) {
	if _, err := Load(writeTempConfig(t, "gps_wdg_time: -1\n")); err == nil {
		t.Fatal("expected error for a negative gps_wdg_time")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestOptions_Dump(t *testing.T) {
	o := Default()
	o.AcftID = 0xABCDEF
	lines := o.Dump()
	if len(lines) != 6 {
		t.Fatalf("len(Dump()) = %d", len(lines))
	}
	if lines[5] != "acft_id       ABCDEF\r\n" {
		t.Errorf("acft_id line = %q", lines[5])
	}
	for _, l := range lines {
		if !strings.HasSuffix(l, "\r\n") {
			t.Errorf("line %q not CRLF terminated", l)
		}
	}
}
