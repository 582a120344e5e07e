// Package config holds the read-only configuration values of the tracker.
package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Options mirrors the tracker option store. Values are loaded once and never
// modified by the tasks.
type Options struct {
	GPSSpeed     int    `yaml:"gps_speed"`
	ConsoleSpeed int    `yaml:"cons_speed"`
	GPSWdgTime   uint16 `yaml:"gps_wdg_time"`
	GPSAlwaysOn  bool   `yaml:"gps_alw_on"`
	GPSDump      bool   `yaml:"gps_dump"`
	GPSDebug     bool   `yaml:"gps_debug"`
	AcftID       uint32 `yaml:"acft_id"`

	Devices DevicesConfig `yaml:"devices"`
	Parser  string        `yaml:"parser"`
	Reset   string        `yaml:"reset"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Report  ReportConfig  `yaml:"report"`
}

type DevicesConfig struct {
	GPSPort     string `yaml:"gps_port"`
	ConsolePort string `yaml:"console_port"`
	// Driver selects the serial implementation: "tarm", "jacobsa" or "termios".
	Driver string `yaml:"driver"`
	// GPIOChip empty disables the receiver enable line.
	GPIOChip string `yaml:"gpio_chip"`
	// GPIOLine is a line name or offset on GPIOChip.
	GPIOLine string `yaml:"gpio_line"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

type ReportConfig struct {
	DistanceMin int           `yaml:"distance_min"`
	Interval    time.Duration `yaml:"interval"`
}

const (
	ParserLenient = "lenient"
	ParserStrict  = "strict"

	ResetExit   = "exit"
	ResetReboot = "reboot"

	DriverTarm    = "tarm"
	DriverJacobsa = "jacobsa"
	DriverTermios = "termios"
)

// Default returns the options used when no file is given.
func Default() Options {
	o := Options{}
	o.applyDefaults()
	return o
}

// Load reads a YAML file, applies defaults and validates the result.
func Load(path string) (Options, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to open config file: %w", err)
	}
	var o Options
	if err := yaml.Unmarshal(b, &o); err != nil {
		return Options{}, fmt.Errorf("config %s: %w", path, err)
	}
	o.applyDefaults()
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o *Options) applyDefaults() {
	if o.GPSSpeed <= 0 {
		o.GPSSpeed = 9600
	}
	if o.ConsoleSpeed <= 0 {
		o.ConsoleSpeed = 115200
	}
	if o.Devices.GPSPort == "" {
		o.Devices.GPSPort = "/dev/ttyGPS"
	}
	if o.Devices.ConsolePort == "" {
		o.Devices.ConsolePort = "-"
	}
	if o.Devices.Driver == "" {
		o.Devices.Driver = DriverTarm
	}
	if o.Parser == "" {
		o.Parser = ParserLenient
	}
	if o.Reset == "" {
		o.Reset = ResetExit
	}
	if o.MQTT.ClientID == "" {
		o.MQTT.ClientID = "ogntracker"
	}
	if o.Report.DistanceMin <= 0 {
		o.Report.DistanceMin = 30
	}
	if o.Report.Interval <= 0 {
		o.Report.Interval = 30 * time.Second
	}
}

// Validate rejects values the tasks cannot run with.
func (o Options) Validate() error {
	switch o.Parser {
	case ParserLenient, ParserStrict:
	default:
		return fmt.Errorf("parser must be %q or %q, got %q", ParserLenient, ParserStrict, o.Parser)
	}
	switch o.Reset {
	case ResetExit, ResetReboot:
	default:
		return fmt.Errorf("reset must be %q or %q, got %q", ResetExit, ResetReboot, o.Reset)
	}
	switch o.Devices.Driver {
	case DriverTarm, DriverJacobsa, DriverTermios:
	default:
		return fmt.Errorf("devices.driver must be %q, %q or %q, got %q", DriverTarm, DriverJacobsa, DriverTermios, o.Devices.Driver)
	}
	if o.Devices.GPIOChip != "" && o.Devices.GPIOLine == "" {
		return fmt.Errorf("devices.gpio_line is required with devices.gpio_chip")
	}
	return nil
}

// WatchdogSeconds checks a watchdog timeout given in seconds, as on the
// command line.
func WatchdogSeconds(v int) (uint16, error) {
	if v < 0 || v > math.MaxUint16 {
		return 0, fmt.Errorf("gps_wdg_time must be between 0 and %d, got %d", math.MaxUint16, v)
	}
	return uint16(v), nil
}

// WatchdogTimeout is zero when the watchdog is disabled.
func (o Options) WatchdogTimeout() time.Duration {
	return time.Duration(o.GPSWdgTime) * time.Second
}

// Dump renders the option store for the console.
func (o Options) Dump() []string {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}
	lines := []string{
		fmt.Sprintf("gps_speed     %d", o.GPSSpeed),
		fmt.Sprintf("cons_speed    %d", o.ConsoleSpeed),
		fmt.Sprintf("gps_wdg_time  %d", o.GPSWdgTime),
		fmt.Sprintf("gps_alw_on    %s", onOff(o.GPSAlwaysOn)),
		fmt.Sprintf("gps_dump      %s", onOff(o.GPSDump)),
		fmt.Sprintf("acft_id       %06X", o.AcftID),
	}
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ") + "\r\n"
	}
	return lines
}
