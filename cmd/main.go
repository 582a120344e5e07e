package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/commands"
	"github.com/dumacp/go-ogntracker/internal/config"
	"github.com/dumacp/go-ogntracker/internal/console"
	"github.com/dumacp/go-ogntracker/internal/display"
	"github.com/dumacp/go-ogntracker/internal/gps"
	"github.com/dumacp/go-ogntracker/internal/mailbox"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/nmea/device"
	"github.com/dumacp/go-ogntracker/internal/nmea/process"
	"github.com/dumacp/go-ogntracker/internal/power"
	"github.com/dumacp/go-ogntracker/internal/pubsub"
	"github.com/dumacp/go-ogntracker/internal/store"
	"github.com/dumacp/go-ogntracker/internal/system"
	"github.com/dumacp/go-ogntracker/internal/uart"
)

var debug bool
var logstd bool
var version bool
var configPath string

var gpsPort string
var consolePort string
var driver string
var gpsSpeed int
var consSpeed int
var wdgTime int
var alwaysOn bool
var dump bool
var gpsDebug bool
var parserMode string
var resetMode string
var broker string

const versionString = "0.3.2"

func init() {
	flag.BoolVar(&debug, "debug", false, "debug")
	flag.BoolVar(&logstd, "logStd", false, "logs in stderr")
	flag.BoolVar(&version, "version", false, "show version")
	flag.StringVar(&configPath, "config", "", "path to the YAML options file")
	flag.StringVar(&gpsPort, "portGPS", "/dev/ttyGPS", "device serial of the GPS receiver.")
	flag.StringVar(&consolePort, "portConsole", "-", "device serial of the console (\"-\" for stdio).")
	flag.StringVar(&driver, "driver", config.DriverTarm, "serial driver: tarm, jacobsa or termios.")
	flag.IntVar(&gpsSpeed, "gpsSpeed", 9600, "baud rate of the GPS receiver.")
	flag.IntVar(&consSpeed, "consSpeed", 115200, "baud rate of the console.")
	flag.IntVar(&wdgTime, "wdgTime", 0, "GPS watchdog in seconds, 0 disables.")
	flag.BoolVar(&alwaysOn, "alwaysOn", false, "GPS receiver is always powered.")
	flag.BoolVar(&dump, "dump", false, "dump every receiver sentence on the console.")
	flag.BoolVar(&gpsDebug, "gpsDebug", false, "mirror parse results on the console.")
	flag.StringVar(&parserMode, "parser", config.ParserLenient, "NMEA parser: lenient or strict.")
	flag.StringVar(&resetMode, "reset", config.ResetExit, "device reset: exit or reboot.")
	flag.StringVar(&broker, "broker", "", "MQTT broker, e.g. tcp://127.0.0.1:1883.")
}

// loadOptions reads the options file and applies the flags given on the
// command line on top of it.
func loadOptions() (config.Options, error) {
	var err error
	opts := config.Default()
	if configPath != "" {
		if opts, err = config.Load(configPath); err != nil {
			return opts, err
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "portGPS":
			opts.Devices.GPSPort = gpsPort
		case "portConsole":
			opts.Devices.ConsolePort = consolePort
		case "driver":
			opts.Devices.Driver = driver
		case "gpsSpeed":
			opts.GPSSpeed = gpsSpeed
		case "consSpeed":
			opts.ConsoleSpeed = consSpeed
		case "wdgTime":
			opts.GPSWdgTime, err = config.WatchdogSeconds(wdgTime)
		case "alwaysOn":
			opts.GPSAlwaysOn = alwaysOn
		case "dump":
			opts.GPSDump = dump
		case "gpsDebug":
			opts.GPSDebug = gpsDebug
		case "parser":
			opts.Parser = parserMode
		case "reset":
			opts.Reset = resetMode
		case "broker":
			opts.MQTT.Broker = broker
		}
	})
	if err != nil {
		return opts, err
	}
	opts.Devices.GPSPort = resolveGPSPort(opts.Devices.GPSPort)
	return opts, opts.Validate()
}

func openPort(name, dev string, baud int, driver string) *uart.Port {
	opener, err := uart.SerialOpener(driver, dev, baud)
	if err != nil {
		logs.LogError.Fatalln(err)
	}
	return uart.NewPort(name, opener)
}

func openLine(opts config.Options) power.Line {
	if opts.Devices.GPIOChip == "" {
		return power.Nop{}
	}
	line, err := power.OpenLine(opts.Devices.GPIOChip, opts.Devices.GPIOLine)
	if err != nil {
		logs.LogError.Printf("gps enable line unavailable: %s", err)
		return power.Nop{}
	}
	return line
}

func main() {

	flag.Parse()
	if version {
		fmt.Printf("version: %s\n", versionString)
		os.Exit(2)
	}
	initLogs(debug, logstd)

	opts, err := loadOptions()
	if err != nil {
		logs.LogError.Fatalln(err)
	}
	logs.LogBuild.Printf("options: %+v", opts)

	rootContext := actor.NewActorSystem().Root

	if err := pubsub.Init(rootContext, opts.MQTT.Broker, opts.MQTT.ClientID); err != nil {
		logs.LogWarn.Printf("pubsub: %s", err)
	}

	gpsUART := openPort("gps", opts.Devices.GPSPort, opts.GPSSpeed, opts.Devices.Driver)
	consoleUART := openPort("console", opts.Devices.ConsolePort, opts.ConsoleSpeed, opts.Devices.Driver)
	line := openLine(opts)

	parser, err := process.New(opts.Parser)
	if err != nil {
		logs.LogError.Fatalln(err)
	}
	resetter, err := system.New(opts.Reset)
	if err != nil {
		logs.LogError.Fatalln(err)
	}

	sentences := store.New(store.DefaultCapacity)
	displayBox := mailbox.New(rootContext, mailbox.Capacity)
	gpsBox := mailbox.New(rootContext, mailbox.Capacity)
	consoleBox := mailbox.New(rootContext, mailbox.Capacity)

	if err := displayBox.Spawn("display", display.NewActor(opts.AcftID, pubsub.Publish)); err != nil {
		logs.LogError.Fatalln(err)
	}

	gpsCfg := gps.DefaultConfig()
	gpsCfg.Watchdog = opts.WatchdogTimeout()
	gpsCfg.AlwaysOn = opts.GPSAlwaysOn
	gpsCfg.Dump = opts.GPSDump
	gpsCfg.Debug = opts.GPSDebug
	gpsCfg.AircraftID = opts.AcftID
	gpsCfg.ReportDistance = opts.Report.DistanceMin
	gpsCfg.ReportInterval = opts.Report.Interval
	gpsA := gps.NewActor(gpsCfg, gps.Deps{
		Self:     gpsBox,
		Store:    sentences,
		Receiver: gpsUART,
		Console:  consoleUART,
		Display:  displayBox,
		Parser:   parser,
		Power:    power.NewSequencer(line, gpsUART),
		Resetter: resetter,
		Publish:  pubsub.Publish,
	})
	if err := gpsBox.Spawn("gps", gpsA); err != nil {
		logs.LogError.Fatalln(err)
	}

	registry := commands.New()
	err = commands.RegisterBuiltins(registry, commands.Builtins{
		Version: versionString,
		Options: opts.Dump,
		GPS:     gpsBox,
	})
	if err != nil {
		logs.LogError.Fatalln(err)
	}
	if err := consoleBox.Spawn("console", console.NewActor(consoleUART, registry)); err != nil {
		logs.LogError.Fatalln(err)
	}
	consoleBox.Send(&console.Attach{Store: sentences, GPS: gpsBox})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	framer := device.NewFramer(sentences, gpsBox)
	gpsUART.Start(ctx, framer.Feed)
	consoleUART.Start(ctx, func(b byte) {
		consoleBox.Send(messages.Message{Source: messages.SourceConsole, Opcode: b})
	})

	finish := make(chan os.Signal, 1)
	signal.Notify(finish, syscall.SIGINT)
	signal.Notify(finish, syscall.SIGTERM)

	v := <-finish
	logs.LogError.Println(v)

	stop := func(box *mailbox.Mailbox) {
		if err := box.Stop(); err != nil {
			logs.LogWarn.Printf("stop %s: %s", box.PID().GetId(), err)
		}
	}
	// the receiver is powered off through its port, stop before the readers
	stop(gpsBox)
	cancel()
	stop(consoleBox)
	stop(displayBox)
	pubsub.Stop()
	gpsUART.Close()
	consoleUART.Close()
	line.Close()
	time.Sleep(100 * time.Millisecond)
}
