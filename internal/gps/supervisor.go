/*
Package gps implements the GPS supervisor task. It consumes sentences from the
receiver and from the console relay, keeps the Fix-Valid and Watchdog timers,
detects the missing checksum defect of the receiver and reports fix changes
to the display and the console.
*/
package gps

import (
	"bytes"
	"fmt"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/nmea/device"
	"github.com/dumacp/go-ogntracker/internal/nmea/process"
	"github.com/dumacp/go-ogntracker/internal/store"
	"github.com/dumacp/go-ogntracker/internal/system"
	"github.com/looplab/fsm"
)

const (
	DefaultFixTimeout = 2500 * time.Millisecond
	DefaultStabilize  = 700 * time.Millisecond
)

const (
	msgFixFound = "GPS fix found.\r\n"
	msgFixLost  = "GPS fix lost.\r\n"
	msgBug      = "GPS bug detected - GPS cold reset should fix this.\r\nIf not - reconnect battery.\r\n"
	msgWatchdog = "!! GPS watchdog reset (use gps_wdg_time 0 to disable) !!\r\n"
)

// Config holds the supervisor options.
type Config struct {
	FixTimeout time.Duration
	// Watchdog zero disables the watchdog.
	Watchdog  time.Duration
	Stabilize time.Duration
	AlwaysOn  bool
	Dump      bool
	Debug     bool

	AircraftID     uint32
	ReportDistance int
	ReportInterval time.Duration
}

func DefaultConfig() Config {
	return Config{
		FixTimeout:     DefaultFixTimeout,
		Stabilize:      DefaultStabilize,
		ReportDistance: 30,
		ReportInterval: 30 * time.Second,
	}
}

type Store interface {
	Read(ref store.Ref) ([]byte, error)
}

// Transport is a byte output, the console or the receiver.
type Transport interface {
	Send(b []byte)
	SendWait(b []byte)
}

type Sender interface {
	Send(msg interface{})
}

type Power interface {
	On() error
	Off()
}

// Deps are the collaborators of the supervisor. Self is the supervisor's own
// mailbox; timer expiries are posted through it.
type Deps struct {
	Self     Sender
	Store    Store
	Receiver Transport
	Console  Transport
	Display  Sender
	Parser   process.Parser
	Power    Power
	Resetter system.Resetter
	Publish  Publisher
}

type actorGPS struct {
	cfg      Config
	deps     Deps
	fsm      *fsm.FSM
	fix      *fsm.FSM
	fixTimer *oneShot
	wdgTimer *oneShot
	reporter *reporter
	debug    bool
}

// NewActor returns the supervisor task.
func NewActor(cfg Config, deps Deps) actor.Actor {
	if cfg.FixTimeout <= 0 {
		cfg.FixTimeout = DefaultFixTimeout
	}
	a := &actorGPS{
		cfg:   cfg,
		deps:  deps,
		debug: cfg.Debug,
	}
	a.fsm = newLifecycleFSM()
	a.fix = newFixFSM(a.fixFound, a.fixLost)
	a.fixTimer = newOneShot(fixValidTimer, deps.Self.Send)
	a.wdgTimer = newOneShot(watchdogTimer, deps.Self.Send)
	a.reporter = newReporter(cfg.ReportDistance, cfg.ReportInterval, deps.Publish)
	if deps.Parser != nil {
		deps.Parser.SetAircraftID(cfg.AircraftID)
	}
	return a
}

func (a *actorGPS) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
		a.startup()
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
		a.shutdown()
	case messages.Message:
		if !a.running() {
			return
		}
		switch msg.Source {
		case messages.SourceGPS:
			a.handleReceiver(msg)
		case messages.SourceConsole:
			a.handleConsole(msg)
		default:
			logs.LogBuild.Printf("gps ignores %s", msg)
		}
	case *timerExpired:
		if !a.running() {
			return
		}
		switch msg.kind {
		case fixValidTimer:
			if a.fixTimer.fire(msg) {
				a.expireFix()
			}
		case watchdogTimer:
			if a.wdgTimer.fire(msg) {
				a.watchdogReset()
			}
		}
	case *messages.GPSDebug:
		if !a.running() {
			return
		}
		a.debug = msg.On
	case *messages.GPSColdReset:
		if !a.running() {
			return
		}
		logs.LogWarn.Println("gps cold reset requested")
		a.deps.Receiver.Send([]byte(device.ColdResetSentence))
	case *messages.PositionRequest:
		if !a.running() {
			return
		}
		resp := &messages.PositionResponse{}
		if a.deps.Parser != nil {
			resp.Position, resp.Valid = a.deps.Parser.Position()
		}
		ctx.Respond(resp)
	}
}

func (a *actorGPS) running() bool {
	return a.fsm.Current() == sRun
}

func (a *actorGPS) startup() {
	a.fsm.Event(powerOnEvent)
	time.Sleep(a.cfg.Stabilize)
	if !a.cfg.AlwaysOn && a.deps.Power != nil {
		if err := a.deps.Power.On(); err != nil {
			logs.LogError.Printf("gps power on: %s", err)
		}
	}
	a.fix.SetState(sNoFix)
	a.fixTimer.start(a.cfg.FixTimeout)
	if a.cfg.Watchdog > 0 {
		a.wdgTimer.start(a.cfg.Watchdog)
	}
	a.fsm.Event(runEvent)
}

func (a *actorGPS) shutdown() {
	a.fixTimer.stop()
	a.wdgTimer.stop()
	a.fsm.Event(stopEvent)
	if !a.cfg.AlwaysOn && a.deps.Power != nil {
		a.deps.Power.Off()
	}
}

func (a *actorGPS) read(msg messages.Message) ([]byte, bool) {
	b, err := a.deps.Store.Read(msg.Ref)
	if err != nil {
		logs.LogWarn.Printf("gps drop %s: %s", msg, err)
		return nil, false
	}
	return b, true
}

func (a *actorGPS) handleReceiver(msg messages.Message) {
	if a.cfg.Watchdog > 0 {
		a.wdgTimer.start(a.cfg.Watchdog)
	}
	b, ok := a.read(msg)
	if !ok {
		return
	}
	if a.cfg.Dump {
		a.deps.Console.SendWait(bytes.TrimRight(b, string(store.Terminator)))
	}
	if defective(b) {
		logs.LogWarn.Printf("gps sentence without checksum: %q", b)
		a.deps.Console.SendWait([]byte(msgBug))
		a.deps.Receiver.Send([]byte(device.ColdResetSentence))
	}
	a.parse(b)
}

func (a *actorGPS) handleConsole(msg messages.Message) {
	b, ok := a.read(msg)
	if !ok {
		return
	}
	a.parse(b)
}

// defective reports the receiver firmware bug where the checksum marker is
// missing: a sentence stored as "$...*HH\n" plus terminator has '*' at
// length-5.
func defective(b []byte) bool {
	n := len(b)
	return n >= 6 && b[0] == '$' && b[n-5] != '*'
}

func (a *actorGPS) parse(b []byte) {
	if a.deps.Parser == nil {
		return
	}
	res := a.deps.Parser.Parse(string(b))
	if a.debug {
		a.deps.Console.Send([]byte(fmt.Sprintf("NMEA:%6.6s[%2d] => %d\r\n", b, len(b), int(res))))
	}
	if res != process.ResultPosValid {
		return
	}
	a.fixTimer.start(a.cfg.FixTimeout)
	a.fix.Event(fixEvent)
	if pos, ok := a.deps.Parser.Position(); ok {
		a.reporter.offer(pos)
	}
}

func (a *actorGPS) notifyDisplay(opcode byte) {
	if a.deps.Display == nil {
		return
	}
	a.deps.Display.Send(messages.Message{
		Source: messages.SourceGPS,
		Opcode: opcode,
	})
}

func (a *actorGPS) fixFound() {
	logs.LogInfo.Println("gps fix found")
	a.notifyDisplay(messages.DispGPSFix)
	a.deps.Console.Send([]byte(msgFixFound))
}

func (a *actorGPS) fixLost() {
	logs.LogInfo.Println("gps fix lost")
	a.notifyDisplay(messages.DispGPSNoFix)
	a.deps.Console.Send([]byte(msgFixLost))
}

// expireFix reports the fix lost once per Fix-Valid expiry. Only the arming
// at startup can expire without a fix.
func (a *actorGPS) expireFix() {
	if a.fix.Current() == sFix {
		a.fix.Event(lostEvent)
		return
	}
	a.fixLost()
}

func (a *actorGPS) watchdogReset() {
	a.fsm.Event(watchdogEvent)
	a.fixTimer.stop()
	logs.LogError.Printf("gps watchdog, no receiver data for %s", a.cfg.Watchdog)
	a.deps.Console.SendWait([]byte(msgWatchdog))
	if a.deps.Resetter != nil {
		a.deps.Resetter.Reset()
	}
}
