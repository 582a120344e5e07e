package commands

import (
	"fmt"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/messages"
)

const positionTimeout = 1 * time.Second

// GPS is the supervisor mailbox as seen by the console commands.
type GPS interface {
	Send(msg interface{})
	RequestFuture(msg interface{}, timeout time.Duration) *actor.Future
}

// Builtins are the values the built-in commands report on.
type Builtins struct {
	Version string
	// Options returns the option dump, one line per entry.
	Options func() []string
	GPS     GPS
}

// RegisterBuiltins adds version, options and the gps_* commands.
func RegisterBuiltins(r *Registry, b Builtins) error {
	cmds := []Command{
		{
			Name:    "version",
			Help:    "version:\r\n Displays the firmware version\r\n\r\n",
			Handler: b.version,
		},
		{
			Name:    "options",
			Help:    "options:\r\n Displays the option values\r\n\r\n",
			Handler: b.options,
		},
		{
			Name:    "gps_debug",
			Help:    "gps_debug:\r\n Mirrors every parsed NMEA sentence\r\n\r\n",
			Handler: b.gpsDebug,
		},
		{
			Name:    "gps_reset",
			Help:    "gps_reset:\r\n Sends the cold reset command to the GPS\r\n\r\n",
			Handler: b.gpsReset,
		},
		{
			Name:    "gps_pos",
			Help:    "gps_pos:\r\n Displays the last valid position\r\n\r\n",
			Handler: b.gpsPos,
		},
	}
	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (b Builtins) version(out []byte, args []string, round int) (int, bool) {
	return copy(out, fmt.Sprintf("OGN Tracker %s\r\n", b.Version)), false
}

func (b Builtins) options(out []byte, args []string, round int) (int, bool) {
	if b.Options == nil {
		return 0, false
	}
	lines := b.Options()
	if round >= len(lines) {
		return 0, false
	}
	return copy(out, lines[round]), round+1 < len(lines)
}

func (b Builtins) gpsDebug(out []byte, args []string, round int) (int, bool) {
	on := true
	if len(args) > 0 && (args[0] == "off" || args[0] == "0") {
		on = false
	}
	if b.GPS == nil {
		return copy(out, "GPS not available.\r\n"), false
	}
	b.GPS.Send(&messages.GPSDebug{On: on})
	if on {
		return copy(out, "GPS debug on.\r\n"), false
	}
	return copy(out, "GPS debug off.\r\n"), false
}

func (b Builtins) gpsReset(out []byte, args []string, round int) (int, bool) {
	if b.GPS == nil {
		return copy(out, "GPS not available.\r\n"), false
	}
	b.GPS.Send(&messages.GPSColdReset{})
	return copy(out, "GPS cold reset requested.\r\n"), false
}

func (b Builtins) gpsPos(out []byte, args []string, round int) (int, bool) {
	if b.GPS == nil {
		return copy(out, "GPS not available.\r\n"), false
	}
	res, err := b.GPS.RequestFuture(&messages.PositionRequest{}, positionTimeout).Result()
	if err != nil {
		logs.LogWarn.Printf("gps_pos: %s", err)
		return copy(out, "GPS not responding.\r\n"), false
	}
	resp, ok := res.(*messages.PositionResponse)
	if !ok || !resp.Valid {
		return copy(out, "No valid position.\r\n"), false
	}
	return copy(out, resp.Position.String()+"\r\n"), false
}
