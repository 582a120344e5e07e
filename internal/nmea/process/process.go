// Package process holds the semantic NMEA parsers used by the GPS supervisor.
package process

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Result is the outcome of parsing one sentence.
type Result int

const (
	ResultNotHandled Result = iota
	ResultError
	ResultPosInvalid
	ResultPosValid
)

func (r Result) String() string {
	switch r {
	case ResultNotHandled:
		return "not-handled"
	case ResultError:
		return "error"
	case ResultPosInvalid:
		return "pos-invalid"
	case ResultPosValid:
		return "pos-valid"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// parser backends
const (
	ModeLenient = "lenient"
	ModeStrict  = "strict"
)

type TypeFrame int

const (
	GGA TypeFrame = iota
	RMC
	Unknown
)

func (t TypeFrame) Value() string {
	switch t {
	case GGA:
		return "GGA"
	case RMC:
		return "RMC"
	default:
		return ""
	}
}

var re = regexp.MustCompile(`^\$(GP|GN|GL|GA)([A-Z]{3}),`)

// frameType returns the sentence type of s when it is one the parsers handle.
func frameType(s string) TypeFrame {
	m := re.FindStringSubmatch(s)
	if len(m) < 3 {
		return Unknown
	}
	switch m[2] {
	case "GGA":
		return GGA
	case "RMC":
		return RMC
	}
	return Unknown
}

// Position is the last valid position seen by a parser.
type Position struct {
	AircraftID uint32
	Lat        float64
	Lon        float64
	Altitude   float64
	Satellites int
	HDOP       float64
	FixTime    string
	Updated    time.Time
	Raw        string
}

func (p Position) String() string {
	return fmt.Sprintf("%06X %.6f,%.6f alt %.1fm sats %d hdop %.1f @%s",
		p.AircraftID, p.Lat, p.Lon, p.Altitude, p.Satellites, p.HDOP, p.FixTime)
}

// Parser decodes one sentence at a time. Implementations are not safe for
// concurrent use; a single task owns each Parser.
type Parser interface {
	Parse(sentence string) Result
	Position() (Position, bool)
	SetAircraftID(id uint32)
}

// New returns the parser backend named by mode.
func New(mode string) (Parser, error) {
	switch mode {
	case "", ModeLenient:
		return newLenient(), nil
	case ModeStrict:
		return newStrict(), nil
	}
	return nil, fmt.Errorf("unknown parser mode %q", mode)
}

// trimSentence strips line terminators and the store terminator.
func trimSentence(s string) string {
	return strings.TrimRight(s, "\x00\r\n")
}

type position struct {
	id    uint32
	last  Position
	valid bool
}

func (p *position) SetAircraftID(id uint32) {
	p.id = id
}

func (p *position) Position() (Position, bool) {
	return p.last, p.valid
}

func (p *position) update(pos Position) {
	// RMC carries no altitude; keep the one from the last GGA
	if pos.Altitude == 0 && pos.Satellites == 0 && p.valid {
		pos.Altitude = p.last.Altitude
		pos.Satellites = p.last.Satellites
		pos.HDOP = p.last.HDOP
	}
	pos.AircraftID = p.id
	pos.Updated = time.Now()
	p.last = pos
	p.valid = true
}
