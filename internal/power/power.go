// Package power drives the receiver ON_OFF control line.
package power

import (
	"time"

	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/nmea/device"
)

// PulseDelay is the hold time of the ON_OFF pulse and the shutdown settle
// time.
const PulseDelay = 200 * time.Millisecond

// Line is a single digital output.
type Line interface {
	SetValue(v int) error
	Close() error
}

// Nop is used when no enable line is wired.
type Nop struct{}

func (Nop) SetValue(int) error { return nil }
func (Nop) Close() error       { return nil }

// Receiver is the transmit side of the GPS port.
type Receiver interface {
	SendWait(b []byte)
}

// Sequencer runs the receiver power transitions. It blocks the caller for
// the fixed delays.
type Sequencer struct {
	Line     Line
	Receiver Receiver
	Delay    time.Duration
}

func NewSequencer(line Line, rx Receiver) *Sequencer {
	if line == nil {
		line = Nop{}
	}
	return &Sequencer{Line: line, Receiver: rx, Delay: PulseDelay}
}

// Off sends the shutdown command and waits for the receiver to settle.
func (s *Sequencer) Off() {
	s.Receiver.SendWait([]byte(device.ShutdownSentence))
	time.Sleep(s.Delay)
}

// On makes sure the receiver is off, then pulses the ON_OFF line.
func (s *Sequencer) On() error {
	s.Off()
	if err := s.Line.SetValue(1); err != nil {
		return err
	}
	time.Sleep(s.Delay)
	if err := s.Line.SetValue(0); err != nil {
		return err
	}
	logs.LogBuild.Println("gps ON_OFF pulse done")
	return nil
}
