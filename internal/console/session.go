// Package console implements the operator console: a line editor feeding the
// command interpreter, and a sniffer that relays '$' sentences to the GPS
// supervisor.
package console

import (
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/store"
	"github.com/looplab/fsm"
)

const (
	InputSize   = 100
	OutputSize  = 100
	CaptureSize = 100
)

const (
	sLineEditing     = "sLineEditing"
	sSentenceCapture = "sSentenceCapture"
)

const (
	captureEvent = "captureEvent"
	lineEvent    = "lineEvent"
)

var newline = []byte{'\n'}

// Transport is the console byte output.
type Transport interface {
	Send(b []byte)
	SendWait(b []byte)
}

// Interpreter runs a command line. It writes one output chunk into out per
// call and reports whether another chunk follows.
type Interpreter interface {
	Process(line string, out []byte) (n int, more bool)
}

// Depositor is the part of the sentence store the console writes to.
type Depositor interface {
	Deposit(b []byte) (store.Ref, error)
}

// Sender is the GPS supervisor mailbox.
type Sender interface {
	Send(msg interface{})
}

// Session is owned by the console task and must not be shared.
type Session struct {
	input      [InputSize]byte
	cursor     int
	output     [OutputSize]byte
	capture    [CaptureSize + 1]byte
	captureLen int
	echo       [1]byte

	fsm *fsm.FSM
	tx  Transport
	cli Interpreter

	store   Depositor
	gps     Sender
	dropped int
}

func NewSession(tx Transport, cli Interpreter) *Session {
	s := &Session{tx: tx, cli: cli}
	s.fsm = fsm.NewFSM(
		sLineEditing,
		fsm.Events{
			{Name: captureEvent, Src: []string{sLineEditing}, Dst: sSentenceCapture},
			{Name: lineEvent, Src: []string{sSentenceCapture}, Dst: sLineEditing},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				logs.LogBuild.Printf("FSM CONSOLE state Src: %v, state Dst: %v", e.Src, e.Dst)
			},
		},
	)
	return s
}

// Attach connects the session to the GPS relay. Sentences completed before
// Attach are dropped.
func (s *Session) Attach(st Depositor, gps Sender) {
	s.store = st
	s.gps = gps
}

func (s *Session) Attached() bool {
	return s.store != nil && s.gps != nil
}

// Consume handles one byte received from the console.
func (s *Session) Consume(ch byte) {
	s.echo[0] = ch
	s.tx.Send(s.echo[:])

	if ch == '$' {
		s.fsm.Event(captureEvent)
		s.captureLen = 0
	}

	switch s.fsm.Current() {
	case sSentenceCapture:
		s.captureByte(ch)
	default:
		s.editByte(ch)
	}
}

func (s *Session) editByte(ch byte) {
	switch ch {
	case '\r':
		s.tx.Send(newline)
		line := string(s.input[:s.cursor])
		for {
			n, more := s.cli.Process(line, s.output[:])
			if n > 0 {
				// output is reused by the next round
				s.tx.SendWait(s.output[:n])
			}
			if !more {
				break
			}
		}
		s.input = [InputSize]byte{}
		s.cursor = 0
	case '\n':
	case '\b', 0x7f:
		if s.cursor > 0 {
			s.cursor--
			s.input[s.cursor] = 0
		}
	default:
		if s.cursor < InputSize {
			s.input[s.cursor] = ch
			s.cursor++
		}
	}
}

func (s *Session) captureByte(ch byte) {
	s.capture[s.captureLen] = ch
	s.captureLen++
	if ch == '\n' {
		s.capture[s.captureLen] = store.Terminator
		s.captureLen++
		s.relay(s.capture[:s.captureLen])
		s.captureLen = 0
		s.fsm.Event(lineEvent)
		return
	}
	if s.captureLen >= CaptureSize {
		s.captureLen = 0
	}
}

func (s *Session) relay(b []byte) {
	if !s.Attached() {
		s.dropped++
		logs.LogWarn.Printf("console sentence dropped before gps attach (%d dropped)", s.dropped)
		return
	}
	ref, err := s.store.Deposit(b)
	if err != nil {
		logs.LogWarn.Printf("console sentence dropped: %s", err)
		return
	}
	s.gps.Send(messages.Message{
		Source: messages.SourceConsole,
		Ref:    ref,
		Len:    len(b),
	})
}

// Line returns the buffered command line.
func (s *Session) Line() string {
	return string(s.input[:s.cursor])
}

func (s *Session) Cursor() int {
	return s.cursor
}

// Capturing reports whether the session is in sentence capture mode.
func (s *Session) Capturing() bool {
	return s.fsm.Current() == sSentenceCapture
}

// Dropped counts sentences completed before Attach.
func (s *Session) Dropped() int {
	return s.dropped
}
