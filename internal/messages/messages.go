// Package messages holds the values exchanged between tasks through their
// mailboxes.
package messages

import (
	"fmt"

	"github.com/dumacp/go-ogntracker/internal/store"
)

// SourceID identifies the origin of a Message.
type SourceID uint8

const (
	SourceConsole SourceID = iota + 1
	SourceGPS
	SourceDisplay
)

func (s SourceID) String() string {
	switch s {
	case SourceConsole:
		return "console"
	case SourceGPS:
		return "gps"
	case SourceDisplay:
		return "display"
	default:
		return fmt.Sprintf("source(%d)", uint8(s))
	}
}

// display opcodes
const (
	DispGPSFix byte = iota + 1
	DispGPSNoFix
)

// Message is passed by value and must not be modified after it is sent.
// Opcode carries either a console character or a display opcode; Ref and
// Len point at a sentence held by the shared store.
type Message struct {
	Source SourceID
	Opcode byte
	Ref    store.Ref
	Len    int
}

func (m Message) String() string {
	return fmt.Sprintf("msg{src: %s, op: %#02x, ref: %d, len: %d}", m.Source, m.Opcode, m.Ref.Pos, m.Len)
}
