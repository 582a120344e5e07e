// Package device turns the receiver byte stream into stored sentences.
package device

import (
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/store"
)

// MaxSentence is the longest line, line feed included, the framer forwards.
const MaxSentence = 100

type Depositor interface {
	Deposit(b []byte) (store.Ref, error)
}

type Sender interface {
	Send(msg interface{})
}

// Framer assembles receiver lines. A line longer than MaxSentence is
// discarded silently up to its line feed, or up to the '$' of the next
// sentence. A carriage return before the line feed is dropped so
// that every stored sentence ends with "\n" and the store terminator.
type Framer struct {
	buf     [MaxSentence + 1]byte
	n       int
	discard bool
	store   Depositor
	out     Sender
}

func NewFramer(st Depositor, out Sender) *Framer {
	return &Framer{store: st, out: out}
}

// Feed must be called from a single goroutine.
func (f *Framer) Feed(b byte) {
	if f.discard {
		switch b {
		case '\n':
			f.discard = false
			return
		case '$':
			f.discard = false
		default:
			return
		}
	}
	if b != '\n' {
		f.buf[f.n] = b
		f.n++
		if f.n >= MaxSentence {
			logs.LogBuild.Println("gps line too long, discarded")
			f.n = 0
			f.discard = true
		}
		return
	}
	if f.n > 0 && f.buf[f.n-1] == '\r' {
		f.n--
	}
	if f.n == 0 {
		return
	}
	f.buf[f.n] = '\n'
	f.buf[f.n+1] = store.Terminator
	length := f.n + 2
	f.n = 0

	ref, err := f.store.Deposit(f.buf[:length])
	if err != nil {
		logs.LogWarn.Printf("gps sentence dropped: %s", err)
		return
	}
	f.out.Send(messages.Message{
		Source: messages.SourceGPS,
		Ref:    ref,
		Len:    length,
	})
}
