package gps

import "time"

type timerKind int

const (
	fixValidTimer timerKind = iota
	watchdogTimer
)

func (k timerKind) String() string {
	if k == fixValidTimer {
		return "fix-valid"
	}
	return "watchdog"
}

// timerExpired is posted into the supervisor mailbox by the timer goroutine.
type timerExpired struct {
	kind timerKind
	gen  uint64
}

// oneShot is owned by the supervisor actor. Every start or stop bumps the
// generation so an expiry posted by an older arming is recognised as stale.
type oneShot struct {
	kind  timerKind
	gen   uint64
	armed bool
	t     *time.Timer
	post  func(msg interface{})
}

func newOneShot(kind timerKind, post func(msg interface{})) *oneShot {
	return &oneShot{kind: kind, post: post}
}

// start arms the timer or defers a pending expiry.
func (o *oneShot) start(d time.Duration) {
	if o.t != nil {
		o.t.Stop()
	}
	o.gen++
	o.armed = true
	gen, kind := o.gen, o.kind
	o.t = time.AfterFunc(d, func() {
		o.post(&timerExpired{kind: kind, gen: gen})
	})
}

func (o *oneShot) stop() {
	if o.t != nil {
		o.t.Stop()
	}
	o.gen++
	o.armed = false
}

// fire reports whether msg is the live expiry of this timer and disarms it.
func (o *oneShot) fire(msg *timerExpired) bool {
	if !o.armed || msg.gen != o.gen {
		return false
	}
	o.armed = false
	return true
}
