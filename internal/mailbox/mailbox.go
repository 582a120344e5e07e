// Package mailbox puts a bounded, blocking FIFO in front of an actor. It is
// the only channel through which tasks observe each other.
package mailbox

import (
	"fmt"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
)

// Capacity is the number of queued messages a task mailbox holds.
const Capacity = 10

// Mailbox is a bounded FIFO: Send blocks while Capacity messages are queued
// and never drops or times out. A slot is released when the actor takes the
// message for processing.
type Mailbox struct {
	root  *actor.RootContext
	slots chan struct{}
	pid   *actor.PID
	ready chan struct{}
	inner actor.Actor
}

// New returns an unspawned mailbox; a capacity <= 0 selects Capacity.
func New(root *actor.RootContext, capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = Capacity
	}
	return &Mailbox{
		root:  root,
		slots: make(chan struct{}, capacity),
		ready: make(chan struct{}),
	}
}

// Spawn starts the actor behind the mailbox. Sends issued earlier block until
// Spawn has returned.
func (m *Mailbox) Spawn(name string, a actor.Actor) error {
	if m.inner != nil {
		return fmt.Errorf("mailbox %q already spawned", name)
	}
	m.inner = a
	props := actor.PropsFromFunc(m.receive)
	pid, err := m.root.SpawnNamed(props, name)
	if err != nil {
		return err
	}
	m.pid = pid
	close(m.ready)
	logs.LogBuild.Printf("mailbox %q spawned, capacity %d", name, cap(m.slots))
	return nil
}

func (m *Mailbox) receive(ctx actor.Context) {
	switch ctx.Message().(type) {
	case *actor.Started, *actor.Stopping, *actor.Stopped, *actor.Restarting, *actor.Terminated:
	default:
		select {
		case <-m.slots:
		default:
		}
	}
	m.inner.Receive(ctx)
}

// Send blocks until the message is queued.
func (m *Mailbox) Send(msg interface{}) {
	<-m.ready
	m.slots <- struct{}{}
	m.root.Send(m.pid, msg)
}

// RequestFuture queues msg with the same discipline as Send and returns a
// future for the actor's response.
func (m *Mailbox) RequestFuture(msg interface{}, timeout time.Duration) *actor.Future {
	<-m.ready
	m.slots <- struct{}{}
	return m.root.RequestFuture(m.pid, msg, timeout)
}

// Len is the number of queued messages.
func (m *Mailbox) Len() int {
	return len(m.slots)
}

// Cap is the mailbox capacity.
func (m *Mailbox) Cap() int {
	return cap(m.slots)
}

// Stop poisons the actor and waits until it has stopped. Messages queued
// before Stop are handled first.
func (m *Mailbox) Stop() error {
	return m.root.PoisonFuture(m.PID()).Wait()
}

// PID blocks until the actor has been spawned.
func (m *Mailbox) PID() *actor.PID {
	<-m.ready
	return m.pid
}
