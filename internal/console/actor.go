package console

import (
	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/messages"
)

const welcomeMessage = "\r\nOGN Tracker Console.\r\n"

// Attach wires the GPS relay into a running console task. It is the first
// message posted to the console mailbox.
type Attach struct {
	Store Depositor
	GPS   Sender
}

type actorConsole struct {
	tx      Transport
	session *Session
}

// NewActor returns the console task. Bytes arrive as console-sourced
// messages.Message values, one per byte.
func NewActor(tx Transport, cli Interpreter) actor.Actor {
	return &actorConsole{
		tx:      tx,
		session: NewSession(tx, cli),
	}
}

func (a *actorConsole) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
		a.tx.Send([]byte(welcomeMessage))
	case *Attach:
		if msg.Store == nil || msg.GPS == nil {
			logs.LogWarn.Println("console attach without gps relay")
			break
		}
		a.session.Attach(msg.Store, msg.GPS)
		logs.LogBuild.Println("console attached to gps relay")
	case messages.Message:
		if msg.Source != messages.SourceConsole {
			logs.LogBuild.Printf("console ignores %s", msg)
			break
		}
		a.session.Consume(msg.Opcode)
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
	}
}
