// Package display is the sink for fix status notifications.
package display

import (
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/pubsub"
	pmsg "github.com/dumacp/go-ogntracker/pkg/messages"
	proto "github.com/gogo/protobuf/proto"
)

// Publisher delivers an encoded event.
type Publisher func(topic string, payload []byte)

// StatusRequest is answered with a StatusResponse.
type StatusRequest struct{}

type StatusResponse struct {
	Fix     bool
	Changes int
}

type actorDisplay struct {
	acftID  uint32
	publish Publisher
	fix     bool
	changes int
}

// NewActor returns the display task. A nil publish uses the broker gateway.
func NewActor(acftID uint32, publish Publisher) actor.Actor {
	if publish == nil {
		publish = pubsub.Publish
	}
	return &actorDisplay{acftID: acftID, publish: publish}
}

func (a *actorDisplay) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("actor started \"%s\"", ctx.Self().Id)
	case messages.Message:
		switch msg.Opcode {
		case messages.DispGPSFix:
			a.update(true)
		case messages.DispGPSNoFix:
			a.update(false)
		default:
			logs.LogWarn.Printf("display: unknown opcode in %s", msg)
		}
	case *StatusRequest:
		ctx.Respond(&StatusResponse{Fix: a.fix, Changes: a.changes})
	case *actor.Stopping:
		logs.LogInfo.Printf("actor stopping \"%s\"", ctx.Self().Id)
	}
}

func (a *actorDisplay) update(fix bool) {
	a.fix = fix
	a.changes++
	logs.LogInfo.Printf("display: gps fix %v", fix)
	data, err := proto.Marshal(&pmsg.GPSStatus{
		Fix:       fix,
		Timestamp: time.Now().Unix(),
		AcftID:    a.acftID,
	})
	if err != nil {
		logs.LogError.Printf("display: encode status: %s", err)
		return
	}
	a.publish(pubsub.TopicEventGPS, data)
}
