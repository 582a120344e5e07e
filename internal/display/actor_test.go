package display

import (
	"os"
	"testing"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/mailbox"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/pubsub"
	pmsg "github.com/dumacp/go-ogntracker/pkg/messages"
	proto "github.com/gogo/protobuf/proto"
)

func TestMain(m *testing.M) {
	logs.LogInfo = logs.New(os.Stderr, "", 0)
	logs.LogBuild = logs.New(os.Stderr, "", 0)
	logs.LogWarn = logs.New(os.Stderr, "", 0)
	logs.LogError = logs.New(os.Stderr, "", 0)
	os.Exit(m.Run())
}

type published struct {
	topic   string
	payload []byte
}

func TestActor_Status(t *testing.T) {
	sys := actor.NewActorSystem()
	events := make(chan published, 4)
	box := mailbox.New(sys.Root, mailbox.Capacity)
	err := box.Spawn("display-test", NewActor(0xABC123, func(topic string, payload []byte) {
		events <- published{topic, payload}
	}))
	if err != nil {
		t.Fatalf("Spawn() error = %s", err)
	}
	defer box.Stop()

	box.Send(messages.Message{Source: messages.SourceGPS, Opcode: messages.DispGPSFix})
	box.Send(messages.Message{Source: messages.SourceGPS, Opcode: 0x7f})
	box.Send(messages.Message{Source: messages.SourceGPS, Opcode: messages.DispGPSNoFix})

	for _, want := range []bool{true, false} {
		select {
		case ev := <-events:
			if ev.topic != pubsub.TopicEventGPS {
				t.Errorf("topic = %q", ev.topic)
			}
			status := &pmsg.GPSStatus{}
			if err := proto.Unmarshal(ev.payload, status); err != nil {
				t.Fatalf("Unmarshal() error = %s", err)
			}
			if status.Fix != want || status.AcftID != 0xABC123 {
				t.Errorf("status = %v, want fix %v", status, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("status not published")
		}
	}

	res, err := box.RequestFuture(&StatusRequest{}, time.Second).Result()
	if err != nil {
		t.Fatalf("status request: %s", err)
	}
	resp := res.(*StatusResponse)
	if resp.Fix || resp.Changes != 2 {
		t.Errorf("status = %+v", resp)
	}
}
