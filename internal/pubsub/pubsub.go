// Package pubsub is the gateway to the local MQTT broker.
package pubsub

import (
	"fmt"
	"sync"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	TopicGPS      = "GPS"
	TopicEventGPS = "EVENTS/gps"
)

type pubsubActor struct {
	broker   string
	clientID string
	client   mqtt.Client
}

var (
	mux     sync.Mutex
	rootctx *actor.RootContext
	pid     *actor.PID
)

// Init spawns the gateway. An empty broker disables publishing.
func Init(ctx *actor.RootContext, broker, clientID string) error {
	mux.Lock()
	defer mux.Unlock()
	if pid != nil {
		return fmt.Errorf("pubsub already initialized")
	}
	if broker == "" {
		logs.LogInfo.Println("pubsub disabled, no broker configured")
		return nil
	}
	ps := &pubsubActor{broker: broker, clientID: clientID}
	props := actor.PropsFromFunc(ps.Receive)
	p, err := ctx.SpawnNamed(props, "pubsub-actor")
	if err != nil {
		return err
	}
	if _, err := ctx.RequestFuture(p, &ping{}, 12*time.Second).Result(); err != nil {
		ctx.Poison(p)
		return fmt.Errorf("pubsub start: %w", err)
	}
	rootctx = ctx
	pid = p
	return nil
}

// Stop disconnects from the broker.
func Stop() {
	mux.Lock()
	defer mux.Unlock()
	if pid == nil {
		return
	}
	rootctx.PoisonFuture(pid).Wait()
	pid = nil
}

type publishMSG struct {
	topic string
	msg   []byte
}
type ping struct{}
type pong struct{}

// Publish sends msg on topic. It never blocks on the broker.
func Publish(topic string, msg []byte) {
	mux.Lock()
	ctx, p := rootctx, pid
	mux.Unlock()
	if p == nil {
		logs.LogBuild.Printf("pubsub disabled, drop %q", topic)
		return
	}
	ctx.Send(p, &publishMSG{topic: topic, msg: msg})
}

// Enabled reports whether a broker connection was set up.
func Enabled() bool {
	mux.Lock()
	defer mux.Unlock()
	return pid != nil
}

func (ps *pubsubActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		logs.LogInfo.Printf("Starting, actor, pid: %v\n", ctx.Self())
		ps.client = client(ps.broker, ps.clientID)
		if err := connect(ps.client); err != nil {
			logs.LogError.Printf("pubsub connect: %s", err)
		}
	case *ping:
		if ctx.Sender() != nil {
			ctx.Respond(&pong{})
		}
	case *publishMSG:
		tk := ps.client.Publish(msg.topic, 0, false, msg.msg)
		if !tk.WaitTimeout(3 * time.Second) {
			logs.LogError.Printf("timeout error with message -> %q", msg.topic)
		} else if tk.Error() != nil {
			logs.LogError.Printf("end error: %s, with messages -> %q", tk.Error(), msg.topic)
		}
	case *actor.Stopping:
		if ps.client != nil {
			ps.client.Disconnect(600)
		}
		logs.LogInfo.Println("Stopping, actor is about to shut down")
	case *actor.Stopped:
		logs.LogInfo.Println("Stopped, actor and its children are stopped")
	case *actor.Restarting:
		logs.LogError.Println("Restarting, actor is about to restart")
	}
}

func client(broker, clientID string) mqtt.Client {
	opt := mqtt.NewClientOptions().AddBroker(broker)
	opt.SetAutoReconnect(true)
	opt.SetConnectRetry(true)
	opt.SetClientID(fmt.Sprintf("%s-%d", clientID, time.Now().Unix()))
	opt.SetKeepAlive(30 * time.Second)
	opt.SetConnectRetryInterval(10 * time.Second)
	return mqtt.NewClient(opt)
}

func connect(c mqtt.Client) error {
	tk := c.Connect()
	if !tk.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("connect wait error")
	}
	if err := tk.Error(); err != nil {
		return err
	}
	return nil
}
