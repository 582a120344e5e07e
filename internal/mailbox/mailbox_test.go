package mailbox

import (
	"os"
	"testing"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
)

func TestMain(m *testing.M) {
	logs.LogInfo = logs.New(os.Stderr, "", 0)
	logs.LogBuild = logs.New(os.Stderr, "", 0)
	logs.LogWarn = logs.New(os.Stderr, "", 0)
	logs.LogError = logs.New(os.Stderr, "", 0)
	os.Exit(m.Run())
}

type stallActor struct {
	got     chan int
	release chan struct{}
}

func (a *stallActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case int:
		a.got <- msg
		<-a.release
	case string:
		ctx.Respond(msg + "-pong")
	}
}

func TestMailbox_BlocksWhenFull(t *testing.T) {
	sys := actor.NewActorSystem()
	a := &stallActor{got: make(chan int, 32), release: make(chan struct{})}
	m := New(sys.Root, Capacity)
	if err := m.Spawn("stall-full", a); err != nil {
		t.Fatalf("Spawn() error = %s", err)
	}

	m.Send(0)
	select {
	case v := <-a.got:
		if v != 0 {
			t.Fatalf("first message = %d", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first message not delivered")
	}

	for i := 1; i <= Capacity; i++ {
		m.Send(i)
	}
	if m.Len() != Capacity {
		t.Fatalf("Len() = %d, want %d", m.Len(), Capacity)
	}

	done := make(chan struct{})
	go func() {
		m.Send(Capacity + 1)
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Send() returned with a full mailbox")
	case <-time.After(100 * time.Millisecond):
	}

	close(a.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send() still blocked after the actor drained")
	}

	for want := 1; want <= Capacity+1; want++ {
		select {
		case v := <-a.got:
			if v != want {
				t.Fatalf("message order: got %d, want %d", v, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d not delivered", want)
		}
	}
}

func TestMailbox_SendBeforeSpawn(t *testing.T) {
	sys := actor.NewActorSystem()
	a := &stallActor{got: make(chan int, 4), release: make(chan struct{})}
	close(a.release)
	m := New(sys.Root, 0)
	if m.Cap() != Capacity {
		t.Fatalf("Cap() = %d, want %d", m.Cap(), Capacity)
	}

	sent := make(chan struct{})
	go func() {
		m.Send(7)
		close(sent)
	}()
	time.Sleep(20 * time.Millisecond)
	if err := m.Spawn("stall-late", a); err != nil {
		t.Fatalf("Spawn() error = %s", err)
	}
	<-sent
	select {
	case v := <-a.got:
		if v != 7 {
			t.Errorf("got %d, want 7", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
	if err := m.Spawn("stall-late", a); err == nil {
		t.Error("second Spawn() succeeded")
	}
}

func TestMailbox_RequestFuture(t *testing.T) {
	sys := actor.NewActorSystem()
	a := &stallActor{got: make(chan int, 1), release: make(chan struct{})}
	m := New(sys.Root, Capacity)
	if err := m.Spawn("stall-request", a); err != nil {
		t.Fatal(err)
	}
	res, err := m.RequestFuture("ping", time.Second).Result()
	if err != nil {
		t.Fatalf("Result() error = %s", err)
	}
	if res != "ping-pong" {
		t.Errorf("Result() = %v", res)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after request", m.Len())
	}
}

func TestMailbox_StopAfterQueued(t *testing.T) {
	sys := actor.NewActorSystem()
	a := &stallActor{got: make(chan int, 4), release: make(chan struct{})}
	close(a.release)
	m := New(sys.Root, Capacity)
	if err := m.Spawn("stall-stop", a); err != nil {
		t.Fatalf("Spawn() error = %s", err)
	}

	func() {
		// deferred stop runs after the sends below
		defer func() {
			if err := m.Stop(); err != nil {
				t.Errorf("Stop() error = %s", err)
			}
		}()
		m.Send(1)
		m.Send(2)
	}()

	for want := 1; want <= 2; want++ {
		select {
		case v := <-a.got:
			if v != want {
				t.Fatalf("got %d, want %d", v, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("message %d not handled before stop", want)
		}
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after stop", m.Len())
	}
}
