package commands

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/AsynkronIT/protoactor-go/actor"
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/dumacp/go-ogntracker/internal/mailbox"
	"github.com/dumacp/go-ogntracker/internal/messages"
	"github.com/dumacp/go-ogntracker/internal/nmea/process"
)

func TestMain(m *testing.M) {
	logs.LogInfo = logs.New(os.Stderr, "", 0)
	logs.LogBuild = logs.New(os.Stderr, "", 0)
	logs.LogWarn = logs.New(os.Stderr, "", 0)
	logs.LogError = logs.New(os.Stderr, "", 0)
	os.Exit(m.Run())
}

// run drives line to completion the way the console does.
func run(r *Registry, line string, size int) []string {
	out := make([]byte, size)
	var chunks []string
	for i := 0; i < 100; i++ {
		n, more := r.Process(line, out)
		if n > 0 {
			chunks = append(chunks, string(out[:n]))
		}
		if !more {
			break
		}
	}
	return chunks
}

func TestRegistry_Process(t *testing.T) {
	r := New()
	r.Register(Command{
		Name: "count",
		Help: "count:\r\n Counts to three\r\n\r\n",
		Handler: func(out []byte, args []string, round int) (int, bool) {
			return copy(out, strings.Repeat("+", round+1)), round < 2
		},
	})
	r.Register(Command{
		Name: "echo",
		Help: "echo:\r\n Echoes its arguments\r\n\r\n",
		Handler: func(out []byte, args []string, round int) (int, bool) {
			return copy(out, strings.Join(args, " ")), false
		},
	})

	tests := []struct {
		name string
		line string
		size int
		want []string
	}{
		{name: "empty", line: "", size: 100, want: nil},
		{name: "blank", line: "   ", size: 100, want: nil},
		{name: "unknown", line: "fly", size: 100, want: []string{notRecognised}},
		{name: "truncated", line: "fly", size: 10, want: []string{notRecognised[:10]}},
		{name: "multi round", line: "count", size: 100, want: []string{"+", "++", "+++"}},
		{name: "again from round zero", line: "count", size: 100, want: []string{"+", "++", "+++"}},
		{name: "arguments", line: "echo a  b", size: 100, want: []string{"a b"}},
		{
			name: "help",
			line: "help",
			size: 100,
			want: []string{
				"help:\r\n Lists all the registered commands\r\n\r\n",
				"count:\r\n Counts to three\r\n\r\n",
				"echo:\r\n Echoes its arguments\r\n\r\n",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := run(r, tt.line, tt.size)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Process(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestRegistry_RegisterErrors(t *testing.T) {
	r := New()
	if err := r.Register(Command{Name: "help", Handler: r.help}); err == nil {
		t.Error("duplicate accepted")
	}
	if err := r.Register(Command{Name: "x"}); err == nil {
		t.Error("nil handler accepted")
	}
}

type fakeSupervisor struct {
	got chan interface{}
	pos messages.PositionResponse
}

func (f *fakeSupervisor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *messages.PositionRequest:
		resp := f.pos
		ctx.Respond(&resp)
	case *messages.GPSDebug, *messages.GPSColdReset:
		f.got <- msg
	}
}

func TestBuiltins(t *testing.T) {
	sys := actor.NewActorSystem()
	sup := &fakeSupervisor{
		got: make(chan interface{}, 4),
		pos: messages.PositionResponse{
			Valid:    true,
			Position: process.Position{AircraftID: 0xABCDEF, Lat: 46.5, Lon: 7.25, FixTime: "123519"},
		},
	}
	gps := mailbox.New(sys.Root, mailbox.Capacity)
	if err := gps.Spawn("gps-commands-test", sup); err != nil {
		t.Fatalf("Spawn() error = %s", err)
	}
	defer gps.Stop()

	r := New()
	err := RegisterBuiltins(r, Builtins{
		Version: "1.2.3",
		Options: func() []string { return []string{"gps_speed 9600\r\n", "cons_speed 115200\r\n"} },
		GPS:     gps,
	})
	if err != nil {
		t.Fatalf("RegisterBuiltins() error = %s", err)
	}

	tests := []struct {
		name string
		line string
		want string
	}{
		{name: "version", line: "version", want: "OGN Tracker 1.2.3\r\n"},
		{name: "options", line: "options", want: "gps_speed 9600\r\ncons_speed 115200\r\n"},
		{name: "debug", line: "gps_debug", want: "GPS debug on.\r\n"},
		{name: "reset", line: "gps_reset", want: "GPS cold reset requested.\r\n"},
		{name: "position", line: "gps_pos", want: sup.pos.Position.String() + "\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Join(run(r, tt.line, 100), ""); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.line, got, tt.want)
			}
		})
	}

	wantMsgs := []interface{}{&messages.GPSDebug{On: true}, &messages.GPSColdReset{}}
	for _, want := range wantMsgs {
		select {
		case got := <-sup.got:
			switch w := want.(type) {
			case *messages.GPSDebug:
				if g, ok := got.(*messages.GPSDebug); !ok || g.On != w.On {
					t.Errorf("got %#v, want %#v", got, want)
				}
			case *messages.GPSColdReset:
				if _, ok := got.(*messages.GPSColdReset); !ok {
					t.Errorf("got %#v, want %#v", got, want)
				}
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("supervisor did not receive %T", want)
		}
	}
}

func TestBuiltins_NoGPS(t *testing.T) {
	r := New()
	RegisterBuiltins(r, Builtins{Version: "x"})
	for _, line := range []string{"gps_debug", "gps_reset", "gps_pos"} {
		if got := strings.Join(run(r, line, 100), ""); got != "GPS not available.\r\n" {
			t.Errorf("%s = %q", line, got)
		}
	}
	if got := run(r, "options", 100); len(got) != 0 {
		t.Errorf("options = %q", got)
	}
}
