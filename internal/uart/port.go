/*
Package uart implements the byte transports of the tracker: a transmit queue
with completion wait and a reconnecting reader that hands every received
byte to a sink.
*/
package uart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/looplab/fsm"
)

const (
	sStart   = "sStart"
	sConnect = "sConnect"
	sRun     = "sRun"
	sClose   = "sClose"
	sStop    = "sStop"
)

const (
	startEvent     = "startEvent"
	connectOKEvent = "connectOKEvent"
	readFailEvent  = "readFailEvent"
	stopEvent      = "stopEvent"
)

const (
	maxReadFail = 6
	txQueueLen  = 64
)

// Port is a serial transport shared by one reader and any number of writers.
type Port struct {
	name  string
	open  Opener
	fsm   *fsm.FSM
	txq   chan []byte
	quit  chan struct{}
	once  sync.Once
	mux   sync.Mutex
	cond  *sync.Cond
	conn  io.ReadWriteCloser
	queue int

	// RetryDelay is the pause between failed connection attempts.
	RetryDelay time.Duration
}

// NewPort starts the transmit side immediately; bytes sent before a
// connection exists are discarded.
func NewPort(name string, open Opener) *Port {
	p := &Port{
		name:       name,
		open:       open,
		txq:        make(chan []byte, txQueueLen),
		quit:       make(chan struct{}),
		RetryDelay: 3 * time.Second,
	}
	p.cond = sync.NewCond(&p.mux)
	p.fsm = fsm.NewFSM(
		sStart,
		fsm.Events{
			{Name: startEvent, Src: []string{sStart, sClose}, Dst: sConnect},
			{Name: connectOKEvent, Src: []string{sConnect}, Dst: sRun},
			{Name: readFailEvent, Src: []string{sRun}, Dst: sClose},
			{Name: stopEvent, Src: []string{sStart, sConnect, sRun, sClose}, Dst: sStop},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				logs.LogBuild.Printf("FSM UART %s state Src: %v, state Dst: %v", name, e.Src, e.Dst)
			},
		},
	)
	go p.writer()
	return p
}

func (p *Port) Name() string {
	return p.name
}

// Send queues a copy of b and returns without waiting for transmission.
func (p *Port) Send(b []byte) {
	if len(b) == 0 {
		return
	}
	data := make([]byte, len(b))
	copy(data, b)
	p.mux.Lock()
	p.queue++
	p.mux.Unlock()
	select {
	case p.txq <- data:
	case <-p.quit:
		p.done()
	}
}

// Wait blocks until every queued transmission has completed.
func (p *Port) Wait() {
	p.mux.Lock()
	defer p.mux.Unlock()
	for p.queue > 0 {
		p.cond.Wait()
	}
}

// SendWait transmits b and waits for completion.
func (p *Port) SendWait(b []byte) {
	p.Send(b)
	p.Wait()
}

func (p *Port) done() {
	p.mux.Lock()
	p.queue--
	if p.queue <= 0 {
		p.queue = 0
		p.cond.Broadcast()
	}
	p.mux.Unlock()
}

func (p *Port) writer() {
	for {
		select {
		case <-p.quit:
			return
		case data := <-p.txq:
			p.mux.Lock()
			conn := p.conn
			p.mux.Unlock()
			if conn != nil {
				if _, err := conn.Write(data); err != nil {
					logs.LogWarn.Printf("uart %s write error: %s", p.name, err)
				}
			}
			p.done()
		}
	}
}

// Start runs the reader until ctx is done. Every received byte is handed to
// sink in order, from a single goroutine.
func (p *Port) Start(ctx context.Context, sink func(byte)) {
	go func() {
		for {
			err := p.run(ctx, sink)
			select {
			case <-ctx.Done():
				return
			case <-p.quit:
				return
			default:
			}
			if err != nil {
				logs.LogError.Printf("uart %s reader failed: %s", p.name, err)
				time.Sleep(p.RetryDelay)
			}
		}
	}()
}

func (p *Port) run(ctx context.Context, sink func(byte)) (errx error) {
	defer func() {
		if r := recover(); r != nil {
			logs.LogError.Println("Recovered in uart reader, ", r)
			switch x := r.(type) {
			case string:
				errx = errors.New(x)
			case error:
				errx = x
			default:
				errx = errors.New("unknown panic")
			}
		}
	}()

	buf := make([]byte, 128)
	countFail := 0
	p.fsm.SetState(sStart)
	for {
		select {
		case <-ctx.Done():
			p.fsm.Event(stopEvent)
			p.closeConn()
			return nil
		case <-p.quit:
			return nil
		default:
		}
		switch p.fsm.Current() {
		case sStart:
			p.fsm.Event(startEvent)
		case sConnect:
			conn, err := p.open()
			if err != nil {
				logs.LogError.Printf("uart %s open error: %s", p.name, err)
				time.Sleep(p.RetryDelay)
				break
			}
			p.mux.Lock()
			p.conn = conn
			p.mux.Unlock()
			countFail = 0
			logs.LogInfo.Printf("uart %s connected", p.name)
			p.fsm.Event(connectOKEvent)
		case sRun:
			p.mux.Lock()
			conn := p.conn
			p.mux.Unlock()
			n, err := conn.Read(buf)
			for _, b := range buf[:n] {
				sink(b)
			}
			if err != nil {
				countFail++
				if countFail > maxReadFail {
					logs.LogWarn.Printf("uart %s read error: %s", p.name, err)
					p.fsm.Event(readFailEvent)
				}
				time.Sleep(30 * time.Millisecond)
				break
			}
			if n > 0 {
				countFail = 0
			}
		case sClose:
			p.closeConn()
			p.fsm.Event(startEvent)
		case sStop:
			return fmt.Errorf("uart %s stopped", p.name)
		}
	}
}

func (p *Port) closeConn() {
	p.mux.Lock()
	conn := p.conn
	p.conn = nil
	p.mux.Unlock()
	if conn != nil {
		conn.Close()
	}
}

// Close stops the reader and the writer and closes the transport.
func (p *Port) Close() error {
	p.once.Do(func() {
		close(p.quit)
	})
	p.closeConn()
	p.mux.Lock()
	p.queue = 0
	p.cond.Broadcast()
	p.mux.Unlock()
	return nil
}
