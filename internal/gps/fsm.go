package gps

import (
	"github.com/dumacp/go-logs/pkg/logs"
	"github.com/looplab/fsm"
)

// supervisor lifecycle
const (
	sStart   = "sStart"
	sPowerOn = "sPowerOn"
	sRun     = "sRun"
	sReset   = "sReset"
	sStop    = "sStop"
)

const (
	powerOnEvent  = "powerOnEvent"
	runEvent      = "runEvent"
	watchdogEvent = "watchdogEvent"
	stopEvent     = "stopEvent"
)

// fix state
const (
	sNoFix = "sNoFix"
	sFix   = "sFix"
)

const (
	fixEvent  = "fixEvent"
	lostEvent = "lostEvent"
)

func newLifecycleFSM() *fsm.FSM {
	return fsm.NewFSM(
		sStart,
		fsm.Events{
			{Name: powerOnEvent, Src: []string{sStart}, Dst: sPowerOn},
			{Name: runEvent, Src: []string{sPowerOn}, Dst: sRun},
			{Name: watchdogEvent, Src: []string{sRun}, Dst: sReset},
			{Name: stopEvent, Src: []string{sStart, sPowerOn, sRun, sReset}, Dst: sStop},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) {
				logs.LogBuild.Printf("FSM GPS state Src: %v, state Dst: %v", e.Src, e.Dst)
			},
		},
	)
}

// newFixFSM calls found and lost on the state edges only.
func newFixFSM(found, lost func()) *fsm.FSM {
	return fsm.NewFSM(
		sNoFix,
		fsm.Events{
			{Name: fixEvent, Src: []string{sNoFix}, Dst: sFix},
			{Name: lostEvent, Src: []string{sFix}, Dst: sNoFix},
		},
		fsm.Callbacks{
			"enter_" + sFix: func(e *fsm.Event) {
				found()
			},
			"enter_" + sNoFix: func(e *fsm.Event) {
				lost()
			},
		},
	)
}
