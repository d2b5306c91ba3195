package battle

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// Turn phases.
const (
	phaseStart            = "start"
	phaseChooseActions    = "choose_actions"
	phaseResolveSwap      = "resolve_swap"
	phaseResolveSpecial   = "resolve_special"
	phaseResolveAttack    = "resolve_attack"
	phaseResolveFaints    = "resolve_faints"
	phaseCheckTermination = "check_termination"
	phaseTerminal         = "terminal"
)

// Phase transitions.
const (
	evChoose  = "choose"
	evSwap    = "swap"
	evSpecial = "special"
	evAttack  = "attack"
	evFaints  = "faints"
	evCheck   = "check"
	evFinish  = "finish"
)

// turnEvents walks one full turn, from the previous turn's termination
// check (or the start) to this turn's.
var turnEvents = [...]string{evChoose, evSwap, evSpecial, evAttack, evFaints, evCheck}

// newPhaseMachine wires each phase's work to its enter callback. A phase
// that fails stores its error on the event, which fsm returns from Event.
func newPhaseMachine(s *state) *fsm.FSM {
	return fsm.NewFSM(
		phaseStart,
		fsm.Events{
			{Name: evChoose, Src: []string{phaseStart, phaseCheckTermination}, Dst: phaseChooseActions},
			{Name: evSwap, Src: []string{phaseChooseActions}, Dst: phaseResolveSwap},
			{Name: evSpecial, Src: []string{phaseResolveSwap}, Dst: phaseResolveSpecial},
			{Name: evAttack, Src: []string{phaseResolveSpecial}, Dst: phaseResolveAttack},
			{Name: evFaints, Src: []string{phaseResolveAttack}, Dst: phaseResolveFaints},
			{Name: evCheck, Src: []string{phaseResolveFaints}, Dst: phaseCheckTermination},
			{Name: evFinish, Src: []string{phaseCheckTermination}, Dst: phaseTerminal},
		},
		fsm.Callbacks{
			"enter_" + phaseChooseActions:    phaseCallback(s.chooseActions),
			"enter_" + phaseResolveSwap:      phaseCallback(s.resolveSwap),
			"enter_" + phaseResolveSpecial:   phaseCallback(s.resolveSpecial),
			"enter_" + phaseResolveAttack:    phaseCallback(s.resolveAttack),
			"enter_" + phaseResolveFaints:    phaseCallback(s.resolveFaints),
			"enter_" + phaseCheckTermination: phaseCallback(s.checkTermination),
		},
	)
}

func phaseCallback(run func() error) fsm.Callback {
	return func(_ context.Context, e *fsm.Event) {
		if err := run(); err != nil {
			e.Err = err
		}
	}
}

// advance fires ev and runs the phase it enters.
func (s *state) advance(ev string) error {
	if err := s.phase.Event(context.Background(), ev); err != nil {
		return fmt.Errorf("battle %s turn %d: phase %s: %w", s.id, s.turn, s.phase.Current(), err)
	}
	return nil
}
