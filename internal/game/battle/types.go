// Package battle resolves a fight between two teams turn by turn.
// Flow: choose actions → swap → special → attack → faints → termination check.
package battle

import (
	"errors"
	"fmt"

	"github.com/udisondev/monbattle/internal/game/team"
	"github.com/udisondev/monbattle/internal/model"
)

// Battle errors.
var (
	ErrInvalidAction = errors.New("strategy returned an invalid action")
	ErrTurnLimit     = errors.New("battle exceeded turn limit")
)

// Action is what a team does with its active creature this turn.
type Action int

const (
	ActionAttack Action = iota
	ActionSwap
	ActionSpecial
)

func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "ATTACK"
	case ActionSwap:
		return "SWAP"
	case ActionSpecial:
		return "SPECIAL"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func (a Action) valid() bool {
	return a >= ActionAttack && a <= ActionSpecial
}

// Result is the outcome of a finished battle.
type Result int

const (
	ResultNone  Result = iota // battle still running
	ResultTeam1               // team 1 wins
	ResultTeam2               // team 2 wins
	ResultDraw                // both teams exhausted in the same exchange
)

func (r Result) String() string {
	switch r {
	case ResultNone:
		return "NONE"
	case ResultTeam1:
		return "TEAM1"
	case ResultTeam2:
		return "TEAM2"
	case ResultDraw:
		return "DRAW"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Strategy picks an action from the two active creatures. It may be queried
// more than once per turn and must return the same answer for the same
// inputs.
type Strategy interface {
	ChooseAction(self, opponent *model.Creature) Action
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(self, opponent *model.Creature) Action

// ChooseAction calls f.
func (f StrategyFunc) ChooseAction(self, opponent *model.Creature) Action {
	return f(self, opponent)
}

// DefaultStrategy attacks when at least as fast or as healthy as the
// opponent and swaps otherwise.
type DefaultStrategy struct{}

// ChooseAction implements Strategy.
func (DefaultStrategy) ChooseAction(self, opponent *model.Creature) Action {
	if self.Speed() >= opponent.Speed() || self.HP() >= opponent.HP() {
		return ActionAttack
	}
	return ActionSwap
}

// Contestant is one side of a battle. A nil Strategy means DefaultStrategy.
type Contestant struct {
	Team     *team.Team
	Strategy Strategy
}
