package battle

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/udisondev/monbattle/internal/game/team"
	"github.com/udisondev/monbattle/internal/model"
)

// Engine runs battles. It holds no per-battle state and may be shared.
type Engine struct {
	maxTurns int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxTurns aborts battles with ErrTurnLimit after n turns.
// 0 disables the limit.
func WithMaxTurns(n int) Option {
	return func(e *Engine) { e.maxTurns = n }
}

// NewEngine creates an engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// side is one team's view of a running battle.
type side struct {
	num      int
	team     *team.Team
	strategy Strategy
	active   *model.Creature // nil once the team is exhausted
	action   Action
}

// hit records one creature losing HP to another during a turn.
type hit struct {
	attacker *model.Creature
	defender *model.Creature
	from     *side
	to       *side
}

type state struct {
	id     string
	t1, t2 *side
	turn   int
	hits   []hit
	result Result
	phase  *fsm.FSM
	log    *slog.Logger
}

func newState(c1, c2 Contestant) *state {
	s := &state{
		id: uuid.New().String(),
		t1: newSide(1, c1),
		t2: newSide(2, c2),
	}
	s.phase = newPhaseMachine(s)
	s.log = slog.With("battle", s.id)
	return s
}

// Battle fights c1 against c2 until one side runs out of creatures.
// Teams are mutated; call Team.Regenerate to reuse them.
func (e *Engine) Battle(c1, c2 Contestant) (Result, error) {
	s := newState(c1, c2)

	var err error
	if s.t1.active, err = s.t1.team.Retrieve(); err != nil {
		return ResultNone, fmt.Errorf("battle %s: team 1 lead: %w", s.id, err)
	}
	if s.t2.active, err = s.t2.team.Retrieve(); err != nil {
		return ResultNone, fmt.Errorf("battle %s: team 2 lead: %w", s.id, err)
	}

	s.log.Info("battle started",
		"team1", c1.Team.String(),
		"team2", c2.Team.String(),
		"lead1", s.t1.active.String(),
		"lead2", s.t2.active.String())

	for s.result == ResultNone {
		if e.maxTurns > 0 && s.turn >= e.maxTurns {
			s.log.Warn("battle turn limit reached", "turns", s.turn)
			return ResultNone, fmt.Errorf("battle %s: %w (%d)", s.id, ErrTurnLimit, e.maxTurns)
		}
		for _, ev := range turnEvents {
			if err := s.advance(ev); err != nil {
				return ResultNone, err
			}
		}
	}
	if err := s.advance(evFinish); err != nil {
		return ResultNone, err
	}

	s.log.Info("battle finished", "result", s.result, "turns", s.turn)
	return s.result, nil
}

func newSide(num int, c Contestant) *side {
	st := c.Strategy
	if st == nil {
		st = DefaultStrategy{}
	}
	return &side{num: num, team: c.Team, strategy: st}
}

func (s *state) opponent(sd *side) *side {
	if sd == s.t1 {
		return s.t2
	}
	return s.t1
}

func (s *state) chooseActions() error {
	s.turn++
	s.hits = s.hits[:0]

	for _, sd := range []*side{s.t1, s.t2} {
		a := sd.strategy.ChooseAction(sd.active, s.opponent(sd).active)
		if !a.valid() {
			return fmt.Errorf("team %d: %w: %v", sd.num, ErrInvalidAction, a)
		}
		sd.action = a
	}
	s.log.Debug("turn",
		"turn", s.turn,
		"active1", s.t1.active.String(),
		"action1", s.t1.action,
		"active2", s.t2.active.String(),
		"action2", s.t2.action)
	return nil
}

// resolveSwap honours team 1's swap first; a simultaneous team 2 swap is
// dropped.
func (s *state) resolveSwap() error {
	switch {
	case s.t1.action == ActionSwap:
		return s.swap(s.t1)
	case s.t2.action == ActionSwap:
		return s.swap(s.t2)
	}
	return nil
}

// resolveSpecial uses the same priority rule as resolveSwap.
func (s *state) resolveSpecial() error {
	switch {
	case s.t1.action == ActionSpecial:
		s.t1.team.Special()
	case s.t2.action == ActionSpecial:
		s.t2.team.Special()
	}
	return nil
}

// swap draws the next creature and then returns the active one to the team.
// With no reserve left the active creature stays in place.
func (s *state) swap(sd *side) error {
	in, err := sd.team.Retrieve()
	if errors.Is(err, team.ErrEmptyTeam) {
		s.log.Debug("swap skipped, no reserve", "team", sd.num, "active", sd.active.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("team %d swap: %w", sd.num, err)
	}

	out := sd.active
	if err := sd.team.Add(out); err != nil {
		return fmt.Errorf("team %d swap: %w", sd.num, err)
	}
	sd.active = in
	s.log.Debug("swap", "team", sd.num, "out", out.String(), "in", in.String())
	return nil
}

// resolveAttack applies this turn's damage and records the hits in the
// order they must be settled.
func (s *state) resolveAttack() error {
	hits, err := s.attackHits()
	if err != nil {
		return err
	}
	s.hits = hits
	return nil
}

func (s *state) attackHits() ([]hit, error) {
	m1, m2 := s.t1.active, s.t2.active
	a1 := s.t1.action == ActionAttack
	a2 := s.t2.action == ActionAttack

	switch {
	case a1 && a2:
		switch {
		case m1.Speed() > m2.Speed():
			return s.exchange(s.t1, s.t2)
		case m2.Speed() > m1.Speed():
			return s.exchange(s.t2, s.t1)
		default:
			// Equal speed: both hits are computed before either lands.
			d12, err := m1.ComputeAttack(m2)
			if err != nil {
				return nil, err
			}
			d21, err := m2.ComputeAttack(m1)
			if err != nil {
				return nil, err
			}
			m2.LoseHP(d12)
			m1.LoseHP(d21)
			s.log.Debug("simultaneous attack", "damage1", d12, "damage2", d21)
			return []hit{
				{attacker: m2, defender: m1, from: s.t2, to: s.t1},
				{attacker: m1, defender: m2, from: s.t1, to: s.t2},
			}, nil
		}
	case a1:
		return s.strike(s.t1, s.t2, nil)
	case a2:
		return s.strike(s.t2, s.t1, nil)
	default:
		// Nobody attacked: chip damage on both.
		m1.LoseHP(1)
		m2.LoseHP(1)
		s.log.Debug("chip damage", "active1", m1.String(), "active2", m2.String())
		return []hit{
			{attacker: m1, defender: m2, from: s.t1, to: s.t2},
			{attacker: m2, defender: m1, from: s.t2, to: s.t1},
		}, nil
	}
}

// exchange lets first attack; second counters only if it survived.
func (s *state) exchange(first, second *side) ([]hit, error) {
	hits, err := s.strike(first, second, nil)
	if err != nil {
		return nil, err
	}
	if second.active.Fainted() {
		return hits, nil
	}
	return s.strike(second, first, hits)
}

func (s *state) strike(from, to *side, hits []hit) ([]hit, error) {
	attacker, defender := from.active, to.active
	before := defender.HP()
	if err := attacker.Attack(defender); err != nil {
		return nil, err
	}
	s.log.Debug("attack",
		"team", from.num,
		"attacker", attacker.String(),
		"defender", defender.String(),
		"damage", before-defender.HP())
	return append(hits, hit{attacker: attacker, defender: defender, from: from, to: to}), nil
}

// resolveFaints settles every hit of the turn in order.
func (s *state) resolveFaints() error {
	for _, h := range s.hits {
		if err := s.settle(h); err != nil {
			return err
		}
	}
	return nil
}

// settle handles the aftermath of one hit: a fainted defender is replaced
// from its team (or leaves the slot empty), and a surviving attacker levels
// up and possibly evolves.
func (s *state) settle(h hit) error {
	if h.defender.Alive() || h.to.active != h.defender {
		return nil
	}

	next, err := h.to.team.Retrieve()
	switch {
	case errors.Is(err, team.ErrEmptyTeam):
		h.to.active = nil
		s.log.Debug("fainted, team exhausted", "team", h.to.num, "creature", h.defender.String())
	case err != nil:
		return fmt.Errorf("team %d replacement: %w", h.to.num, err)
	default:
		h.to.active = next
		s.log.Debug("fainted", "team", h.to.num, "creature", h.defender.String(), "next", next.String())
	}

	if !h.attacker.Alive() || h.from.active != h.attacker {
		return nil
	}
	if err := h.attacker.LevelUp(); err != nil {
		return err
	}
	if !h.attacker.ReadyToEvolve() {
		return nil
	}
	evolved, err := h.attacker.Evolve()
	if err != nil {
		return err
	}
	h.from.active = evolved
	s.log.Debug("evolved", "team", h.from.num, "from", h.attacker.String(), "to", evolved.String())
	return nil
}

func (s *state) checkTermination() error {
	switch {
	case s.t1.active == nil && s.t2.active == nil:
		s.result = ResultDraw
	case s.t1.active == nil:
		s.result = ResultTeam2
	case s.t2.active == nil:
		s.result = ResultTeam1
	}
	return nil
}
