package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/monbattle/internal/config"
	"github.com/udisondev/monbattle/internal/data"
	"github.com/udisondev/monbattle/internal/game/battle"
	"github.com/udisondev/monbattle/internal/game/team"
)

type sideConfig struct {
	mode team.Mode
	key  team.SortKey
}

func parseSide(tc config.TeamConfig) (sideConfig, error) {
	mode, err := team.ParseMode(tc.Mode)
	if err != nil {
		return sideConfig{}, err
	}
	sc := sideConfig{mode: mode, key: team.SortHP}
	if mode == team.ModeOptimise && tc.SortKey != "" {
		if sc.key, err = team.ParseSortKey(tc.SortKey); err != nil {
			return sideConfig{}, err
		}
	}
	return sc, nil
}

// simulator runs a batch of independent random battles.
type simulator struct {
	cfg    config.Simulation
	table  *data.Effectiveness
	reg    *data.Registry
	engine *battle.Engine
	sides  [2]sideConfig
}

func newSimulator(cfg config.Simulation, table *data.Effectiveness, reg *data.Registry) (*simulator, error) {
	s := &simulator{
		cfg:    cfg,
		table:  table,
		reg:    reg,
		engine: battle.NewEngine(battle.WithMaxTurns(cfg.MaxTurns)),
	}
	for i, tc := range []config.TeamConfig{cfg.Team1, cfg.Team2} {
		sc, err := parseSide(tc)
		if err != nil {
			return nil, fmt.Errorf("team%d config: %w", i+1, err)
		}
		s.sides[i] = sc
	}
	return s, nil
}

type tally struct {
	mu         sync.Mutex
	team1      int
	team2      int
	draw       int
	unfinished int
}

func (t *tally) add(r battle.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch r {
	case battle.ResultTeam1:
		t.team1++
	case battle.ResultTeam2:
		t.team2++
	case battle.ResultDraw:
		t.draw++
	default:
		t.unfinished++
	}
}

// run plays cfg.Battles battles on at most cfg.Workers goroutines.
// Battle n draws its teams from an RNG seeded with (seed, n), so results do
// not depend on scheduling.
func (s *simulator) run(ctx context.Context) (*tally, error) {
	t := &tally{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for n := range s.cfg.Battles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.playOne(n)
			if err != nil {
				return fmt.Errorf("battle #%d: %w", n, err)
			}
			t.add(res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return t, err
	}
	if err := ctx.Err(); err != nil {
		return t, err
	}
	return t, nil
}

func (s *simulator) playOne(n int) (battle.Result, error) {
	rng := rand.New(rand.NewPCG(s.cfg.Seed, uint64(n)))

	var teams [2]*team.Team
	for i, sc := range s.sides {
		creatures, err := team.SelectRandom(rng, s.reg, s.cfg.Level, s.table)
		if err != nil {
			return battle.ResultNone, fmt.Errorf("selecting team %d: %w", i+1, err)
		}
		if teams[i], err = team.New(sc.mode, sc.key, creatures); err != nil {
			return battle.ResultNone, fmt.Errorf("building team %d: %w", i+1, err)
		}
	}

	res, err := s.engine.Battle(
		battle.Contestant{Team: teams[0]},
		battle.Contestant{Team: teams[1]},
	)
	if errors.Is(err, battle.ErrTurnLimit) {
		slog.Warn("battle unfinished", "battle", n, "err", err)
		return battle.ResultNone, nil
	}
	if err != nil {
		return battle.ResultNone, err
	}
	slog.Debug("battle result", "battle", n, "result", res)
	return res, nil
}
