package team

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/udisondev/monbattle/internal/data"
	"github.com/udisondev/monbattle/internal/model"
)

// SelectProvided creates one creature per species, in the given order.
func SelectProvided(species []*data.Species, level int, table *data.Effectiveness) ([]*model.Creature, error) {
	if len(species) < 1 || len(species) > Capacity {
		return nil, fmt.Errorf("%w: %d, want 1..%d", ErrInvalidTeamSize, len(species), Capacity)
	}

	out := make([]*model.Creature, 0, len(species))
	for _, sp := range species {
		c, err := model.NewCreature(sp, level, table)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", sp.ID(), err)
		}
		out = append(out, c)
	}
	return out, nil
}

// SelectRandom picks a team size in [1, Capacity] and fills it with
// spawnable species chosen uniformly from reg.
func SelectRandom(rng *rand.Rand, reg *data.Registry, level int, table *data.Effectiveness) ([]*model.Creature, error) {
	pool := reg.Spawnable()
	if len(pool) == 0 {
		return nil, errors.New("no spawnable species in registry")
	}

	size := rng.IntN(Capacity) + 1
	picked := make([]*data.Species, size)
	for i := range picked {
		picked[i] = pool[rng.IntN(len(pool))]
	}
	return SelectProvided(picked, level, table)
}
