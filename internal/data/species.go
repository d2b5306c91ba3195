package data

import (
	"errors"
	"fmt"

	"github.com/udisondev/monbattle/internal/stats"
)

// Species registry errors.
var (
	ErrUnknownSpecies = errors.New("unknown species")
	ErrInvalidSpecies = errors.New("invalid species definition")
)

// Species is the static descriptor shared by every creature of one kind.
// Immutable after the registry is built.
type Species struct {
	id          string
	name        string
	description string
	element     string
	evolution   *Species
	spawnable   bool
	stats       stats.Source
}

// ID returns the registry key.
func (s *Species) ID() string { return s.id }

// Name returns the display name.
func (s *Species) Name() string { return s.name }

// Description returns the flavour text.
func (s *Species) Description() string { return s.description }

// Element returns the element tag used for effectiveness lookups.
func (s *Species) Element() string { return s.element }

// Evolution returns the species this one evolves into, or nil.
func (s *Species) Evolution() *Species { return s.evolution }

// Spawnable reports whether the species may be placed on a team directly.
func (s *Species) Spawnable() bool { return s.spawnable }

// StatsAt resolves the stat block at level.
func (s *Species) StatsAt(level int) (stats.Block, error) {
	b, err := s.stats.At(level)
	if err != nil {
		return stats.Block{}, fmt.Errorf("species %s at level %d: %w", s.id, level, err)
	}
	return b, nil
}

func (s *Species) String() string { return s.name }

// Registry maps species IDs to descriptors and keeps definition order.
type Registry struct {
	byID  map[string]*Species
	order []*Species
}

// NewRegistry validates defs and links evolution targets.
// Every species must carry exactly one of fixed stats or formulas, and
// formulas must evaluate at level 1.
func NewRegistry(defs []SpeciesDef) (*Registry, error) {
	r := &Registry{
		byID:  make(map[string]*Species, len(defs)),
		order: make([]*Species, 0, len(defs)),
	}

	for i, def := range defs {
		sp, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("species #%d (%s): %w", i, def.ID, err)
		}
		if _, dup := r.byID[sp.id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidSpecies, sp.id)
		}
		r.byID[sp.id] = sp
		r.order = append(r.order, sp)
	}

	// Second pass: evolution targets may be declared after their source.
	for i, def := range defs {
		if def.Evolution == "" {
			continue
		}
		target, ok := r.byID[def.Evolution]
		if !ok {
			return nil, fmt.Errorf("species %s evolves into %q: %w", def.ID, def.Evolution, ErrUnknownSpecies)
		}
		r.order[i].evolution = target
	}

	if err := r.checkEvolutionCycles(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) checkEvolutionCycles() error {
	for _, sp := range r.order {
		seen := map[*Species]bool{sp: true}
		for next := sp.evolution; next != nil; next = next.evolution {
			if seen[next] {
				return fmt.Errorf("%w: evolution cycle through %s", ErrInvalidSpecies, sp.id)
			}
			seen[next] = true
		}
	}
	return nil
}

// Get returns the species by ID.
func (r *Registry) Get(id string) (*Species, error) {
	sp, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSpecies, id)
	}
	return sp, nil
}

// All returns every species in definition order.
func (r *Registry) All() []*Species {
	return append([]*Species(nil), r.order...)
}

// Spawnable returns the spawnable species in definition order.
func (r *Registry) Spawnable() []*Species {
	out := make([]*Species, 0, len(r.order))
	for _, sp := range r.order {
		if sp.spawnable {
			out = append(out, sp)
		}
	}
	return out
}

// Len returns the number of registered species.
func (r *Registry) Len() int { return len(r.order) }

// CheckElements verifies every species element exists in the table.
func (r *Registry) CheckElements(t *Effectiveness) error {
	for _, sp := range r.order {
		if !t.Has(sp.element) {
			return fmt.Errorf("species %s: %w: %q", sp.id, ErrUnknownElement, sp.element)
		}
	}
	return nil
}
