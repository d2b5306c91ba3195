// Package model holds the mutable combat entities.
package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/udisondev/monbattle/internal/data"
	"github.com/udisondev/monbattle/internal/stats"
)

// Creature errors.
var (
	ErrInvalidLevel = errors.New("level must be at least 1")
	ErrNoEvolution  = errors.New("creature is not ready to evolve")
)

// Creature is one combat instance of a species.
//
// hp is stored exactly as computed and may drop below zero when a hit
// overkills; HP clamps it on read and any value <= 0 means fainted.
type Creature struct {
	species *data.Species
	table   *data.Effectiveness

	initialLevel int
	level        int

	hp      int
	maxHP   int
	attack  int
	defense int
	speed   int
}

// NewCreature creates a creature at full HP.
// table is the effectiveness table used by Attack.
func NewCreature(species *data.Species, level int, table *data.Effectiveness) (*Creature, error) {
	if level < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevel, level)
	}
	c := &Creature{
		species:      species,
		table:        table,
		initialLevel: level,
		level:        level,
	}
	if err := c.recalc(); err != nil {
		return nil, err
	}
	c.hp = c.maxHP
	return c, nil
}

func (c *Creature) recalc() error {
	b, err := c.species.StatsAt(c.level)
	if err != nil {
		return err
	}
	c.applyBlock(b)
	return nil
}

func (c *Creature) applyBlock(b stats.Block) {
	c.attack = b.Attack
	c.defense = b.Defense
	c.speed = b.Speed
	c.maxHP = b.MaxHP
}

// Species returns the static descriptor.
func (c *Creature) Species() *data.Species { return c.species }

// Name returns the species name.
func (c *Creature) Name() string { return c.species.Name() }

// Element returns the species element.
func (c *Creature) Element() string { return c.species.Element() }

// Level returns the current level.
func (c *Creature) Level() int { return c.level }

// InitialLevel returns the level the creature was created at.
func (c *Creature) InitialLevel() int { return c.initialLevel }

// HP returns current HP clamped at 0.
func (c *Creature) HP() int { return max(c.hp, 0) }

// MaxHP returns maximum HP at the current level.
func (c *Creature) MaxHP() int { return c.maxHP }

// AttackStat returns the attack stat.
func (c *Creature) AttackStat() int { return c.attack }

// Defense returns the defense stat.
func (c *Creature) Defense() int { return c.defense }

// Speed returns the speed stat; the faster creature strikes first.
func (c *Creature) Speed() int { return c.speed }

// Alive reports hp > 0.
func (c *Creature) Alive() bool { return c.hp > 0 }

// Fainted reports hp <= 0.
func (c *Creature) Fainted() bool { return c.hp <= 0 }

// SetHP overwrites current HP. Values above MaxHP raise MaxHP with it.
func (c *Creature) SetHP(hp int) {
	if hp > c.maxHP {
		c.maxHP = hp
	}
	c.hp = hp
}

// LoseHP subtracts n hit points without clamping.
func (c *Creature) LoseHP(n int) {
	c.hp -= n
}

// Damage returns the raw damage before element effectiveness:
//
//	attack/2 > defense → attack - defense
//	attack > defense   → 5/8·attack - defense/4
//	otherwise          → attack/4
func Damage(attack, defense int) float64 {
	a, d := float64(attack), float64(defense)
	switch {
	case a/2 > d:
		return a - d
	case a > d:
		return 5.0/8.0*a - d/4
	default:
		return a / 4
	}
}

// ComputeAttack returns the HP the defender would lose from this creature's
// attack, without applying it.
func (c *Creature) ComputeAttack(defender *Creature) (int, error) {
	mult, err := c.table.Lookup(c.Element(), defender.Element())
	if err != nil {
		return 0, fmt.Errorf("%s attacking %s: %w", c.Name(), defender.Name(), err)
	}
	return int(math.Ceil(mult * Damage(c.attack, defender.defense))), nil
}

// Attack hits defender: raw damage × effectiveness, rounded up.
func (c *Creature) Attack(defender *Creature) error {
	dmg, err := c.ComputeAttack(defender)
	if err != nil {
		return err
	}
	defender.LoseHP(dmg)
	return nil
}

// LevelUp raises the level by one and recomputes stats. Damage already taken
// is preserved: new hp = new max - (old max - old hp).
func (c *Creature) LevelUp() error {
	taken := c.maxHP - c.hp
	c.level++
	if err := c.recalc(); err != nil {
		c.level--
		return fmt.Errorf("level up %s: %w", c.Name(), err)
	}
	c.hp = c.maxHP - taken
	return nil
}

// ReadyToEvolve reports whether the creature has gained a level since
// creation and its species has an evolution.
func (c *Creature) ReadyToEvolve() bool {
	return c.species.Evolution() != nil && c.level > c.initialLevel
}

// Evolve builds a new creature of the evolved species at the current level.
// The receiver is left untouched and should be discarded by the caller.
// HP carries over: evolved hp = old hp + (evolved max - old max).
func (c *Creature) Evolve() (*Creature, error) {
	if !c.ReadyToEvolve() {
		return nil, fmt.Errorf("%s: %w", c.Name(), ErrNoEvolution)
	}
	evolved, err := NewCreature(c.species.Evolution(), c.level, c.table)
	if err != nil {
		return nil, fmt.Errorf("evolving %s: %w", c.Name(), err)
	}
	evolved.SetHP(c.hp + (evolved.maxHP - c.maxHP))
	return evolved, nil
}

// Clone returns an independent copy with identical state.
func (c *Creature) Clone() *Creature {
	cp := *c
	return &cp
}

func (c *Creature) String() string {
	return fmt.Sprintf("LV.%d %s, %d/%d HP", c.level, c.Name(), c.HP(), c.maxHP)
}
