// Package team implements the per-team creature containers and their three
// ordering policies.
package team

import (
	"errors"
	"fmt"
	"strings"

	"github.com/udisondev/monbattle/internal/model"
)

// Capacity is the maximum number of creatures a team can hold.
const Capacity = 6

// Team errors.
var (
	ErrTeamFull        = errors.New("team is full")
	ErrEmptyTeam       = errors.New("team is empty")
	ErrInvalidTeamSize = errors.New("invalid team size")
)

// Mode selects the ordering policy.
type Mode int

const (
	ModeFront    Mode = iota // last in, first out
	ModeBack                 // first in, first out
	ModeOptimise             // sorted by a stat
)

var modeNames = [...]string{"front", "back", "optimise"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a case-insensitive name to a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if strings.EqualFold(s, name) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown team mode %q", s)
}

// SortKey is the stat used by ModeOptimise.
type SortKey int

const (
	SortHP SortKey = iota
	SortAttack
	SortDefense
	SortSpeed
	SortLevel
)

var sortKeyNames = [...]string{"hp", "attack", "defense", "speed", "level"}

func (k SortKey) String() string {
	if k < 0 || int(k) >= len(sortKeyNames) {
		return fmt.Sprintf("SortKey(%d)", int(k))
	}
	return sortKeyNames[k]
}

// ParseSortKey converts a case-insensitive name to a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	for i, name := range sortKeyNames {
		if strings.EqualFold(s, name) {
			return SortKey(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort key %q", s)
}

// Value reads the keyed stat from c.
func (k SortKey) Value(c *model.Creature) int {
	switch k {
	case SortAttack:
		return c.AttackStat()
	case SortDefense:
		return c.Defense()
	case SortSpeed:
		return c.Speed()
	case SortLevel:
		return c.Level()
	default:
		return c.HP()
	}
}

// Ordering is a bounded creature container whose add/retrieve order depends
// on the policy.
type Ordering interface {
	// Add inserts c. Returns ErrTeamFull at Capacity.
	Add(c *model.Creature) error
	// Retrieve removes and returns the next creature. Returns ErrEmptyTeam.
	Retrieve() (*model.Creature, error)
	// Special applies the policy-specific rearrangement.
	Special()
	// Members lists creatures in retrieval order without removing them.
	Members() []*model.Creature
	Len() int
	IsEmpty() bool
}

// NewOrdering returns an empty container for mode. key is only used by
// ModeOptimise.
func NewOrdering(mode Mode, key SortKey) (Ordering, error) {
	switch mode {
	case ModeFront:
		return &frontOrdering{}, nil
	case ModeBack:
		return &backOrdering{}, nil
	case ModeOptimise:
		if key < SortHP || key > SortLevel {
			return nil, fmt.Errorf("optimise ordering: unknown sort key %v", key)
		}
		return &optimiseOrdering{key: key, descending: true}, nil
	default:
		return nil, fmt.Errorf("unknown team mode %v", mode)
	}
}
