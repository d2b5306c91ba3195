package team

import (
	"slices"

	"github.com/udisondev/monbattle/internal/model"
)

// frontOrdering is a stack: the head is the end of items.
type frontOrdering struct {
	items []*model.Creature
}

func (f *frontOrdering) Add(c *model.Creature) error {
	if len(f.items) >= Capacity {
		return ErrTeamFull
	}
	f.items = append(f.items, c)
	return nil
}

func (f *frontOrdering) Retrieve() (*model.Creature, error) {
	n := len(f.items)
	if n == 0 {
		return nil, ErrEmptyTeam
	}
	c := f.items[n-1]
	f.items[n-1] = nil
	f.items = f.items[:n-1]
	return c, nil
}

// Special reverses the (up to) three creatures nearest the head.
func (f *frontOrdering) Special() {
	n := len(f.items)
	k := min(3, n)
	slices.Reverse(f.items[n-k:])
}

func (f *frontOrdering) Members() []*model.Creature {
	out := slices.Clone(f.items)
	slices.Reverse(out)
	return out
}

func (f *frontOrdering) Len() int      { return len(f.items) }
func (f *frontOrdering) IsEmpty() bool { return len(f.items) == 0 }
