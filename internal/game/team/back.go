package team

import (
	"slices"

	"github.com/udisondev/monbattle/internal/model"
)

// backOrdering is a queue: items[0] is the head.
type backOrdering struct {
	items []*model.Creature
}

func (b *backOrdering) Add(c *model.Creature) error {
	if len(b.items) >= Capacity {
		return ErrTeamFull
	}
	b.items = append(b.items, c)
	return nil
}

func (b *backOrdering) Retrieve() (*model.Creature, error) {
	if len(b.items) == 0 {
		return nil, ErrEmptyTeam
	}
	c := b.items[0]
	b.items[0] = nil
	b.items = b.items[1:]
	return c, nil
}

// Special splits head→tail into halves of n/2 and n-n/2 (the middle of an
// odd team goes to the second half), then places the reversed second half in
// front of the first.
func (b *backOrdering) Special() {
	n := len(b.items)
	half := n / 2

	out := make([]*model.Creature, 0, n)
	second := slices.Clone(b.items[half:])
	slices.Reverse(second)
	out = append(out, second...)
	out = append(out, b.items[:half]...)
	b.items = out
}

func (b *backOrdering) Members() []*model.Creature {
	return slices.Clone(b.items)
}

func (b *backOrdering) Len() int      { return len(b.items) }
func (b *backOrdering) IsEmpty() bool { return len(b.items) == 0 }
