package team

import (
	"cmp"
	"slices"

	"github.com/udisondev/monbattle/internal/model"
)

type optimiseEntry struct {
	c   *model.Creature
	seq uint64
}

// optimiseOrdering keeps entries sorted by key; entries[0] is retrieved next.
// Equal keys keep insertion order in both directions.
type optimiseOrdering struct {
	key        SortKey
	descending bool
	entries    []optimiseEntry
	nextSeq    uint64
}

func (o *optimiseOrdering) compare(x, y optimiseEntry) int {
	kx, ky := o.key.Value(x.c), o.key.Value(y.c)
	if kx != ky {
		if o.descending {
			return cmp.Compare(ky, kx)
		}
		return cmp.Compare(kx, ky)
	}
	return cmp.Compare(x.seq, y.seq)
}

func (o *optimiseOrdering) Add(c *model.Creature) error {
	if len(o.entries) >= Capacity {
		return ErrTeamFull
	}
	e := optimiseEntry{c: c, seq: o.nextSeq}
	o.nextSeq++

	i, _ := slices.BinarySearchFunc(o.entries, e, o.compare)
	o.entries = slices.Insert(o.entries, i, e)
	return nil
}

func (o *optimiseOrdering) Retrieve() (*model.Creature, error) {
	if len(o.entries) == 0 {
		return nil, ErrEmptyTeam
	}
	c := o.entries[0].c
	o.entries = slices.Delete(o.entries, 0, 1)
	return c, nil
}

// Special flips the sort direction and re-sorts.
func (o *optimiseOrdering) Special() {
	o.descending = !o.descending
	slices.SortFunc(o.entries, o.compare)
}

func (o *optimiseOrdering) Members() []*model.Creature {
	out := make([]*model.Creature, len(o.entries))
	for i, e := range o.entries {
		out[i] = e.c
	}
	return out
}

func (o *optimiseOrdering) Len() int      { return len(o.entries) }
func (o *optimiseOrdering) IsEmpty() bool { return len(o.entries) == 0 }
