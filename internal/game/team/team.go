package team

import (
	"fmt"
	"strings"

	"github.com/udisondev/monbattle/internal/model"
)

// Team is an ordering container plus the snapshot taken when it was built.
type Team struct {
	// Lives is carried for ladder wrappers; battles never read it.
	Lives int

	mode     Mode
	key      SortKey
	ordering Ordering

	// snapshot holds private copies in insertion order.
	snapshot []*model.Creature
}

// New builds a team from creatures in the given order and freezes a
// snapshot of their current state. The team size must be within
// [1, Capacity].
func New(mode Mode, key SortKey, creatures []*model.Creature) (*Team, error) {
	if len(creatures) < 1 || len(creatures) > Capacity {
		return nil, fmt.Errorf("%w: %d, want 1..%d", ErrInvalidTeamSize, len(creatures), Capacity)
	}

	t := &Team{
		mode:     mode,
		key:      key,
		snapshot: make([]*model.Creature, len(creatures)),
	}
	for i, c := range creatures {
		t.snapshot[i] = c.Clone()
	}

	ord, err := NewOrdering(mode, key)
	if err != nil {
		return nil, err
	}
	for _, c := range creatures {
		if err := ord.Add(c); err != nil {
			return nil, err
		}
	}
	t.ordering = ord
	return t, nil
}

// Mode returns the ordering policy.
func (t *Team) Mode() Mode { return t.mode }

// SortKey returns the stat used in ModeOptimise.
func (t *Team) SortKey() SortKey { return t.key }

// Add returns a creature to the team.
func (t *Team) Add(c *model.Creature) error {
	if err := t.ordering.Add(c); err != nil {
		return fmt.Errorf("adding %s to %s team: %w", c.Name(), t.mode, err)
	}
	return nil
}

// Retrieve removes the next creature according to the policy.
func (t *Team) Retrieve() (*model.Creature, error) {
	c, err := t.ordering.Retrieve()
	if err != nil {
		return nil, fmt.Errorf("retrieving from %s team: %w", t.mode, err)
	}
	return c, nil
}

// Special applies the policy-specific rearrangement.
func (t *Team) Special() { t.ordering.Special() }

// Members lists the creatures in retrieval order.
func (t *Team) Members() []*model.Creature { return t.ordering.Members() }

// Len returns the number of creatures currently in the team.
func (t *Team) Len() int { return t.ordering.Len() }

// IsEmpty reports whether no creatures remain.
func (t *Team) IsEmpty() bool { return t.ordering.IsEmpty() }

// Size returns the number of creatures the team was built with.
func (t *Team) Size() int { return len(t.snapshot) }

// Regenerate discards the current contents and refills the team with fresh
// copies of the snapshot, in original insertion order. For ModeOptimise the
// direction resets to descending regardless of earlier Special calls.
func (t *Team) Regenerate() error {
	ord, err := NewOrdering(t.mode, t.key)
	if err != nil {
		return err
	}
	for _, c := range t.snapshot {
		if err := ord.Add(c.Clone()); err != nil {
			return fmt.Errorf("regenerating %s team: %w", t.mode, err)
		}
	}
	t.ordering = ord
	return nil
}

func (t *Team) String() string {
	members := t.Members()
	parts := make([]string, len(members))
	for i, c := range members {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s[%s]", t.mode, strings.Join(parts, "; "))
}
