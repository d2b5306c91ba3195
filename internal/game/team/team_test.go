package team

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/monbattle/internal/data"
	"github.com/udisondev/monbattle/internal/model"
)

type fixture struct {
	reg *data.Registry
	tbl *data.Effectiveness
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tbl, err := data.NewEffectiveness([]string{"Normal"}, []float64{1})
	require.NoError(t, err)

	defs := make([]data.SpeciesDef, 0, 8)
	for i, id := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		defs = append(defs, data.SpeciesDef{
			ID: id, Name: id, Element: "Normal", Spawnable: i%2 == 0,
			Stats: &data.FixedStatsDef{Attack: 10 + i, Defense: 20 - i, Speed: i, MaxHP: 100},
		})
	}
	defs = append(defs, data.SpeciesDef{
		ID: "grower", Name: "Grower", Element: "Normal",
		Formulas: &data.FormulaStatsDef{Attack: "level", Defense: "level", Speed: "level", MaxHP: "level 10 *"},
	})
	reg, err := data.NewRegistry(defs)
	require.NoError(t, err)
	return fixture{reg: reg, tbl: tbl}
}

func (f fixture) creature(t *testing.T, id string) *model.Creature {
	t.Helper()
	sp, err := f.reg.Get(id)
	require.NoError(t, err)
	c, err := model.NewCreature(sp, 1, f.tbl)
	require.NoError(t, err)
	return c
}

func (f fixture) withHP(t *testing.T, id string, hp int) *model.Creature {
	t.Helper()
	c := f.creature(t, id)
	c.SetHP(hp)
	return c
}

func names(cs []*model.Creature) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name()
	}
	return out
}

func drain(t *testing.T, tm *Team) []string {
	t.Helper()
	var out []string
	for !tm.IsEmpty() {
		c, err := tm.Retrieve()
		require.NoError(t, err)
		out = append(out, c.Name())
	}
	return out
}

func build(t *testing.T, f fixture, mode Mode, ids ...string) *Team {
	t.Helper()
	cs := make([]*model.Creature, len(ids))
	for i, id := range ids {
		cs[i] = f.creature(t, id)
	}
	tm, err := New(mode, SortHP, cs)
	require.NoError(t, err)
	return tm
}

func TestFront_RetrieveIsLIFO(t *testing.T) {
	f := newFixture(t)
	tm := build(t, f, ModeFront, "A", "B", "C")

	assert.Equal(t, []string{"C", "B", "A"}, names(tm.Members()))
	assert.Equal(t, []string{"C", "B", "A"}, drain(t, tm))
}

func TestBack_RetrieveIsFIFO(t *testing.T) {
	f := newFixture(t)
	tm := build(t, f, ModeBack, "A", "B", "C")

	assert.Equal(t, []string{"A", "B", "C"}, drain(t, tm))
}

func TestOptimise_SortsByHP(t *testing.T) {
	f := newFixture(t)
	tm, err := New(ModeOptimise, SortHP, []*model.Creature{
		f.withHP(t, "A", 10),
		f.withHP(t, "B", 30),
		f.withHP(t, "C", 20),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"B", "C", "A"}, names(tm.Members()))

	tm.Special()
	assert.Equal(t, []string{"A", "C", "B"}, drain(t, tm), "ascending after special")
}

func TestOptimise_SpecialTogglesBack(t *testing.T) {
	f := newFixture(t)
	tm, err := New(ModeOptimise, SortHP, []*model.Creature{
		f.withHP(t, "A", 10),
		f.withHP(t, "B", 30),
		f.withHP(t, "C", 20),
	})
	require.NoError(t, err)

	tm.Special()
	tm.Special()
	assert.Equal(t, []string{"B", "C", "A"}, names(tm.Members()))
}

func TestOptimise_AddAfterSpecialUsesCurrentDirection(t *testing.T) {
	f := newFixture(t)
	tm, err := New(ModeOptimise, SortHP, []*model.Creature{
		f.withHP(t, "A", 10),
		f.withHP(t, "B", 30),
	})
	require.NoError(t, err)

	tm.Special() // ascending
	require.NoError(t, tm.Add(f.withHP(t, "C", 20)))
	assert.Equal(t, []string{"A", "C", "B"}, names(tm.Members()))
}

func TestOptimise_TiesKeepInsertionOrder(t *testing.T) {
	f := newFixture(t)
	tm, err := New(ModeOptimise, SortHP, []*model.Creature{
		f.withHP(t, "A", 50),
		f.withHP(t, "B", 50),
		f.withHP(t, "C", 70),
		f.withHP(t, "D", 50),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "A", "B", "D"}, names(tm.Members()))

	tm.Special()
	assert.Equal(t, []string{"A", "B", "D", "C"}, names(tm.Members()))
}

func TestOptimise_SortKeys(t *testing.T) {
	f := newFixture(t)

	// fixture stats: attack 10+i, defense 20-i, speed i for A..G
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortAttack, []string{"C", "B", "A"}},
		{SortDefense, []string{"A", "B", "C"}},
		{SortSpeed, []string{"C", "B", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			tm, err := New(ModeOptimise, tt.key, []*model.Creature{
				f.creature(t, "A"), f.creature(t, "C"), f.creature(t, "B"),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(tm.Members()))
		})
	}
}

func TestOptimise_SortByLevel(t *testing.T) {
	f := newFixture(t)

	low := f.creature(t, "grower")
	high := f.creature(t, "grower")
	require.NoError(t, high.LevelUp())
	require.NoError(t, high.LevelUp())

	tm, err := New(ModeOptimise, SortLevel, []*model.Creature{low, high})
	require.NoError(t, err)

	first, err := tm.Retrieve()
	require.NoError(t, err)
	assert.Same(t, high, first)
}

func TestFront_Special(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		ids  []string
		want []string // retrieval order after special
	}{
		// retrieval before: E D C B A
		{"five", []string{"A", "B", "C", "D", "E"}, []string{"C", "D", "E", "B", "A"}},
		// retrieval before: C B A
		{"three", []string{"A", "B", "C"}, []string{"A", "B", "C"}},
		// retrieval before: B A
		{"two", []string{"A", "B"}, []string{"A", "B"}},
		{"one", []string{"A"}, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := build(t, f, ModeFront, tt.ids...)
			tm.Special()
			assert.Equal(t, tt.want, names(tm.Members()))
		})
	}
}

func TestBack_Special(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"odd", []string{"A", "B", "C", "D", "E"}, []string{"E", "D", "C", "A", "B"}},
		{"even", []string{"A", "B", "C", "D"}, []string{"D", "C", "A", "B"}},
		{"two", []string{"A", "B"}, []string{"B", "A"}},
		{"one", []string{"A"}, []string{"A"}},
		{"six", []string{"A", "B", "C", "D", "E", "F"}, []string{"F", "E", "D", "A", "B", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := build(t, f, ModeBack, tt.ids...)
			tm.Special()
			assert.Equal(t, tt.want, drain(t, tm))
		})
	}
}

func TestSpecial_EmptyTeamIsNoop(t *testing.T) {
	f := newFixture(t)
	for _, mode := range []Mode{ModeFront, ModeBack, ModeOptimise} {
		t.Run(mode.String(), func(t *testing.T) {
			tm := build(t, f, mode, "A")
			_, err := tm.Retrieve()
			require.NoError(t, err)

			assert.NotPanics(t, tm.Special)
			assert.True(t, tm.IsEmpty())
		})
	}
}

func TestAdd_Full(t *testing.T) {
	f := newFixture(t)
	for _, mode := range []Mode{ModeFront, ModeBack, ModeOptimise} {
		t.Run(mode.String(), func(t *testing.T) {
			tm := build(t, f, mode, "A", "B", "C", "D", "E", "F")
			assert.Equal(t, Capacity, tm.Len())

			err := tm.Add(f.creature(t, "G"))
			assert.ErrorIs(t, err, ErrTeamFull)
			assert.Equal(t, Capacity, tm.Len())
		})
	}
}

func TestRetrieve_Empty(t *testing.T) {
	f := newFixture(t)
	for _, mode := range []Mode{ModeFront, ModeBack, ModeOptimise} {
		t.Run(mode.String(), func(t *testing.T) {
			tm := build(t, f, mode, "A")
			_, err := tm.Retrieve()
			require.NoError(t, err)

			_, err = tm.Retrieve()
			assert.ErrorIs(t, err, ErrEmptyTeam)
		})
	}
}

func TestNew_InvalidSize(t *testing.T) {
	f := newFixture(t)

	_, err := New(ModeFront, SortHP, nil)
	assert.ErrorIs(t, err, ErrInvalidTeamSize)

	seven := make([]*model.Creature, 7)
	for i := range seven {
		seven[i] = f.creature(t, "A")
	}
	_, err = New(ModeBack, SortHP, seven)
	assert.ErrorIs(t, err, ErrInvalidTeamSize)
}

func TestNewOrdering_Invalid(t *testing.T) {
	_, err := NewOrdering(Mode(9), SortHP)
	assert.Error(t, err)

	_, err = NewOrdering(ModeOptimise, SortKey(42))
	assert.Error(t, err)
}

func TestRegenerate_RestoresSnapshot(t *testing.T) {
	f := newFixture(t)

	for _, mode := range []Mode{ModeFront, ModeBack, ModeOptimise} {
		t.Run(mode.String(), func(t *testing.T) {
			a := f.withHP(t, "A", 40)
			b := f.withHP(t, "B", 90)
			c := f.withHP(t, "C", 60)
			tm, err := New(mode, SortHP, []*model.Creature{a, b, c})
			require.NoError(t, err)
			before := names(tm.Members())

			// battle-style mutation: take, damage, level, swap back
			first, err := tm.Retrieve()
			require.NoError(t, err)
			first.LoseHP(25)
			require.NoError(t, first.LevelUp())
			require.NoError(t, tm.Add(first))
			tm.Special()
			_, err = tm.Retrieve()
			require.NoError(t, err)

			require.NoError(t, tm.Regenerate())

			assert.Equal(t, before, names(tm.Members()))
			hp := map[string]int{}
			for _, m := range tm.Members() {
				hp[m.Name()] = m.HP()
				assert.Equal(t, 1, m.Level())
			}
			assert.Equal(t, map[string]int{"A": 40, "B": 90, "C": 60}, hp)
			assert.Equal(t, 3, tm.Len())
		})
	}
}

func TestRegenerate_AfterEvolution(t *testing.T) {
	tbl, err := data.NewEffectiveness([]string{"Normal"}, []float64{1})
	require.NoError(t, err)
	reg, err := data.NewRegistry([]data.SpeciesDef{
		{ID: "egg", Name: "Egg", Element: "Normal", Evolution: "chick",
			Stats: &data.FixedStatsDef{Attack: 1, Defense: 1, Speed: 1, MaxHP: 10}},
		{ID: "chick", Name: "Chick", Element: "Normal",
			Stats: &data.FixedStatsDef{Attack: 2, Defense: 2, Speed: 2, MaxHP: 20}},
	})
	require.NoError(t, err)
	egg, err := reg.Get("egg")
	require.NoError(t, err)

	cs, err := SelectProvided([]*data.Species{egg}, 1, tbl)
	require.NoError(t, err)
	tm, err := New(ModeBack, SortHP, cs)
	require.NoError(t, err)

	active, err := tm.Retrieve()
	require.NoError(t, err)
	require.NoError(t, active.LevelUp())
	evolved, err := active.Evolve()
	require.NoError(t, err)
	require.NoError(t, tm.Add(evolved))
	assert.Equal(t, []string{"Chick"}, names(tm.Members()))

	require.NoError(t, tm.Regenerate())
	members := tm.Members()
	require.Len(t, members, 1)
	assert.Equal(t, "Egg", members[0].Name())
	assert.Equal(t, 1, members[0].Level())
	assert.Equal(t, 10, members[0].HP())
}

func TestRegenerate_OptimiseResetsDirection(t *testing.T) {
	f := newFixture(t)
	tm, err := New(ModeOptimise, SortHP, []*model.Creature{
		f.withHP(t, "A", 10),
		f.withHP(t, "B", 30),
		f.withHP(t, "C", 20),
	})
	require.NoError(t, err)

	tm.Special()
	require.NoError(t, tm.Regenerate())

	assert.True(t, tm.ordering.(*optimiseOrdering).descending)
	assert.Equal(t, []string{"B", "C", "A"}, drain(t, tm))
}

func TestRegenerate_CopiesAreFresh(t *testing.T) {
	f := newFixture(t)
	tm := build(t, f, ModeBack, "A")

	require.NoError(t, tm.Regenerate())
	first := tm.Members()[0]
	first.LoseHP(50)

	require.NoError(t, tm.Regenerate())
	assert.Equal(t, 100, tm.Members()[0].HP(), "snapshot must not alias handed-out creatures")
}

func TestSelectProvided_PreservesOrder(t *testing.T) {
	f := newFixture(t)
	var species []*data.Species
	for _, id := range []string{"C", "A", "B"} {
		sp, err := f.reg.Get(id)
		require.NoError(t, err)
		species = append(species, sp)
	}

	cs, err := SelectProvided(species, 3, f.tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, names(cs))
	for _, c := range cs {
		assert.Equal(t, 3, c.Level())
	}

	front, err := New(ModeFront, SortHP, cs)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, names(front.Members()))

	_, err = SelectProvided(nil, 1, f.tbl)
	assert.ErrorIs(t, err, ErrInvalidTeamSize)
}

func TestSelectRandom(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewPCG(7, 11))

	for range 50 {
		cs, err := SelectRandom(rng, f.reg, 1, f.tbl)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(cs), 1)
		require.LessOrEqual(t, len(cs), Capacity)
		for _, c := range cs {
			assert.True(t, c.Species().Spawnable(), "%s is not spawnable", c.Name())
		}
	}
}

func TestSelectRandom_Deterministic(t *testing.T) {
	f := newFixture(t)

	a, err := SelectRandom(rand.New(rand.NewPCG(1, 2)), f.reg, 1, f.tbl)
	require.NoError(t, err)
	b, err := SelectRandom(rand.New(rand.NewPCG(1, 2)), f.reg, 1, f.tbl)
	require.NoError(t, err)

	assert.Equal(t, names(a), names(b))
}

func TestParseModeAndSortKey(t *testing.T) {
	m, err := ParseMode("OPTIMISE")
	require.NoError(t, err)
	assert.Equal(t, ModeOptimise, m)

	_, err = ParseMode("sideways")
	assert.Error(t, err)

	k, err := ParseSortKey("Speed")
	require.NoError(t, err)
	assert.Equal(t, SortSpeed, k)

	_, err = ParseSortKey("luck")
	assert.Error(t, err)

	assert.Equal(t, "back", ModeBack.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
