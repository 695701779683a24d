package binding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateMovingSelection(t *testing.T) {
	s := newSim(t)
	posE1, velE1 := &position{X: 1}, &velocity{DX: 1}
	s.spawn(1, posE1, velE1)
	s.spawn(2, &position{X: 2})
	s.tick()

	res := Evaluate(s.coord.Snapshot(), MustQuery(Select("moving", positionType, velocityType)))

	moving := res.Get("moving")
	require.Len(t, moving, 1)
	assert.Equal(t, EntityID(1), moving[0].ID)
	assert.Same(t, posE1, moving[0].Components[0])
	assert.Same(t, velE1, moving[0].Components[1])
}

func TestEvaluateDiscoveryOrder(t *testing.T) {
	s := newSim(t)
	posE1, posE2 := &position{X: 1}, &position{X: 2}
	s.spawn(1, posE1, &velocity{})
	s.spawn(2, posE2)
	s.tick()

	res := Evaluate(s.coord.Snapshot(), MustQuery(Select("all", positionType)))

	all := res.Get("all")
	require.Len(t, all, 2)
	assert.Same(t, posE1, Field[position](all[0], 0))
	assert.Same(t, posE2, Field[position](all[1], 0))
}

func TestEvaluateUnmatchedNameIsEmptyNotAbsent(t *testing.T) {
	s := newSim(t)
	s.spawn(1, &position{})
	s.tick()

	res := Evaluate(s.coord.Snapshot(), MustQuery(Select("alive", healthType)))

	assert.True(t, res.Has("alive"))
	assert.NotNil(t, res.Get("alive"))
	assert.Empty(t, res.Get("alive"))
	assert.Nil(t, res.Get("unknown"))
}

func TestEvaluateEmptySnapshot(t *testing.T) {
	res := Evaluate(nil, MustQuery(Select("a", positionType), Select("b", velocityType)))
	assert.Equal(t, []string{"a", "b"}, res.Names())
	assert.Equal(t, 0, res.Total())
	assert.NotNil(t, res.Get("b"))
}

func TestEvaluateDeduplicatesRepeatedIDs(t *testing.T) {
	e := newEntity(&position{})
	snap := &Snapshot{
		version: 1,
		order:   []Handle{{ID: 7, Stamp: 1, Entity: e}, {ID: 7, Stamp: 1, Entity: e}},
		index:   map[EntityID]int{7: 0},
	}
	res := Evaluate(snap, MustQuery(Select("all", positionType)))
	assert.Len(t, res.Get("all"), 1)
}

func TestExtractIsAllOrNothing(t *testing.T) {
	e := newEntity(&position{X: 3})

	comps, ok := Extract(e, []ComponentType{positionType, velocityType})
	assert.False(t, ok)
	assert.Nil(t, comps)

	comps, ok = Extract(e, []ComponentType{positionType})
	require.True(t, ok)
	assert.Equal(t, 3.0, comps[0].(*position).X)

	_, ok = Extract(nil, []ComponentType{positionType})
	assert.False(t, ok)
}

func TestEvaluateConjunctiveMatchProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newSim(t)
	for id := EntityID(1); id <= 200; id++ {
		var comps []any
		if rng.Intn(2) == 0 {
			comps = append(comps, &position{})
		}
		if rng.Intn(2) == 0 {
			comps = append(comps, &velocity{})
		}
		if rng.Intn(3) == 0 {
			comps = append(comps, &health{})
		}
		s.spawn(id, comps...)
	}
	s.tick()

	q := MustQuery(
		Select("p", positionType),
		Select("pv", positionType, velocityType),
		Select("pvh", positionType, velocityType, healthType),
		Select("hv", healthType, velocityType),
	)
	res := Evaluate(s.coord.Snapshot(), q)

	for _, name := range q.Names() {
		sel, _ := q.Selection(name)
		got := make(map[EntityID]bool)
		for _, b := range res.Get(name) {
			got[b.ID] = true
			require.Len(t, b.Components, len(sel.Types))
		}
		for id, e := range s.entities {
			assert.Equal(t, Matches(e, sel.Types), got[id], "selection %s entity %d", name, id)
		}
	}
}

func TestEachHelpers(t *testing.T) {
	s := newSim(t)
	s.spawn(1, &position{X: 1}, &velocity{DX: 2}, &health{HP: 3})
	s.tick()

	res := Evaluate(s.coord.Snapshot(), MustQuery(
		Select("one", positionType),
		Select("two", positionType, velocityType),
		Select("three", positionType, velocityType, healthType),
	))

	var sum float64
	Each1(res.Get("one"), func(_ EntityID, p *position) { sum += p.X })
	Each2(res.Get("two"), func(_ EntityID, p *position, v *velocity) { sum += p.X + v.DX })
	Each3(res.Get("three"), func(id EntityID, p *position, v *velocity, h *health) {
		assert.Equal(t, EntityID(1), id)
		sum += float64(h.HP)
	})
	assert.Equal(t, 1.0+3.0+3.0, sum)

	assert.Nil(t, Field[velocity](res.Get("one")[0], 0))
	assert.Nil(t, Field[position](res.Get("one")[0], 5))
	assert.Nil(t, Field[position](nil, 0))
}
