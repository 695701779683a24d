package binding

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ DX, DY float64 }
type health struct{ HP int }

var (
	positionType = TypeOf[position]()
	velocityType = TypeOf[velocity]()
	healthType   = TypeOf[health]()
)

type fakeEntity struct {
	comps map[ComponentType]any
}

func newEntity(comps ...any) *fakeEntity {
	e := &fakeEntity{comps: make(map[ComponentType]any, len(comps))}
	for _, c := range comps {
		e.comps[TypeFor(reflect.TypeOf(c))] = c
	}
	return e
}

func (e *fakeEntity) Component(t ComponentType) (any, bool) {
	c, ok := e.comps[t]
	return c, ok
}

func (e *fakeEntity) set(c any) {
	e.comps[TypeFor(reflect.TypeOf(c))] = c
}

func (e *fakeEntity) unset(t ComponentType) {
	delete(e.comps, t)
}

// sim plays the owning simulation: it bumps stamps on structural changes and
// stages every live entity each tick.
type sim struct {
	t        *testing.T
	coord    *Coordinator
	entities map[EntityID]*fakeEntity
	stamps   map[EntityID]uint64
	order    []EntityID
}

func newSim(t *testing.T) *sim {
	return &sim{
		t:        t,
		coord:    NewCoordinator(nil, nil),
		entities: make(map[EntityID]*fakeEntity),
		stamps:   make(map[EntityID]uint64),
	}
}

func (s *sim) spawn(id EntityID, comps ...any) *fakeEntity {
	e := newEntity(comps...)
	s.entities[id] = e
	s.stamps[id] = 1
	s.order = append(s.order, id)
	return e
}

func (s *sim) add(id EntityID, c any) {
	s.entities[id].set(c)
	s.stamps[id]++
}

func (s *sim) drop(id EntityID, t ComponentType) {
	s.entities[id].unset(t)
	s.stamps[id]++
}

func (s *sim) destroy(id EntityID) {
	delete(s.entities, id)
	delete(s.stamps, id)
	require.NoError(s.t, s.coord.Remove(id))
}

func (s *sim) tick() Tick {
	for _, id := range s.order {
		e, ok := s.entities[id]
		if !ok {
			continue
		}
		require.NoError(s.t, s.coord.Stage(Handle{ID: id, Stamp: s.stamps[id], Entity: e}))
	}
	require.NoError(s.t, s.coord.Commit())
	tick, err := s.coord.SignalTick()
	require.NoError(s.t, err)
	return tick
}
