package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatorProtocol(t *testing.T) {
	c := NewCoordinator(nil, nil)
	e := newEntity(&position{})

	_, err := c.SignalTick()
	assert.ErrorIs(t, err, ErrNotCommitted)

	require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 1, Entity: e}))
	require.NoError(t, c.Commit())

	assert.ErrorIs(t, c.Stage(Handle{ID: 2, Stamp: 1, Entity: e}), ErrTickCommitted)
	assert.ErrorIs(t, c.Remove(1), ErrTickCommitted)
	assert.ErrorIs(t, c.Commit(), ErrTickCommitted)

	tick, err := c.SignalTick()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tick.Seq)
	assert.Equal(t, tick, c.Tick())

	require.NoError(t, c.Stage(Handle{ID: 2, Stamp: 1, Entity: e}))
}

func TestCoordinatorStageRejectsNilEntity(t *testing.T) {
	c := NewCoordinator(nil, nil)
	assert.ErrorIs(t, c.Stage(Handle{ID: 1}), ErrNilEntity)
}

func TestCoordinatorReadersSeeOnlyCommittedPopulation(t *testing.T) {
	c := NewCoordinator(nil, nil)
	e := newEntity(&position{})

	require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 1, Entity: e}))
	assert.Equal(t, 0, c.Snapshot().Len())
	assert.Equal(t, uint64(0), c.Snapshot().Version())
	assert.Equal(t, 1, c.Staged())

	require.NoError(t, c.Commit())
	assert.Equal(t, 1, c.Snapshot().Len())

	old := c.Snapshot()
	_, err := c.SignalTick()
	require.NoError(t, err)

	require.NoError(t, c.Stage(Handle{ID: 2, Stamp: 1, Entity: e}))
	assert.Equal(t, 1, c.Snapshot().Len())
	assert.Same(t, old, c.Snapshot())
}

func TestCoordinatorCommitWithoutChangesKeepsVersion(t *testing.T) {
	c := NewCoordinator(nil, nil)
	e := newEntity(&position{})

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 1, Entity: e}))
		require.NoError(t, c.Commit())
		_, err := c.SignalTick()
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(1), c.Snapshot().Version())

	require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 2, Entity: e}))
	require.NoError(t, c.Commit())
	assert.Equal(t, uint64(2), c.Snapshot().Version())
	h, ok := c.Snapshot().Get(1)
	require.True(t, ok)
	assert.Equal(t, uint64(2), h.Stamp)
}

func TestCoordinatorRemove(t *testing.T) {
	c := NewCoordinator(nil, nil)
	e := newEntity(&position{})

	for id := EntityID(1); id <= 3; id++ {
		require.NoError(t, c.Stage(Handle{ID: id, Stamp: 1, Entity: e}))
	}
	require.NoError(t, c.Commit())
	_, err := c.SignalTick()
	require.NoError(t, err)

	require.NoError(t, c.Remove(2))
	require.NoError(t, c.Remove(99))
	require.NoError(t, c.Commit())

	assert.Equal(t, []EntityID{1, 3}, c.Snapshot().IDs())
	_, ok := c.Snapshot().Get(2)
	assert.False(t, ok)
}

func TestCoordinatorRemoveAndRestageInOneTick(t *testing.T) {
	c := NewCoordinator(nil, nil)
	e := newEntity(&position{})

	require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 1, Entity: e}))
	require.NoError(t, c.Stage(Handle{ID: 2, Stamp: 1, Entity: e}))
	require.NoError(t, c.Commit())
	_, err := c.SignalTick()
	require.NoError(t, err)

	require.NoError(t, c.Remove(1))
	require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 5, Entity: e}))
	require.NoError(t, c.Commit())

	assert.Equal(t, []EntityID{1, 2}, c.Snapshot().IDs())
	h, _ := c.Snapshot().Get(1)
	assert.Equal(t, uint64(5), h.Stamp)
}

func TestCoordinatorClose(t *testing.T) {
	c := NewCoordinator(nil, nil)
	e := newEntity(&position{})
	require.NoError(t, c.Stage(Handle{ID: 1, Stamp: 1, Entity: e}))
	require.NoError(t, c.Commit())

	calls := 0
	sub := c.Subscribe(func(Tick) { calls++ })
	c.Close()
	c.Close()

	assert.False(t, sub.Active())
	assert.Equal(t, 0, c.Subscribers())
	assert.ErrorIs(t, c.Stage(Handle{ID: 2, Stamp: 1, Entity: e}), ErrClosed)
	assert.ErrorIs(t, c.Commit(), ErrClosed)
	_, err := c.SignalTick()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1, c.Snapshot().Len())
}

func TestCoordinatorCloseInsideTickCallback(t *testing.T) {
	s := newSim(t)
	e := s.spawn(1, &position{})
	s.coord.Subscribe(func(Tick) { s.coord.Close() })

	tick := s.tick()
	assert.Equal(t, uint64(1), tick.Seq)

	assert.ErrorIs(t, s.coord.Stage(Handle{ID: 2, Stamp: 1, Entity: e}), ErrClosed)
	assert.ErrorIs(t, s.coord.Remove(1), ErrClosed)
	assert.ErrorIs(t, s.coord.Commit(), ErrClosed)
	_, err := s.coord.SignalTick()
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, uint64(1), s.coord.Snapshot().Version())
	assert.Equal(t, 0, s.coord.Subscribers())
}

func TestCoordinatorFlipFollowsCommit(t *testing.T) {
	s := newSim(t)
	s.spawn(1, &position{X: 1})

	var seen []int
	s.coord.Subscribe(func(Tick) {
		seen = append(seen, s.coord.Snapshot().Len())
	})
	s.tick()
	s.spawn(2, &position{X: 2})
	s.tick()

	assert.Equal(t, []int{1, 2}, seen)
}
