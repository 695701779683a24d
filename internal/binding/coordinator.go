package binding

import (
	"sync/atomic"

	"github.com/l1jgo/entitysync/internal/core/event"
	"go.uber.org/zap"
)

type phase int

const (
	phaseOpen      phase = iota // accepting Stage/Remove
	phaseCommitted              // population frozen, waiting for SignalTick
	phaseClosed
)

func (p phase) String() string {
	switch p {
	case phaseOpen:
		return "open"
	case phaseCommitted:
		return "committed"
	case phaseClosed:
		return "closed"
	}
	return "unknown"
}

// Source is the read side handed to selection sites: the committed snapshot
// and the tick subscription.
type Source interface {
	Snapshot() *Snapshot
	Subscribe(fn func(Tick)) *Subscription
}

// Coordinator owns the entity population store and the tick signal for one
// simulation. Each tick follows Stage/Remove, then Commit, then SignalTick;
// calls out of order return an error and change nothing.
//
// Stage, Remove, Commit, SignalTick and Close belong to the tick goroutine.
// Snapshot and Subscribe may be called from any goroutine.
type Coordinator struct {
	log     *zap.Logger
	signal  *TickSignal
	staged  *population
	current atomic.Pointer[Snapshot]
	phase   phase
	version uint64
}

// NewCoordinator creates a coordinator with an empty committed snapshot.
// bus may be shared with other event types and other coordinators; log may
// be nil.
func NewCoordinator(bus *event.Bus, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		log:    log,
		signal: NewTickSignal(bus),
		staged: newPopulation(),
	}
	c.current.Store(emptySnapshot)
	return c
}

// Stage records the entity's current handle for this tick.
func (c *Coordinator) Stage(h Handle) error {
	if err := c.writable(); err != nil {
		return err
	}
	if h.Entity == nil {
		return ErrNilEntity
	}
	c.staged.stage(h)
	return nil
}

// Remove drops id from the population. Unknown ids are ignored.
func (c *Coordinator) Remove(id EntityID) error {
	if err := c.writable(); err != nil {
		return err
	}
	c.staged.remove(id)
	return nil
}

func (c *Coordinator) writable() error {
	switch c.phase {
	case phaseCommitted:
		return ErrTickCommitted
	case phaseClosed:
		return ErrClosed
	}
	return nil
}

// Commit freezes the staged population. A new Snapshot is published only when
// something was staged or removed since the previous commit.
func (c *Coordinator) Commit() error {
	if err := c.writable(); err != nil {
		return err
	}
	if c.staged.dirty {
		c.version++
		snap := c.staged.freeze(c.version)
		c.current.Store(snap)
		c.log.Debug("population committed",
			zap.Uint64("version", snap.Version()),
			zap.Int("entities", snap.Len()),
		)
	}
	c.phase = phaseCommitted
	return nil
}

// SignalTick flips the tick signal after a Commit and reopens the tick.
// Subscribers run inside Flip; one that closes the coordinator leaves it closed.
func (c *Coordinator) SignalTick() (Tick, error) {
	switch c.phase {
	case phaseOpen:
		return c.signal.Current(), ErrNotCommitted
	case phaseClosed:
		return c.signal.Current(), ErrClosed
	}
	t := c.signal.Flip()
	if c.phase == phaseCommitted {
		c.phase = phaseOpen
	}
	return t, nil
}

// Snapshot returns the last committed population.
func (c *Coordinator) Snapshot() *Snapshot {
	return c.current.Load()
}

// Subscribe registers fn on the tick signal.
func (c *Coordinator) Subscribe(fn func(Tick)) *Subscription {
	return c.signal.Subscribe(fn)
}

// Tick returns the state of the last flip.
func (c *Coordinator) Tick() Tick { return c.signal.Current() }

// Subscribers returns the number of live tick subscriptions.
func (c *Coordinator) Subscribers() int { return c.signal.Subscribers() }

// Staged returns the number of entities in the write-side population.
func (c *Coordinator) Staged() int { return c.staged.len() }

// Close cancels all tick subscriptions. Later writes return ErrClosed; the
// last snapshot stays readable.
func (c *Coordinator) Close() {
	if c.phase == phaseClosed {
		return
	}
	c.phase = phaseClosed
	c.signal.Close()
	c.log.Debug("coordinator closed", zap.Uint64("version", c.version))
}
