package system

import (
	"time"

	"github.com/l1jgo/entitysync/internal/binding"
	"github.com/l1jgo/entitysync/internal/component"
	"github.com/l1jgo/entitysync/internal/core/ecs"
	"github.com/l1jgo/entitysync/internal/core/event"
	coresys "github.com/l1jgo/entitysync/internal/core/system"
	"go.uber.org/zap"
)

// SyncSystem is the per-entity renderer hook: every tick it stages each
// render-eligible entity (one carrying component.Synced) into the
// coordinator. Entities that lose the marker are removed, and destroyed
// entities are removed as soon as the world publishes ecs.Destroyed.
// Phase 3 (Sync).
type SyncSystem struct {
	world  *ecs.World
	coord  *binding.Coordinator
	synced *ecs.PtrComponentStore[component.Synced]
	sub    *event.Subscription
	log    *zap.Logger
	staged int
}

func NewSyncSystem(world *ecs.World, coord *binding.Coordinator, bus *event.Bus, log *zap.Logger) *SyncSystem {
	s := &SyncSystem{
		world:  world,
		coord:  coord,
		synced: ecs.Register[component.Synced](world),
		log:    log,
	}
	s.sub = event.Subscribe(bus, s.onDestroyed)
	return s
}

func (s *SyncSystem) Phase() coresys.Phase { return coresys.PhaseSync }

func (s *SyncSystem) Update(_ time.Duration) {
	s.staged = 0
	s.world.Each(func(id ecs.EntityID) {
		if !s.synced.Has(id) {
			s.remove(id)
			return
		}
		if err := s.coord.Stage(Handle(s.world, id)); err != nil {
			s.log.Warn("stage entity", zap.Uint64("entity", uint64(id)), zap.Error(err))
			return
		}
		s.staged++
	})
}

// Staged returns how many entities the last Update staged.
func (s *SyncSystem) Staged() int { return s.staged }

func (s *SyncSystem) onDestroyed(ev ecs.Destroyed) {
	s.remove(ev.ID)
}

func (s *SyncSystem) remove(id ecs.EntityID) {
	if err := s.coord.Remove(binding.EntityID(id)); err != nil {
		s.log.Warn("remove entity", zap.Uint64("entity", uint64(id)), zap.Error(err))
	}
}

// Close stops listening for destroyed entities.
func (s *SyncSystem) Close() {
	s.sub.Cancel()
}
