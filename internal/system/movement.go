package system

import (
	"time"

	"github.com/l1jgo/entitysync/internal/component"
	"github.com/l1jgo/entitysync/internal/core/ecs"
	coresys "github.com/l1jgo/entitysync/internal/core/system"
)

// MovementSystem integrates Velocity into Position. Writes go through the
// component pointers, so they do not change entity stamps; selectors holding
// these pointers see the new values without re-extraction.
// Phase 2 (PostUpdate).
type MovementSystem struct {
	positions  *ecs.PtrComponentStore[component.Position]
	velocities *ecs.PtrComponentStore[component.Velocity]
}

func NewMovementSystem(world *ecs.World) *MovementSystem {
	return &MovementSystem{
		positions:  ecs.Register[component.Position](world),
		velocities: ecs.Register[component.Velocity](world),
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	sec := dt.Seconds()
	ecs.Each2(s.positions, s.velocities, func(_ ecs.EntityID, p *component.Position, v *component.Velocity) {
		p.X += v.DX * sec
		p.Y += v.DY * sec
	})
}
