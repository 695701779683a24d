package system

import (
	"math"
	"time"

	"github.com/l1jgo/entitysync/internal/component"
	"github.com/l1jgo/entitysync/internal/core/ecs"
	coresys "github.com/l1jgo/entitysync/internal/core/system"
)

// OrientSystem points the sprite of every moving entity along its velocity and
// y-sorts it: entities further down the plane draw on a higher layer.
// Writes are in place, like MovementSystem's, so stamps stay put.
// Phase 2 (PostUpdate), registered after MovementSystem.
type OrientSystem struct {
	positions  *ecs.PtrComponentStore[component.Position]
	velocities *ecs.PtrComponentStore[component.Velocity]
	sprites    *ecs.PtrComponentStore[component.Sprite]
}

func NewOrientSystem(world *ecs.World) *OrientSystem {
	return &OrientSystem{
		positions:  ecs.Register[component.Position](world),
		velocities: ecs.Register[component.Velocity](world),
		sprites:    ecs.Register[component.Sprite](world),
	}
}

func (s *OrientSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *OrientSystem) Update(_ time.Duration) {
	ecs.Each3(s.positions, s.velocities, s.sprites, func(_ ecs.EntityID, p *component.Position, v *component.Velocity, sp *component.Sprite) {
		if g := heading(v.DX, v.DY); g != "" {
			sp.Glyph = g
		}
		sp.Layer = int(math.Floor(p.Y))
	})
}

// heading returns the arrow glyph for the dominant axis of (dx, dy), or ""
// for a zero velocity.
func heading(dx, dy float64) string {
	switch {
	case dx == 0 && dy == 0:
		return ""
	case math.Abs(dx) >= math.Abs(dy) && dx > 0:
		return ">"
	case math.Abs(dx) >= math.Abs(dy):
		return "<"
	case dy > 0:
		return "v"
	default:
		return "^"
	}
}
