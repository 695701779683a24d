package system

import (
	"github.com/l1jgo/entitysync/internal/binding"
	"github.com/l1jgo/entitysync/internal/core/ecs"
)

// entityView adapts one ECS entity to binding.Entity. Lookups go straight to
// the world's stores, so a view always reflects the entity's live components.
type entityView struct {
	world *ecs.World
	id    ecs.EntityID
}

func (v entityView) Component(t binding.ComponentType) (any, bool) {
	return v.world.Component(v.id, t.Type())
}

// Handle builds the binding handle for id with its current stamp.
func Handle(world *ecs.World, id ecs.EntityID) binding.Handle {
	return binding.Handle{
		ID:     binding.EntityID(id),
		Stamp:  world.Stamp(id),
		Entity: entityView{world: world, id: id},
	}
}

// ComponentResolver maps YAML component names to binding types using the
// world's registry.
func ComponentResolver(world *ecs.World) func(name string) (binding.ComponentType, bool) {
	return func(name string) (binding.ComponentType, bool) {
		t, ok := world.Registry().TypeByName(name)
		if !ok {
			return binding.ComponentType{}, false
		}
		return binding.TypeFor(t), true
	}
}
