package system

import (
	"time"

	"github.com/l1jgo/entitysync/internal/component"
	"github.com/l1jgo/entitysync/internal/core/ecs"
	coresys "github.com/l1jgo/entitysync/internal/core/system"
	"github.com/l1jgo/entitysync/internal/scripting"
	"go.uber.org/zap"
)

// ScriptSystem runs the Lua on_tick handler and applies the commands it
// returns to the world. Go owns every mutation; Lua only decides.
// Phase 1 (Update).
type ScriptSystem struct {
	world      *ecs.World
	lua        *scripting.Engine
	log        *zap.Logger
	positions  *ecs.PtrComponentStore[component.Position]
	velocities *ecs.PtrComponentStore[component.Velocity]
	sprites    *ecs.PtrComponentStore[component.Sprite]
	synced     *ecs.PtrComponentStore[component.Synced]
	tickCount  uint64
}

func NewScriptSystem(world *ecs.World, lua *scripting.Engine, log *zap.Logger) *ScriptSystem {
	return &ScriptSystem{
		world:      world,
		lua:        lua,
		log:        log,
		positions:  ecs.Register[component.Position](world),
		velocities: ecs.Register[component.Velocity](world),
		sprites:    ecs.Register[component.Sprite](world),
		synced:     ecs.Register[component.Synced](world),
	}
}

func (s *ScriptSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScriptSystem) Update(_ time.Duration) {
	s.tickCount++
	cmds, err := s.lua.RunTick(s.context())
	if err != nil {
		s.log.Error("lua on_tick error", zap.Uint64("tick", s.tickCount), zap.Error(err))
		return
	}
	for _, cmd := range cmds {
		s.apply(cmd)
	}
}

func (s *ScriptSystem) context() scripting.TickContext {
	ctx := scripting.TickContext{
		Tick:     s.tickCount,
		Entities: make([]scripting.EntityInfo, 0, s.world.Len()),
	}
	s.world.Each(func(id ecs.EntityID) {
		info := scripting.EntityInfo{ID: uint64(id), Moving: s.velocities.Has(id)}
		if tag, ok := s.synced.Get(id); ok {
			info.Label = tag.Label
		}
		if p, ok := s.positions.Get(id); ok {
			info.X, info.Y = p.X, p.Y
		}
		ctx.Entities = append(ctx.Entities, info)
	})
	return ctx
}

func (s *ScriptSystem) apply(cmd scripting.Command) {
	if cmd.Type == "spawn" {
		id := s.world.CreateEntity()
		s.synced.Set(id, &component.Synced{Label: cmd.Label})
		s.positions.Set(id, &component.Position{X: cmd.X, Y: cmd.Y})
		if cmd.DX != 0 || cmd.DY != 0 {
			s.velocities.Set(id, &component.Velocity{DX: cmd.DX, DY: cmd.DY})
		}
		if cmd.Glyph != "" {
			s.sprites.Set(id, &component.Sprite{Glyph: cmd.Glyph, Layer: cmd.Layer})
		}
		return
	}

	if !cmd.HasID {
		s.log.Warn("lua command without id", zap.String("type", cmd.Type))
		return
	}
	id := ecs.EntityID(cmd.ID)
	if !s.world.Alive(id) {
		s.log.Debug("lua command on dead entity", zap.String("type", cmd.Type), zap.Uint64("entity", cmd.ID))
		return
	}
	switch cmd.Type {
	case "set_position":
		if p, ok := s.positions.Get(id); ok {
			p.X, p.Y = cmd.X, cmd.Y
		} else {
			s.positions.Set(id, &component.Position{X: cmd.X, Y: cmd.Y})
		}
	case "set_velocity":
		if v, ok := s.velocities.Get(id); ok {
			v.DX, v.DY = cmd.DX, cmd.DY
		} else {
			s.velocities.Set(id, &component.Velocity{DX: cmd.DX, DY: cmd.DY})
		}
	case "remove_velocity":
		s.velocities.Remove(id)
	case "set_sprite":
		s.sprites.Set(id, &component.Sprite{Glyph: cmd.Glyph, Layer: cmd.Layer})
	case "unsync":
		s.synced.Remove(id)
	case "destroy":
		s.world.MarkForDestruction(id)
	default:
		s.log.Warn("unknown lua command", zap.String("type", cmd.Type))
	}
}
