package ecs

import (
	"reflect"

	"github.com/l1jgo/entitysync/internal/core/event"
)

// Destroyed is published on the world's bus for every entity released by
// FlushDestroyQueue.
type Destroyed struct {
	ID EntityID
}

// World is the top-level ECS container. It owns the entity pool, the component
// registry, per-entity stamps and a deferred destruction queue flushed by
// CleanupSystem each tick.
//
// An entity's stamp starts at 1 and is bumped on every structural change
// (component set or removed), so observers can detect change by value.
type World struct {
	pool         *EntityPool
	registry     *Registry
	stamps       map[EntityID]uint64
	destroyQueue []EntityID
	bus          *event.Bus
}

// NewWorld creates an empty world. bus may be nil when nobody listens for
// destruction.
func NewWorld(bus *event.Bus) *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		stamps:       make(map[EntityID]uint64, 256),
		destroyQueue: make([]EntityID, 0, 64),
		bus:          bus,
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

// Register returns the store for T, creating and registering it on first use.
func Register[T any](w *World) *PtrComponentStore[T] {
	if s, ok := w.registry.Store(reflect.TypeOf((*T)(nil)).Elem()); ok {
		if typed, ok := s.(*PtrComponentStore[T]); ok {
			return typed
		}
	}
	s := NewPtrComponentStore[T]()
	s.touch = w.touch
	w.registry.Register(s)
	return s
}

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	w.stamps[id] = 1
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Len returns the number of live entities.
func (w *World) Len() int { return w.pool.Len() }

// Each visits live entities in creation-slot order.
func (w *World) Each(fn func(EntityID)) {
	w.pool.Each(fn)
}

// Stamp returns the entity's current stamp, or 0 if it is not alive.
func (w *World) Stamp(id EntityID) uint64 {
	return w.stamps[id]
}

// Component looks up the component of type t attached to id.
func (w *World) Component(id EntityID, t reflect.Type) (any, bool) {
	s, ok := w.registry.Store(t)
	if !ok {
		return nil, false
	}
	return s.Lookup(id)
}

func (w *World) touch(id EntityID) {
	if _, ok := w.stamps[id]; ok {
		w.stamps[id]++
	}
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// FlushDestroyQueue destroys all queued entities, clears their components and
// publishes Destroyed for each. Called by CleanupSystem at the end of each tick.
// Returns the number of entities actually destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if !w.pool.Alive(id) {
			continue // queued twice or already gone
		}
		w.registry.RemoveAll(id)
		delete(w.stamps, id)
		w.pool.Destroy(id)
		n++
		if w.bus != nil {
			event.Publish(w.bus, Destroyed{ID: id})
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
