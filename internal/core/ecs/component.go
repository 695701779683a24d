package ecs

import "reflect"

// Store is implemented by all component stores so the Registry can bulk-remove
// an entity's data on destroy and resolve components by type at runtime.
type Store interface {
	Type() reflect.Type
	Remove(id EntityID)
	Lookup(id EntityID) (any, bool)
}

// PtrComponentStore is a generic typed map store for ECS components.
// Set and Remove report structural changes through touch so the owning World
// can bump the entity's stamp. Writes through a returned *T are not structural.
type PtrComponentStore[T any] struct {
	data  map[EntityID]*T
	rtype reflect.Type
	touch func(EntityID)
}

func NewPtrComponentStore[T any]() *PtrComponentStore[T] {
	return &PtrComponentStore[T]{
		data:  make(map[EntityID]*T, 256),
		rtype: reflect.TypeOf((*T)(nil)).Elem(),
	}
}

func (s *PtrComponentStore[T]) Type() reflect.Type { return s.rtype }

func (s *PtrComponentStore[T]) Set(id EntityID, c *T) {
	if c == nil {
		s.Remove(id)
		return
	}
	if prev, ok := s.data[id]; ok && prev == c {
		return
	}
	s.data[id] = c
	s.changed(id)
}

func (s *PtrComponentStore[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// Lookup is the untyped form of Get used by runtime selection.
func (s *PtrComponentStore[T]) Lookup(id EntityID) (any, bool) {
	c, ok := s.data[id]
	if !ok {
		return nil, false
	}
	return c, true
}

func (s *PtrComponentStore[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	s.changed(id)
}

func (s *PtrComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *PtrComponentStore[T]) Len() int {
	return len(s.data)
}

func (s *PtrComponentStore[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

func (s *PtrComponentStore[T]) changed(id EntityID) {
	if s.touch != nil {
		s.touch(id)
	}
}
