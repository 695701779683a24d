package ecs

import (
	"reflect"
	"sort"
)

// Registry tracks all component stores by type and name, and supports bulk
// cleanup on entity destroy.
//
// Components are named by their bare type name ("Position"). When two
// registered types share a bare name, that name becomes ambiguous and both
// are reachable only by their qualified name ("<pkgpath>.Position").
type Registry struct {
	stores []Store
	byType map[reflect.Type]Store
	byName map[string][]reflect.Type // bare name -> registered types carrying it
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Store, 0, 16),
		byType: make(map[reflect.Type]Store, 16),
		byName: make(map[string][]reflect.Type, 16),
	}
}

// Register adds a component store to the registry. A second store for the
// same type replaces the first in lookups.
func (r *Registry) Register(store Store) {
	t := store.Type()
	if _, ok := r.byType[t]; !ok {
		r.stores = append(r.stores, store)
		r.byName[t.Name()] = append(r.byName[t.Name()], t)
	} else {
		for i, s := range r.stores {
			if s.Type() == t {
				r.stores[i] = store
			}
		}
	}
	r.byType[t] = store
}

// Store returns the store registered for t.
func (r *Registry) Store(t reflect.Type) (Store, bool) {
	s, ok := r.byType[t]
	return s, ok
}

// TypeByName resolves a component name such as "Position". An ambiguous bare
// name does not resolve; use the qualified name instead.
func (r *Registry) TypeByName(name string) (reflect.Type, bool) {
	if ts := r.byName[name]; len(ts) > 0 {
		if len(ts) > 1 {
			return nil, false
		}
		return ts[0], true
	}
	for t := range r.byType {
		if QualifiedName(t) == name {
			return t, true
		}
	}
	return nil, false
}

// Names returns the name each registered component resolves by, sorted: the
// bare name, or the qualified name when the bare one is ambiguous.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.stores))
	for _, s := range r.stores {
		t := s.Type()
		if len(r.byName[t.Name()]) > 1 {
			names = append(names, QualifiedName(t))
			continue
		}
		names = append(names, t.Name())
	}
	sort.Strings(names)
	return names
}

// QualifiedName returns "<pkgpath>.<Name>" for t.
func QualifiedName(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
