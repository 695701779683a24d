// Package binding keeps memoised, change-aware selections of entities for a
// presentation layer that re-reads them once per simulation tick.
//
// The owning simulation stages entity handles into a Coordinator during the
// tick, commits them and flips the tick signal as its last pass. Selectors read
// the committed Snapshot lazily and only re-extract components for entities
// whose stamp changed.
package binding

import "reflect"

// EntityID identifies an entity across ticks for as long as it survives.
type EntityID uint64

// ComponentType tags a kind of component. The zero value is invalid.
type ComponentType struct {
	rt reflect.Type
}

// TypeOf returns the ComponentType for components of type T.
// TypeOf[Position]() and TypeOf[*Position]() name the same component.
func TypeOf[T any]() ComponentType {
	return TypeFor(reflect.TypeOf((*T)(nil)).Elem())
}

// TypeFor wraps a runtime type. Pointer types are reduced to their element.
func TypeFor(t reflect.Type) ComponentType {
	if t == nil {
		return ComponentType{}
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return ComponentType{rt: t}
}

func (c ComponentType) Type() reflect.Type { return c.rt }
func (c ComponentType) Valid() bool        { return c.rt != nil }

// Name returns the bare type name, e.g. "Position".
func (c ComponentType) Name() string {
	if c.rt == nil {
		return ""
	}
	return c.rt.Name()
}

func (c ComponentType) String() string {
	if c.rt == nil {
		return "<invalid>"
	}
	return c.rt.String()
}

// Entity is the engine-owned view of one entity. Component must be a pure
// lookup; a missing component is reported with ok == false.
type Entity interface {
	Component(t ComponentType) (any, bool)
}

// Handle is what the simulation stages for an entity each tick. Stamp is
// bumped by the owning engine on every structural change of the entity.
type Handle struct {
	ID     EntityID
	Stamp  uint64
	Entity Entity
}

// Tick is delivered to subscribers on every flip of the tick signal.
type Tick struct {
	Seq   uint64
	Value bool
}

// Freshness selects how a Selector learns that new data may be available.
type Freshness int

const (
	// Always subscribes to the tick signal and wakes the consumer every tick.
	Always Freshness = iota
	// OnDemand never subscribes; the consumer re-reads on its own triggers.
	OnDemand
)

func (f Freshness) String() string {
	switch f {
	case Always:
		return "always"
	case OnDemand:
		return "on-demand"
	}
	return "unknown"
}
