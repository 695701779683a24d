package binding

import "errors"

var (
	// ErrEmptyQuery is returned when a query has no selections.
	ErrEmptyQuery = errors.New("binding: query has no selections")
	// ErrEmptyName is returned for a selection without a name.
	ErrEmptyName = errors.New("binding: selection name is empty")
	// ErrDuplicateSelection is returned when two selections share a name.
	ErrDuplicateSelection = errors.New("binding: duplicate selection name")
	// ErrEmptySelection is returned for a selection that requests no component types.
	ErrEmptySelection = errors.New("binding: selection requests no component types")
	// ErrInvalidComponentType is returned for a zero ComponentType in a selection.
	ErrInvalidComponentType = errors.New("binding: invalid component type")

	// ErrNilEntity is returned when staging a handle without an entity.
	ErrNilEntity = errors.New("binding: handle has no entity")
	// ErrTickCommitted is returned for writes or a second commit between Commit and SignalTick.
	ErrTickCommitted = errors.New("binding: tick already committed")
	// ErrNotCommitted is returned by SignalTick when the tick was not committed.
	ErrNotCommitted = errors.New("binding: tick not committed")
	// ErrClosed is returned by a coordinator after Close.
	ErrClosed = errors.New("binding: coordinator closed")
)
