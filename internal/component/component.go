// Package component holds the demo simulation's component types.
// Pure data, zero methods: all mutations happen in System functions.
package component

// Position is a point on the simulation plane.
type Position struct {
	X float64
	Y float64
}

// Velocity is applied to Position by MovementSystem, in units per second.
type Velocity struct {
	DX float64
	DY float64
}

// Sprite is what a presenter draws for the entity. Layer orders drawing;
// OrientSystem keeps moving sprites y-sorted and facing their velocity.
type Sprite struct {
	Glyph string
	Layer int
}

// Synced marks an entity as render-eligible: only entities carrying it are
// pushed into the population store each tick.
type Synced struct {
	Label string
}
