package binding

// Bundle holds the components extracted for one entity matching one
// selection, in the order the selection requested them. A Bundle is shared
// between refreshes for as long as its entity's stamp does not change, so
// consumers may compare bundles by pointer to skip work.
type Bundle struct {
	ID         EntityID
	Stamp      uint64
	Components []any
}

// Field returns component i of b as *T, or nil if it is out of range or of a
// different type.
func Field[T any](b *Bundle, i int) *T {
	if b == nil || i < 0 || i >= len(b.Components) {
		return nil
	}
	c, _ := b.Components[i].(*T)
	return c
}

// Result maps every selection name of a query to its bundles. Names of the
// query are always present; their slices are empty, never nil, when nothing
// matches.
type Result struct {
	names []string
	sets  map[string][]*Bundle
}

func newResult(q *Query) Result {
	r := Result{
		names: q.Names(),
		sets:  make(map[string][]*Bundle, q.Len()),
	}
	for _, n := range r.names {
		r.sets[n] = []*Bundle{}
	}
	return r
}

// Get returns the bundles of the named selection. Unknown names yield nil.
func (r Result) Get(name string) []*Bundle {
	return r.sets[name]
}

// Has reports whether name belongs to the result's query.
func (r Result) Has(name string) bool {
	_, ok := r.sets[name]
	return ok
}

// Names returns the selection names in query order.
func (r Result) Names() []string {
	return append([]string(nil), r.names...)
}

func (r Result) Len(name string) int {
	return len(r.sets[name])
}

// Total returns the number of bundles across all selections.
func (r Result) Total() int {
	n := 0
	for _, b := range r.sets {
		n += len(b)
	}
	return n
}

// Each1 calls fn for every bundle whose first component is an *A.
func Each1[A any](bundles []*Bundle, fn func(EntityID, *A)) {
	for _, b := range bundles {
		if a := Field[A](b, 0); a != nil {
			fn(b.ID, a)
		}
	}
}

// Each2 calls fn for every bundle whose first two components are *A and *B.
func Each2[A, B any](bundles []*Bundle, fn func(EntityID, *A, *B)) {
	for _, b := range bundles {
		a, bb := Field[A](b, 0), Field[B](b, 1)
		if a != nil && bb != nil {
			fn(b.ID, a, bb)
		}
	}
}

// Each3 calls fn for every bundle whose first three components are *A, *B and *C.
func Each3[A, B, C any](bundles []*Bundle, fn func(EntityID, *A, *B, *C)) {
	for _, b := range bundles {
		a, bb, c := Field[A](b, 0), Field[B](b, 1), Field[C](b, 2)
		if a != nil && bb != nil && c != nil {
			fn(b.ID, a, bb, c)
		}
	}
}
