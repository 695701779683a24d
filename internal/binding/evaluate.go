package binding

// Matches reports whether e carries every one of types.
func Matches(e Entity, types []ComponentType) bool {
	if e == nil {
		return false
	}
	for _, t := range types {
		if c, ok := e.Component(t); !ok || c == nil {
			return false
		}
	}
	return true
}

// Extract pulls one component per requested type out of e, in order. A missing
// component excludes the entity: ok is false and no partial bundle is built.
func Extract(e Entity, types []ComponentType) ([]any, bool) {
	if e == nil {
		return nil, false
	}
	out := make([]any, len(types))
	for i, t := range types {
		c, ok := e.Component(t)
		if !ok || c == nil {
			return nil, false
		}
		out[i] = c
	}
	return out, true
}

// Evaluate selects from snap for every selection of q without any caching.
// Each selection walks the whole population once; an entity contributes at
// most one bundle per selection.
func Evaluate(snap *Snapshot, q *Query) Result {
	r := newResult(q)
	for _, sel := range q.selections {
		matched := make(map[EntityID]struct{})
		bundles := make([]*Bundle, 0)
		snap.Each(func(h Handle) bool {
			if _, dup := matched[h.ID]; dup {
				return true
			}
			comps, ok := Extract(h.Entity, sel.Types)
			if !ok {
				return true
			}
			matched[h.ID] = struct{}{}
			bundles = append(bundles, &Bundle{ID: h.ID, Stamp: h.Stamp, Components: comps})
			return true
		})
		r.sets[sel.Name] = bundles
	}
	return r
}
