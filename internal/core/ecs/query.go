package ecs

// Each2 iterates over entities that have both component A and B.
// It drives iteration from the smaller store and probes the larger one.
func Each2[A, B any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				fn(id, a, b)
			}
		}
		return
	}
	for id, b := range sb.data {
		if a, ok := sa.data[id]; ok {
			fn(id, a, b)
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any](sa *PtrComponentStore[A], sb *PtrComponentStore[B], sc *PtrComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	visit := func(id EntityID) {
		a, ok := sa.data[id]
		if !ok {
			return
		}
		b, ok := sb.data[id]
		if !ok {
			return
		}
		c, ok := sc.data[id]
		if !ok {
			return
		}
		fn(id, a, b, c)
	}

	// Drive from the smallest store
	switch {
	case sa.Len() <= sb.Len() && sa.Len() <= sc.Len():
		for id := range sa.data {
			visit(id)
		}
	case sb.Len() <= sc.Len():
		for id := range sb.data {
			visit(id)
		}
	default:
		for id := range sc.data {
			visit(id)
		}
	}
}
