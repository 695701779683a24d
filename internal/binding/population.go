package binding

// Snapshot is an immutable committed view of the entity population. Handles
// keep the order in which their ids were first staged.
type Snapshot struct {
	version uint64
	order   []Handle
	index   map[EntityID]int
}

var emptySnapshot = &Snapshot{index: map[EntityID]int{}}

// Version increases every time a changed population is committed. The empty
// initial snapshot has version 0.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns the committed handle for id.
func (s *Snapshot) Get(id EntityID) (Handle, bool) {
	if s == nil {
		return Handle{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return Handle{}, false
	}
	return s.order[i], true
}

// Each visits handles in discovery order until fn returns false.
func (s *Snapshot) Each(fn func(Handle) bool) {
	if s == nil {
		return
	}
	for _, h := range s.order {
		if !fn(h) {
			return
		}
	}
}

// IDs returns the entity ids in discovery order.
func (s *Snapshot) IDs() []EntityID {
	ids := make([]EntityID, 0, s.Len())
	s.Each(func(h Handle) bool {
		ids = append(ids, h.ID)
		return true
	})
	return ids
}

// population is the write side of the store, mutated during a tick and
// frozen into a Snapshot on commit.
type population struct {
	handles map[EntityID]Handle
	order   []EntityID
	dirty   bool
}

func newPopulation() *population {
	return &population{
		handles: make(map[EntityID]Handle, 256),
		order:   make([]EntityID, 0, 256),
	}
}

// stage records h. Re-staging an id with an unchanged stamp is not a change.
func (p *population) stage(h Handle) {
	prev, ok := p.handles[h.ID]
	if ok && prev.Stamp == h.Stamp {
		return
	}
	if !ok {
		p.order = append(p.order, h.ID)
	}
	p.handles[h.ID] = h
	p.dirty = true
}

func (p *population) remove(id EntityID) bool {
	if _, ok := p.handles[id]; !ok {
		return false
	}
	delete(p.handles, id)
	p.dirty = true
	return true
}

func (p *population) len() int { return len(p.handles) }

// freeze compacts the order list and builds a Snapshot.
func (p *population) freeze(version uint64) *Snapshot {
	snap := &Snapshot{
		version: version,
		order:   make([]Handle, 0, len(p.handles)),
		index:   make(map[EntityID]int, len(p.handles)),
	}
	ids := p.order[:0]
	for _, id := range p.order {
		h, ok := p.handles[id]
		if !ok {
			continue
		}
		if _, dup := snap.index[id]; dup {
			continue // removed and re-staged within one tick
		}
		snap.index[id] = len(snap.order)
		snap.order = append(snap.order, h)
		ids = append(ids, id)
	}
	p.order = ids
	p.dirty = false
	return snap
}
