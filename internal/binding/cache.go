package binding

// CacheStats counts cache work since creation.
type CacheStats struct {
	Refreshes uint64 // snapshot versions evaluated
	Extracted uint64 // bundles built
	Reused    uint64 // bundles carried over unchanged
	Dropped   uint64 // bundles removed from the index
}

type selectionCache struct {
	sel     Selection
	index   map[EntityID]*Bundle
	bundles []*Bundle
}

// Cache memoises the Result of one query. Refresh re-extracts components only
// for entities whose stamp changed or which newly match; everything else keeps
// its previous Bundle pointer.
type Cache struct {
	sets    []*selectionCache
	result  Result
	version uint64
	primed  bool
	stats   CacheStats
}

func NewCache(q *Query) *Cache {
	c := &Cache{
		sets:   make([]*selectionCache, 0, q.Len()),
		result: newResult(q),
	}
	for _, sel := range q.selections {
		c.sets = append(c.sets, &selectionCache{
			sel:     sel,
			index:   make(map[EntityID]*Bundle),
			bundles: c.result.sets[sel.Name],
		})
	}
	return c
}

// Result returns the last computed result without refreshing.
func (c *Cache) Result() Result { return c.result }

// Version returns the snapshot version the cache last evaluated.
func (c *Cache) Version() uint64 { return c.version }

func (c *Cache) Stats() CacheStats { return c.stats }

// Refresh brings the cache up to date with snap and reports whether any
// selection changed. A snapshot version already evaluated is a no-op that
// returns the identical Result.
func (c *Cache) Refresh(snap *Snapshot) (Result, bool) {
	if snap == nil {
		snap = emptySnapshot
	}
	if c.primed && snap.Version() == c.version {
		return c.result, false
	}
	c.primed = true
	c.version = snap.Version()
	c.stats.Refreshes++

	changed := false
	for _, sc := range c.sets {
		if c.refreshSelection(sc, snap) {
			changed = true
		}
	}
	if changed {
		sets := make(map[string][]*Bundle, len(c.sets))
		for _, sc := range c.sets {
			sets[sc.sel.Name] = sc.bundles
		}
		c.result = Result{names: c.result.names, sets: sets}
	}
	return c.result, changed
}

func (c *Cache) refreshSelection(sc *selectionCache, snap *Snapshot) bool {
	next := make([]*Bundle, 0, len(sc.bundles))
	changed := false
	snap.Each(func(h Handle) bool {
		if b, ok := sc.index[h.ID]; ok && b.Stamp == h.Stamp {
			next = append(next, b)
			c.stats.Reused++
			return true
		}
		comps, ok := Extract(h.Entity, sc.sel.Types)
		if !ok {
			if _, had := sc.index[h.ID]; had {
				delete(sc.index, h.ID)
				c.stats.Dropped++
				changed = true
			}
			return true
		}
		b := &Bundle{ID: h.ID, Stamp: h.Stamp, Components: comps}
		sc.index[h.ID] = b
		next = append(next, b)
		c.stats.Extracted++
		changed = true
		return true
	})

	if !changed && len(next) == len(sc.bundles) {
		return false
	}
	// Entities that left the snapshot are still indexed.
	if len(sc.index) != len(next) {
		c.stats.Dropped += uint64(len(sc.index) - len(next))
		index := make(map[EntityID]*Bundle, len(next))
		for _, b := range next {
			index[b.ID] = b
		}
		sc.index = index
	}
	sc.bundles = next
	return true
}
