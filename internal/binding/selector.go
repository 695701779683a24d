package binding

import "go.uber.org/zap"

// Option configures a Selector.
type Option func(*Selector)

// WithFreshness sets the freshness mode. The default is Always.
func WithFreshness(f Freshness) Option {
	return func(s *Selector) { s.freshness = f }
}

// WithOnTick sets the callback run on every tick flip while subscribed. It is
// the consumer's re-render trigger and should only schedule a re-read.
func WithOnTick(fn func(Tick)) Option {
	return func(s *Selector) { s.onTick = fn }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Selector) {
		if log != nil {
			s.log = log
		}
	}
}

// Selector is one selection site: a query, its cache and, in Always mode, a
// tick subscription registered on the first Select.
type Selector struct {
	src       Source
	cache     *Cache
	freshness Freshness
	onTick    func(Tick)
	sub       *Subscription
	closed    bool
	log       *zap.Logger
}

func NewSelector(src Source, q *Query, opts ...Option) *Selector {
	s := &Selector{
		src:   src,
		cache: NewCache(q),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the current best-known result, refreshing the cache when the
// committed population moved on. It never fails; after Close it keeps
// returning the last result.
func (s *Selector) Select() Result {
	if s.closed {
		return s.cache.Result()
	}
	if s.freshness == Always && s.sub == nil {
		s.sub = s.src.Subscribe(s.handleTick)
	}
	res, changed := s.cache.Refresh(s.src.Snapshot())
	if changed {
		s.log.Debug("selection refreshed",
			zap.Uint64("version", s.cache.Version()),
			zap.Int("bundles", res.Total()),
		)
	}
	return res
}

func (s *Selector) handleTick(t Tick) {
	if s.onTick != nil {
		s.onTick(t)
	}
}

func (s *Selector) Freshness() Freshness { return s.freshness }

// Subscribed reports whether the selector currently receives tick flips.
func (s *Selector) Subscribed() bool { return s.sub.Active() }

func (s *Selector) Stats() CacheStats { return s.cache.Stats() }

// Close releases the tick subscription. It is idempotent and may be called
// from inside the OnTick callback.
func (s *Selector) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.sub.Cancel()
}
