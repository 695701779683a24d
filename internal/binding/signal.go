package binding

import (
	"sync"
	"sync/atomic"

	"github.com/l1jgo/entitysync/internal/core/event"
)

// Subscription is a cancellable registration on the tick signal.
type Subscription = event.Subscription

// tickEvent is a flip as carried on the bus. src keeps signals that share a
// bus from waking each other's subscribers.
type tickEvent struct {
	src  *TickSignal
	tick Tick
}

// TickSignal is the single "re-evaluate" event of the layer: one boolean
// flipped exactly once per completed tick. Subscribers run synchronously on
// the flipping goroutine.
type TickSignal struct {
	bus    *event.Bus
	value  atomic.Bool
	seq    atomic.Uint64
	closed atomic.Bool

	mu   sync.Mutex
	subs []*Subscription
}

// NewTickSignal creates a signal publishing on bus, or on a private bus when
// bus is nil. Several signals may share one bus. The value starts true, so
// the first flip delivers false.
func NewTickSignal(bus *event.Bus) *TickSignal {
	if bus == nil {
		bus = event.NewBus()
	}
	s := &TickSignal{bus: bus}
	s.value.Store(true)
	return s
}

// Flip toggles the value, advances the sequence and notifies subscribers.
// A closed signal does not flip.
func (s *TickSignal) Flip() Tick {
	if s.closed.Load() {
		return s.Current()
	}
	v := !s.value.Load()
	s.value.Store(v)
	t := Tick{Seq: s.seq.Add(1), Value: v}
	event.Publish(s.bus, tickEvent{src: s, tick: t})
	return t
}

// Current returns the last flipped state. Seq is 0 before the first flip.
func (s *TickSignal) Current() Tick {
	return Tick{Seq: s.seq.Load(), Value: s.value.Load()}
}

// Subscribe registers fn for every later flip of this signal. On a closed
// signal, or with a nil fn, the returned subscription is already cancelled.
func (s *TickSignal) Subscribe(fn func(Tick)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn == nil || s.closed.Load() {
		return event.Subscribe[tickEvent](closedBus, func(tickEvent) {})
	}
	sub := event.Subscribe(s.bus, func(ev tickEvent) {
		if ev.src == s {
			fn(ev.tick)
		}
	})
	s.subs = append(s.live(), sub)
	return sub
}

// live drops cancelled subscriptions from s.subs. Caller holds s.mu.
func (s *TickSignal) live() []*Subscription {
	n := 0
	for _, sub := range s.subs {
		if sub.Active() {
			s.subs[n] = sub
			n++
		}
	}
	clear(s.subs[n:])
	return s.subs[:n]
}

// Subscribers returns the number of live subscriptions to this signal.
func (s *TickSignal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = s.live()
	return len(s.subs)
}

// Close cancels this signal's subscriptions and stops further flips. Other
// signals and event types on a shared bus are left alone.
func (s *TickSignal) Close() {
	s.mu.Lock()
	if s.closed.Swap(true) {
		s.mu.Unlock()
		return
	}
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()
	for _, sub := range subs {
		sub.Cancel()
	}
}

var closedBus = func() *event.Bus {
	b := event.NewBus()
	b.Close()
	return b
}()
