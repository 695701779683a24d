package event

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// Bus is a synchronous typed event bus. Publish delivers to every live handler
// of the event's type on the caller's goroutine, in subscription order.
type Bus struct {
	mu       sync.Mutex // only protects handler registration
	handlers map[reflect.Type][]*Subscription
	closed   bool
}

// Subscription is a cancellable handler registration.
type Subscription struct {
	bus       *Bus
	t         reflect.Type
	fn        any
	cancelled atomic.Bool
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[reflect.Type][]*Subscription),
	}
}

// Subscribe registers a typed handler for events of type T. Subscribing to a
// closed bus returns an already-cancelled subscription.
func Subscribe[T any](b *Bus, fn func(T)) *Subscription {
	t := reflect.TypeOf((*T)(nil)).Elem()
	sub := &Subscription{bus: b, t: t, fn: fn}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || fn == nil {
		sub.cancelled.Store(true)
		return sub
	}
	b.handlers[t] = append(b.handlers[t], sub)
	return sub
}

// Publish delivers event to the handlers subscribed for T and returns how many
// were called. Handlers may cancel any subscription, their own included, while
// the dispatch is running; a cancelled handler is not called again.
func Publish[T any](b *Bus, event T) int {
	t := reflect.TypeOf((*T)(nil)).Elem()

	b.mu.Lock()
	subs := make([]*Subscription, len(b.handlers[t]))
	copy(subs, b.handlers[t])
	b.mu.Unlock()

	n := 0
	for _, s := range subs {
		if s.cancelled.Load() {
			continue
		}
		s.fn.(func(T))(event)
		n++
	}
	return n
}

// Subscribers returns the number of live handlers for T.
func Subscribers[T any](b *Bus) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[reflect.TypeOf((*T)(nil)).Elem()])
}

// Close cancels every subscription. Later Subscribe calls return cancelled
// subscriptions and Publish delivers nothing.
func (b *Bus) Close() {
	b.mu.Lock()
	all := b.handlers
	b.handlers = make(map[reflect.Type][]*Subscription)
	b.closed = true
	b.mu.Unlock()
	for _, subs := range all {
		for _, s := range subs {
			s.cancelled.Store(true)
		}
	}
}

// Cancel releases the subscription. It is idempotent and safe on a nil
// subscription, from inside the handler, and after the bus was closed.
func (s *Subscription) Cancel() {
	if s == nil || !s.cancelled.CompareAndSwap(false, true) {
		return
	}
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[s.t]
	for i, other := range subs {
		if other == s {
			b.handlers[s.t] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[s.t]) == 0 {
		delete(b.handlers, s.t)
	}
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && !s.cancelled.Load()
}
