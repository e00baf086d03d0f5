package events

import "sync"

// Handler receives a published event.
type Handler func(Event)

// Subscription identifies a registered handler so it can be removed.
type Subscription uint64

type subscriber struct {
	id   Subscription
	kind Kind // zero means all kinds
	fn   Handler
}

// Bus delivers events synchronously to subscribers in registration order.
// Publish runs handlers on the caller's goroutine; a handler may publish
// further events, which are delivered before the outer Publish returns.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID Subscription
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn for events of one kind.
func (b *Bus) Subscribe(kind Kind, fn Handler) Subscription {
	return b.add(kind, fn)
}

// SubscribeAll registers fn for every event kind.
func (b *Bus) SubscribeAll(fn Handler) Subscription {
	return b.add(0, fn)
}

func (b *Bus) add(kind Kind, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, kind: kind, fn: fn})
	return b.nextID
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Clear drops every subscriber.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = nil
}

// Len reports the number of registered handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers e to every matching handler in registration order.
func (b *Bus) Publish(e Event) {
	if b == nil || e == nil {
		return
	}
	b.mu.RLock()
	subs := append([]subscriber(nil), b.subs...)
	b.mu.RUnlock()

	kind := e.Kind()
	for _, s := range subs {
		if s.kind == 0 || s.kind == kind {
			s.fn(e)
		}
	}
}

// On registers a handler typed to a single payload.
func On[T Event](b *Bus, fn func(T)) Subscription {
	var zero T
	return b.Subscribe(zero.Kind(), func(e Event) {
		if v, ok := e.(T); ok {
			fn(v)
		}
	})
}

// Recorder captures published events; handy for hosts and tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record appends e. Its signature matches Handler.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfKind returns recorded events of one kind.
func (r *Recorder) OfKind(kind Kind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
