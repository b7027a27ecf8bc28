// Package events provides a typed publish/subscribe bus. The store publishes
// MealPlanChanged on every meal item mutation; the grocery refresher
// subscribes to recompute lists.
package events

import "sync"

// ChangeKind says what happened to a meal item.
type ChangeKind string

const (
	ItemAdded   ChangeKind = "added"
	ItemUpdated ChangeKind = "updated"
	ItemDeleted ChangeKind = "deleted"
	PlanReset   ChangeKind = "reset"
)

// MealPlanChanged is published after a meal item is added, edited, or
// deleted, and after a profile's plans are reset.
type MealPlanChanged struct {
	ProfileID string
	PlanID    string
	ItemID    string
	Date      string
	Kind      ChangeKind
}

// Bus fans events of type E out to subscribers. The zero value is not
// usable; call NewBus.
type Bus[E any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func(E)
}

// NewBus returns an empty bus.
func NewBus[E any]() *Bus[E] {
	return &Bus[E]{subs: make(map[uint64]func(E))}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn to be called synchronously, in the publisher's
// goroutine, for every event published after this call.
func (b *Bus[E]) Subscribe(fn func(E)) *Subscription {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	return &Subscription{cancel: func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}}
}

// SubscribeChan delivers events to a buffered channel. When the buffer is
// full the event is dropped: consumers only need to know that something
// changed since their last recomputation. The channel is closed by
// Unsubscribe.
func (b *Bus[E]) SubscribeChan(buffer int) (<-chan E, *Subscription) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan E, buffer)
	var mu sync.Mutex
	closed := false

	inner := b.Subscribe(func(e E) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
		}
	})

	return ch, &Subscription{cancel: func() {
		inner.Unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}}
}

// Publish delivers e to every current subscriber.
func (b *Bus[E]) Publish(e E) {
	b.mu.RLock()
	handlers := make([]func(E), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// Len returns the number of active subscribers.
func (b *Bus[E]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
