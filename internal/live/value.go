// Package live provides the observable primitives behind every
// auto-updating query and setting: a value with a current snapshot
// plus subscriptions, and a change signal for invalidation fan-out.
package live

import "sync"

// Subscriber receives each published value.
type Subscriber[T any] func(T)

// Value holds the latest snapshot of T and re-emits it to all
// subscribers on every Set. New subscribers immediately receive the
// current snapshot. Delivery is synchronous: Set returns only after
// every subscriber has observed the new value.
type Value[T any] struct {
	mu   sync.Mutex
	cur  T
	subs map[int]Subscriber[T]
	next int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		cur:  initial,
		subs: make(map[int]Subscriber[T]),
	}
}

// Get returns the current snapshot.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cur
}

// Set stores val and notifies all current subscribers.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.cur = val
	subs := make([]Subscriber[T], 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	// Callbacks run outside the lock so a subscriber may call Get or
	// Subscribe without deadlocking.
	for _, fn := range subs {
		fn(val)
	}
}

// Subscribe registers fn and immediately delivers the current snapshot.
// The returned function removes the subscription.
func (v *Value[T]) Subscribe(fn Subscriber[T]) (cancel func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	cur := v.cur
	v.mu.Unlock()

	fn(cur)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, id)
	}
}

// Signal fans out empty change notifications to registered listeners.
// The storage layer notifies it after every committed mutation.
type Signal struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

// Notify invokes every registered listener.
func (s *Signal) Notify() {
	s.mu.Lock()
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Subscribe registers fn; the returned function removes it.
func (s *Signal) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = make(map[int]func())
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
