// Package store holds application state behind a reducer. State changes only
// through Dispatch; subscribers are told after every change and re-read the
// state themselves.
package store

import "sync"

// Reducer computes the next state from the current state and an action. It
// must not have side effects.
type Reducer[S, A any] func(state S, action A) S

// Listener is notified after every dispatch. It receives no arguments; call
// State to read the new value.
type Listener func()

// Unsubscriber removes a listener. It is safe to call more than once.
type Unsubscriber func()

// Observer sees every reduction before listeners are notified. It is the hook
// used for journaling and event feeds.
type Observer[S, A any] func(action A, prev, next S)

// Option configures a Store.
type Option[S, A any] func(*Store[S, A])

// WithObserver registers fn to be called after each reduction.
func WithObserver[S, A any](fn Observer[S, A]) Option[S, A] {
	return func(s *Store[S, A]) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

type listener struct {
	id int
	fn Listener
}

// Store owns the current state, the reducer, and the ordered listener list.
//
// Dispatch is serialized: an action dispatched while another dispatch is
// notifying (from a listener or another goroutine) is queued and applied by
// the in-progress dispatcher once the current round of notifications ends.
type Store[S, A any] struct {
	reduce    Reducer[S, A]
	observers []Observer[S, A]

	mu          sync.Mutex
	state       S
	listeners   []listener
	nextID      int
	dispatching bool
	pending     []A
}

// New creates a Store with the given reducer and initial state.
func New[S, A any](reduce Reducer[S, A], initial S, opts ...Option[S, A]) *Store[S, A] {
	s := &Store[S, A]{
		reduce: reduce,
		state:  initial,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces action into the state and then calls every listener in
// registration order before returning. A nested dispatch returns immediately;
// its action is applied, with its own notification round, before the outer
// Dispatch returns.
func (s *Store[S, A]) Dispatch(action A) {
	s.mu.Lock()
	s.pending = append(s.pending, action)
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	// A panicking reducer or listener drops the queued actions so the store
	// stays usable.
	finished := false
	defer func() {
		if finished {
			return
		}
		s.mu.Lock()
		s.dispatching = false
		s.pending = nil
		s.mu.Unlock()
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			finished = true
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		prev := s.state
		s.mu.Unlock()

		// Only the dispatching goroutine writes state, so reducing outside
		// the lock is safe.
		reduced := s.reduce(prev, next)

		s.mu.Lock()
		s.state = reduced
		subs := make([]listener, len(s.listeners))
		copy(subs, s.listeners)
		s.mu.Unlock()

		for _, obs := range s.observers {
			obs(next, prev, reduced)
		}
		for _, l := range subs {
			l.fn()
		}
	}
}

// Subscribe appends fn to the listener list. Listeners added or removed
// during a notification round take effect from the next round.
func (s *Store[S, A]) Subscribe(fn Listener) Unsubscriber {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Combine builds a reducer over a map of named slices, each reduced by its
// own reducer. The input map is never modified.
func Combine[S, A any](reducers map[string]Reducer[S, A]) Reducer[map[string]S, A] {
	return func(state map[string]S, action A) map[string]S {
		next := make(map[string]S, len(reducers))
		for key, reduce := range reducers {
			next[key] = reduce(state[key], action)
		}
		return next
	}
}
