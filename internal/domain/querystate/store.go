package querystate

import (
	"net/url"
	"strings"
	"sync"
)

// Store owns the active query state. The state is always equal to parsing
// the history's current location: every mutation writes the location first
// and every back/forward navigation re-reads it.
//
// Set and Remove open a draft over the current entry. The first of them
// records the location they overwrite; the next Commit restores it before
// pushing, so typing never destroys a committed entry.
type Store struct {
	mu          sync.RWMutex
	history     History
	state       State
	listeners   map[int]func(State)
	nextID      int
	unsubscribe func()

	drafting  bool
	draftBase string
}

// NewStore creates a store bound to history and initialized from its
// current location.
func NewStore(history History) *Store {
	s := &Store{
		history:   history,
		state:     Parse(history.Location()),
		listeners: make(map[int]func(State)),
	}
	s.unsubscribe = history.Subscribe(s.onNavigate)
	return s
}

// Get returns the current value of name; unknown names yield "".
func (s *Store) Get(name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Get(name)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Location returns the history's current query string.
func (s *Store) Location() string {
	return s.history.Location()
}

// Set inserts or overwrites a recognized parameter and replaces the current
// history entry. Unrecognized names are ignored and reported as false.
func (s *Store) Set(name, value string) bool {
	if !IsRecognized(name) {
		return false
	}
	s.apply(false, func(st State) { st[name] = value })
	return true
}

// Remove deletes a parameter and replaces the current history entry.
func (s *Store) Remove(name string) {
	if !IsRecognized(name) {
		return
	}
	s.apply(false, func(st State) { delete(st, name) })
}

// Commit applies fn to a copy of the state and pushes the result as a new
// history entry. Use it for complete, user-intended changes; keystrokes go
// through Set and Remove instead. An open draft is folded into the pushed
// entry and the entry it overwrote is put back.
func (s *Store) Commit(fn func(State)) {
	s.apply(true, fn)
}

// ClearAll removes every recognized parameter as a single history entry.
func (s *Store) ClearAll() {
	s.Commit(func(st State) {
		for name := range st {
			delete(st, name)
		}
	})
}

// Subscribe registers fn to receive the new state after every mutation and
// history navigation. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close detaches the store from its history.
func (s *Store) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Store) apply(push bool, fn func(State)) {
	s.mu.Lock()
	// Start from the location, not the cached state, so a navigation that
	// has not been observed yet is never overwritten.
	location := s.history.Location()
	next := Parse(location)
	fn(next)
	for name := range next {
		if !IsRecognized(name) {
			delete(next, name)
		}
	}

	rawQuery := mergeLocation(location, next)
	if push {
		if s.drafting {
			s.history.Replace(s.draftBase)
			s.drafting = false
		}
		s.history.Push(rawQuery)
	} else {
		if !s.drafting {
			s.draftBase = location
			s.drafting = true
		}
		s.history.Replace(rawQuery)
	}
	s.state = next
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, next)
}

func (s *Store) onNavigate(string) {
	s.mu.Lock()
	s.drafting = false
	s.state = Parse(s.history.Location())
	state := s.state
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, state)
}

func (s *Store) snapshotListeners() []func(State) {
	out := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(listeners []func(State), state State) {
	for _, fn := range listeners {
		fn(state.Clone())
	}
}

// mergeLocation replaces the recognized parameters of location with state,
// leaving every other parameter untouched.
func mergeLocation(location string, state State) string {
	values, _ := url.ParseQuery(strings.TrimPrefix(location, "?"))
	for name := range recognized {
		values.Del(name)
	}
	for name, v := range state {
		values.Set(name, v)
	}
	return values.Encode()
}
