package session

import (
	"sync"

	"budgetweb/internal/models"
)

// Store holds one Session value. Every transition is a whole-value
// replacement, so readers never observe a mix of old and new fields.
// Callers are trusted to supply records already validated by the backend;
// no validation happens here.
type Store struct {
	mu      sync.RWMutex
	current Session
	subs    map[int]func(Session)
	nextID  int
}

// NewStore returns a Store in the unauthenticated state.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(Session))}
}

// Login replaces the state with the authenticated variant built from u.
func (s *Store) Login(u models.User) {
	s.replace(Session{Authenticated: true, User: u})
}

// Logout replaces the state with the unauthenticated variant. No residual
// profile fields survive.
func (s *Store) Logout() {
	s.replace(Anonymous())
}

// Current returns a snapshot of the state.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe registers fn to be called on every state transition and returns
// a function that cancels the subscription.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// replace swaps the whole value and notifies subscribers outside the lock,
// so a subscriber may call Current without deadlocking.
func (s *Store) replace(next Session) {
	s.mu.Lock()
	s.current = next
	fns := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
