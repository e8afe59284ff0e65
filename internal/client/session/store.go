package session

import "sync"

// Store owns the Session State. All reads return copies; all writes go
// through Update so callers never share slices with the store.
//
// Every Reset starts a new generation. A Ticket taken before a slow
// operation (an AI call, say) lets the caller apply the result only if the
// session it was computed for is still current.
type Store struct {
	mu    sync.RWMutex
	state State
	gen   uint64
}

// Ticket identifies a session generation.
type Ticket struct {
	gen uint64
}

func NewStore() *Store {
	return &Store{state: Initial()}
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Update applies fn to the state and returns a copy of the result.
func (s *Store) Update(fn func(*State)) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state.clone()
}

// Replace swaps in a whole new state within the current generation.
func (s *Store) Replace(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st.clone()
}

// Reset returns to the initial state and starts a new generation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.state = Initial()
}

// Ticket returns a ticket for the current generation.
func (s *Store) Ticket() Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Ticket{gen: s.gen}
}

// Current reports whether t still belongs to the current generation.
func (s *Store) Current(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t.gen == s.gen
}

// UpdateIfCurrent is Update guarded by t. It returns ErrStale without calling
// fn when the session was reset after t was taken.
func (s *Store) UpdateIfCurrent(t Ticket, fn func(*State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.gen != s.gen {
		return State{}, ErrStale
	}
	fn(&s.state)
	return s.state.clone(), nil
}
