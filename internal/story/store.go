package story

import "sync"

// Store holds all conversation state, keyed by conversation id. States are
// created lazily on first touch and live for the process lifetime; there is
// deliberately no deletion or garbage collection.
//
// All mutation happens under one mutex, and Apply runs a whole event's
// mutations in a single critical section, so concurrent events on the same
// conversation id serialize instead of interleaving.
type Store struct {
	mu     sync.Mutex
	states map[string]*ConversationState
}

func NewStore() *Store {
	return &Store{states: make(map[string]*ConversationState)}
}

// GetOrCreate returns a copy of the state for id, creating a zero-valued
// state if none exists yet.
func (s *Store) GetOrCreate(id string) ConversationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.getOrCreateLocked(id))
}

// Snapshot returns a copy of the state for id without creating it.
func (s *Store) Snapshot(id string) (ConversationState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return ConversationState{}, false
	}
	return cloneState(st), true
}

// Apply runs fn against the live state for id under the store lock. fn must
// not block; external calls belong outside Apply.
func (s *Store) Apply(id string, fn func(*ConversationState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.getOrCreateLocked(id))
}

// AppendTurn records a turn for id, evicting the oldest turns first once the
// memory cap is reached.
func (s *Store) AppendTurn(id string, t Turn) {
	s.Apply(id, func(st *ConversationState) {
		st.appendTurn(t)
	})
}

// Count reports how many conversations the store currently tracks.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *Store) getOrCreateLocked(id string) *ConversationState {
	st, ok := s.states[id]
	if !ok {
		st = &ConversationState{}
		s.states[id] = st
	}
	return st
}

// appendTurn enforces the retention cap before appending: evict from the
// front until there is room for exactly one more turn. Older context is
// unconditionally discarded, never summarized.
func (st *ConversationState) appendTurn(t Turn) {
	for len(st.Turns) >= MemoryLimit {
		st.Turns = st.Turns[1:]
	}
	st.Turns = append(st.Turns, t)
}

func cloneState(st *ConversationState) ConversationState {
	c := *st
	c.Turns = append([]Turn(nil), st.Turns...)
	c.MementoIDs = append([]string(nil), st.MementoIDs...)
	return c
}
