package registry

import "sync"

// SelectionStore holds the checked document ids per session. Selection is
// independent of the visible projection: rows stay selected when a filter
// hides them, and only ClearSelected empties the set. All operations are
// total; any string id is accepted.
type SelectionStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]bool
}

// NewSelectionStore creates an empty selection store
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{sessions: make(map[string]map[string]bool)}
}

// SetSelected overwrites the selection flag for one id
func (s *SelectionStore) SetSelected(session, id string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session(session)[id] = value
}

// SetManySelected overwrites the flag for every given id in a single state
// transition, so readers never observe a partially applied bulk toggle.
func (s *SelectionStore) SetManySelected(session string, ids []string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.session(session)
	for _, id := range ids {
		m[id] = value
	}
}

// ClearSelected resets the session's selection to empty
func (s *SelectionStore) ClearSelected(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session] = make(map[string]bool)
}

// Selected reports whether the id is selected. An absent id is false.
func (s *SelectionStore) Selected(session, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[session][id]
}

// Count returns how many of the given ids are selected
func (s *SelectionStore) Count(session string, ids []string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.sessions[session]
	n := 0
	for _, id := range ids {
		if m[id] {
			n++
		}
	}
	return n
}

// AllSelected reports whether every given id is selected. An empty id list
// is never "all selected".
func (s *SelectionStore) AllSelected(session string, ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.sessions[session]
	for _, id := range ids {
		if !m[id] {
			return false
		}
	}
	return true
}

// session returns the map for the session, creating it on first touch.
// Callers must hold the write lock.
func (s *SelectionStore) session(session string) map[string]bool {
	m, ok := s.sessions[session]
	if !ok {
		m = make(map[string]bool)
		s.sessions[session] = m
	}
	return m
}
