package apidoc

import (
	"slices"
	"strings"
)

// Store maps documentation ids to fragments. It is built once per run and
// passed explicitly to everything which needs to look fragments up.
// NOTE: not to be used concurrently!
type Store struct {
	fragments map[string]*Fragment
}

// NewStore creates empty store.
func NewStore() *Store {
	return &Store{fragments: make(map[string]*Fragment)}
}

// Add registers fragment under its id. First registered fragment wins: when
// id is already known nothing is stored and existing fragment is returned
// with false, so caller could report the conflict.
func (s *Store) Add(f *Fragment) (*Fragment, bool) {
	if old, exists := s.fragments[f.ID()]; exists {
		return old, false
	}
	s.fragments[f.ID()] = f
	return f, true
}

// Get returns fragment for documentation id.
func (s *Store) Get(id string) (*Fragment, bool) {
	f, ok := s.fragments[strings.TrimSpace(id)]
	return f, ok
}

// Len returns number of fragments in the store.
func (s *Store) Len() int {
	return len(s.fragments)
}

// IDs returns all known ids in sorted order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.fragments))
	for id := range s.fragments {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
