// Package store holds the Result Store (spec.md §4.5): a collector of
// Matches, keyed by the pattern name that produced them,
// guarded by a single exclusion primitive (grounded on the teacher's
// pkg/store/memory.go MemoryStore, scoped down to the one collection
// this engine needs).
package store

import (
	"sync"

	"github.com/advanced-security/patterntest/pkg/types"
)

// Store collects matches across one or more scans, grouped by pattern
// name. It is safe for concurrent use by multiple scanning goroutines.
type Store struct {
	mu      sync.Mutex
	matches map[string][]*types.Match
}

// New returns an empty Store.
func New() *Store {
	return &Store{matches: make(map[string][]*types.Match)}
}

// Add records match against patternName. Order of insertion within a
// pattern's slice is preserved, matching the order Add was called in.
func (s *Store) Add(patternName string, match *types.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[patternName] = append(s.matches[patternName], match)
}

// AddAll is a convenience for recording every match in matches against
// patternName in one locked section.
func (s *Store) AddAll(patternName string, matches []*types.Match) {
	if len(matches) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[patternName] = append(s.matches[patternName], matches...)
}

// Get returns a copy of the matches recorded for patternName, or nil
// if none were recorded.
func (s *Store) Get(patternName string) []*types.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.matches[patternName]
	if len(existing) == 0 {
		return nil
	}
	out := make([]*types.Match, len(existing))
	copy(out, existing)
	return out
}

// All returns a copy of every recorded match, across every pattern,
// for callers that need a flat view (e.g. the combined CSV snapshot).
func (s *Store) All() []*types.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.Match
	for _, ms := range s.matches {
		out = append(out, ms...)
	}
	return out
}

// Clear empties the store, used between independent runs (e.g. fixture
// test vs. dry-run scan) that must not see each other's matches.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = make(map[string][]*types.Match)
}

// PatternNames returns the set of pattern names with at least one
// recorded match.
func (s *Store) PatternNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.matches))
	for name := range s.matches {
		names = append(names, name)
	}
	return names
}
