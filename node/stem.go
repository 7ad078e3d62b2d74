package node

import (
	"strconv"
	"sync"
)

// NewStem creates a name generator producing stem1, stem2, ... and skipping names already in namespace.
// The nil namespace is treated as a free namespace, meaning all names are available.
func NewStem(stem string, namespace map[string]struct{}) *Stem {
	taken := make(map[string]struct{}, len(namespace))
	for name := range namespace {
		taken[name] = struct{}{}
	}

	return &Stem{
		taken: taken,
		stem:  stem,
	}
}

// Stem generates unique names. It is safe for concurrent use.
type Stem struct {
	mu    sync.Mutex
	taken map[string]struct{}
	stem  string
	last  int
}

// Next returns the next free generated name.
func (s *Stem) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		s.last++
		name := s.stem + strconv.Itoa(s.last)

		if _, ok := s.taken[name]; !ok {
			s.taken[name] = struct{}{}
			return name
		}
	}
}

// Reserve claims an explicit name. It reports false if the name is already taken.
func (s *Stem) Reserve(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.taken[name]; ok {
		return false
	}

	s.taken[name] = struct{}{}

	return true
}
