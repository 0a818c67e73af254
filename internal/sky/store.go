package sky

import "sync"

// Store holds the star set currently on screen. Loads write into it from
// background goroutines while the render loop reads snapshots every frame.
type Store struct {
	mu         sync.RWMutex
	stars      []Star
	fallback   bool
	generation uint64
}

// Set replaces the current stars and bumps the generation.
func (s *Store) Set(stars []Star, fallback bool) {
	s.mu.Lock()
	s.stars = stars
	s.fallback = fallback
	s.generation++
	s.mu.Unlock()
}

// Snapshot returns the current stars. The slice is shared and must not be
// modified by the caller.
func (s *Store) Snapshot() []Star {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stars
}

// Len returns the number of stars currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stars)
}

// Fallback reports whether the current stars are synthetic.
func (s *Store) Fallback() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fallback
}

// Generation increases each time Set is called.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
