package inmemory

import (
	"fmt"
	"sync"

	"github.com/mohammad-safakhou/gradpath/profile"
)

// Store is an in-memory profile store. Profiles live for the process lifetime
// of their session; there is no persistence across restarts.
type Store struct {
	profiles map[string]*profile.StudentProfile
	mu       sync.RWMutex
}

func NewInMemoryProfileStore() *Store {
	return &Store{profiles: make(map[string]*profile.StudentProfile)}
}

// Get returns a copy of the session's profile, creating a default-valued
// profile if the session is new.
func (s *Store) Get(sessionID string) profile.StudentProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ensure(sessionID)
}

// Update applies each supplied field only if its value is a non-empty string
// and the field name is recognized. Unknown names and nil values are skipped.
// The merge never clears a field.
func (s *Store) Update(sessionID string, updates map[string]any) profile.StudentProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ensure(sessionID)
	for field, value := range updates {
		if value == nil {
			continue
		}
		str, ok := value.(string)
		if !ok {
			// The model occasionally emits numbers for gpa and scores
			str = fmt.Sprintf("%v", value)
		}
		if str == "" {
			continue
		}
		p.Apply(field, str)
	}
	return *p
}

// Snapshot returns a plain map view of the session's profile.
func (s *Store) Snapshot(sessionID string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensure(sessionID).Fields()
}

// ensure must be called with the lock held.
func (s *Store) ensure(sessionID string) *profile.StudentProfile {
	p, ok := s.profiles[sessionID]
	if !ok {
		p = &profile.StudentProfile{}
		s.profiles[sessionID] = p
	}
	return p
}
