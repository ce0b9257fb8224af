package rating

import (
	"context"
	"sync"
)

// StaticSource is an in-process Source backed by a map.
type StaticSource struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewStaticSource(profiles ...Profile) *StaticSource {
	s := &StaticSource{profiles: make(map[string]Profile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.UserID] = p
	}
	return s
}

// Put replaces the stored profile for p.UserID.
func (s *StaticSource) Put(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

func (s *StaticSource) GetProfile(_ context.Context, userID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}
