package memory

import (
	"context"
	"sync"

	"github.com/hati-ai/hati-agent/internal/domain"
)

// ProfileStore is an in-memory domain.ProfileStore. Not persistent; used
// in local mode and tests.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[domain.UserID]*domain.SessionProfile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[domain.UserID]*domain.SessionProfile),
	}
}

func (s *ProfileStore) Get(ctx context.Context, userID domain.UserID) (*domain.SessionProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}

	// Copy so callers mutate their own view until Update.
	cp := *p
	cp.MoodHistory = append([]domain.MoodEntry(nil), p.MoodHistory...)
	cp.PreferredGenres = append([]string(nil), p.PreferredGenres...)
	cp.Preferences = make(map[string]string, len(p.Preferences))
	for k, v := range p.Preferences {
		cp.Preferences[k] = v
	}
	return &cp, nil
}

func (s *ProfileStore) Update(ctx context.Context, profile *domain.SessionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *profile
	cp.MoodHistory = append([]domain.MoodEntry(nil), profile.MoodHistory...)
	cp.PreferredGenres = append([]string(nil), profile.PreferredGenres...)
	cp.Preferences = make(map[string]string, len(profile.Preferences))
	for k, v := range profile.Preferences {
		cp.Preferences[k] = v
	}
	s.profiles[profile.UserID] = &cp
	return nil
}
