package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"phonebook/internal/user"
	"phonebook/pkg/sentinel"
)

// InMemory keeps users in a map. It backs tests and local development and
// intentionally favors clarity over performance.
type InMemory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]user.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[uuid.UUID]user.User)}
}

func (s *InMemory) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return sentinel.ErrConflict
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ConsumeVerificationToken(_ context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, sentinel.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.VerificationToken == token {
			u.Verified = true
			u.VerificationToken = ""
			s.users[id] = u
			return &u, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) RotateVerificationToken(_ context.Context, id uuid.UUID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.VerificationToken = token
	s.users[id] = u
	return nil
}

func (s *InMemory) UpdateAvatarURL(_ context.Context, id uuid.UUID, avatarURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.AvatarURL = avatarURL
	s.users[id] = u
	return nil
}
