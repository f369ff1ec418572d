package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"phonebook/pkg/sentinel"
)

// InMemory keeps sessions in a map for tests and single-instance deployments
// without Redis.
type InMemory struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

func NewInMemory() *InMemory {
	return &InMemory{sessions: make(map[uuid.UUID]Session)}
}

func (s *InMemory) Put(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = sess
	return nil
}

func (s *InMemory) Get(_ context.Context, userID uuid.UUID) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok || time.Now().After(sess.ExpiresAt) {
		return Session{}, sentinel.ErrNotFound
	}
	return sess, nil
}

func (s *InMemory) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
