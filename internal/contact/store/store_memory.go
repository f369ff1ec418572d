package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"phonebook/internal/contact"
	"phonebook/pkg/sentinel"
)

// InMemory keeps contacts in a map for tests and local development.
type InMemory struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]contact.Contact
}

func NewInMemory() *InMemory {
	return &InMemory{contacts: make(map[uuid.UUID]contact.Contact)}
}

func (s *InMemory) List(_ context.Context, owner uuid.UUID) ([]contact.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []contact.Contact
	for _, c := range s.contacts {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) Find(_ context.Context, id, owner uuid.UUID) (*contact.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok || c.Owner != owner {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemory) Create(_ context.Context, c *contact.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[c.ID] = *c
	return nil
}

func (s *InMemory) Update(_ context.Context, id, owner uuid.UUID, upd contact.Update) (*contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok || c.Owner != owner {
		return nil, sentinel.ErrNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = *upd.Email
	}
	if upd.Phone != nil {
		c.Phone = *upd.Phone
	}
	if upd.Favorite != nil {
		c.Favorite = *upd.Favorite
	}
	s.contacts[id] = c
	return &c, nil
}

func (s *InMemory) Delete(_ context.Context, id, owner uuid.UUID) (*contact.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok || c.Owner != owner {
		return nil, sentinel.ErrNotFound
	}
	delete(s.contacts, id)
	return &c, nil
}
