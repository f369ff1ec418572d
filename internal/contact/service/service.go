// Package service applies ownership scoping to contact operations. The
// authenticated user ID arrives as an explicit argument on every call; the
// store filters by it, and a mismatch surfaces as the same NotFound a missing
// record would.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"phonebook/internal/contact"
	"phonebook/internal/contact/store"
	"phonebook/internal/platform/metrics"
	dErrors "phonebook/pkg/domainerrors"
	"phonebook/pkg/sentinel"
)

type Service struct {
	contacts store.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(contacts store.Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{contacts: contacts, metrics: m, logger: logger}
}

func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]contact.Contact, error) {
	out, err := s.contacts.List(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list contacts", err)
	}
	if out == nil {
		out = []contact.Contact{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error) {
	c, err := s.contacts.Find(ctx, id, owner)
	if err != nil {
		return nil, s.notFoundOr(err, "find contact")
	}
	return c, nil
}

// Create stamps the owner; callers cannot override it.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, name, email, phone string) (*contact.Contact, error) {
	c := &contact.Contact{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Favorite:  false,
		Owner:     owner,
		CreatedAt: time.Now(),
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "create contact", err)
	}
	s.metrics.ContactsCreated.Inc()
	return c, nil
}

// Update applies a partial update. An empty update is rejected before the
// store is touched.
func (s *Service) Update(ctx context.Context, id, owner uuid.UUID, upd contact.Update) (*contact.Contact, error) {
	if upd.Empty() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Body must have at least one field")
	}
	c, err := s.contacts.Update(ctx, id, owner, upd)
	if err != nil {
		return nil, s.notFoundOr(err, "update contact")
	}
	return c, nil
}

// Delete removes the contact and returns the removed record.
func (s *Service) Delete(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error) {
	c, err := s.contacts.Delete(ctx, id, owner)
	if err != nil {
		return nil, s.notFoundOr(err, "delete contact")
	}
	return c, nil
}

func (s *Service) notFoundOr(err error, op string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Not found")
	}
	return dErrors.Wrap(dErrors.CodeInternal, op, err)
}
