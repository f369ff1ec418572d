// Package store persists contacts. Every operation takes the owner as a
// filter; sentinel.ErrNotFound covers both a missing ID and an owner
// mismatch, so the two are indistinguishable upstream.
package store

import (
	"context"

	"github.com/google/uuid"

	"phonebook/internal/contact"
)

// Store is the contact store. Update and Delete are atomic find-and-mutate
// operations against a single record; List order is stable within one store
// snapshot (creation order).
type Store interface {
	List(ctx context.Context, owner uuid.UUID) ([]contact.Contact, error)
	Find(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error)
	Create(ctx context.Context, c *contact.Contact) error
	Update(ctx context.Context, id, owner uuid.UUID, upd contact.Update) (*contact.Contact, error)
	Delete(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error)
}
