// Package contact defines per-user contact records. Every access is scoped
// by owner; a contact owned by someone else looks exactly like one that does
// not exist.
package contact

import (
	"time"

	"github.com/google/uuid"
)

// Contact is one address book entry. Owner is stamped at creation and never
// changes; it is not part of the wire representation.
type Contact struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Favorite  bool      `json:"favorite"`
	Owner     uuid.UUID `json:"-"`
	CreatedAt time.Time `json:"-"`
}

// Update is a partial update; nil fields keep their prior value.
type Update struct {
	Name     *string
	Email    *string
	Phone    *string
	Favorite *bool
}

// Empty reports whether the update would change nothing.
func (u Update) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Phone == nil && u.Favorite == nil
}
