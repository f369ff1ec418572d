// Package store persists user accounts. Implementations return sentinel
// errors; services translate them into domain errors.
package store

import (
	"context"

	"github.com/google/uuid"

	"phonebook/internal/user"
)

// Store is the credential store. Create returns sentinel.ErrConflict when the
// email is already taken. Lookups return sentinel.ErrNotFound for missing
// records. ConsumeVerificationToken must be atomic: the token is nulled in
// the same operation that sets verified, so it cannot be replayed.
type Store interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) (*user.User, error)
	RotateVerificationToken(ctx context.Context, id uuid.UUID, token string) error
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error
}
