// Package session is the explicit session table, keyed by user ID. One row
// per user: Put overwrites unconditionally, which is what gives login its
// invalidate-previous-token semantics.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session records the single active token for a user.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store holds at most one session per user. Get returns sentinel.ErrNotFound
// when the user has no active session; Delete of a missing session is a
// no-op. Concurrent Puts for the same user are last-write-wins.
type Store interface {
	Put(ctx context.Context, s Session) error
	Get(ctx context.Context, userID uuid.UUID) (Session, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
