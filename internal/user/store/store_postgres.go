package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"phonebook/internal/user"
	"phonebook/pkg/sentinel"
)

// uniqueViolation is the Postgres error code for unique constraint breaches.
const uniqueViolation = "23505"

// Postgres persists users with pgx. All mutations are single statements, so
// per-record atomicity comes from the database.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

const userColumns = `id, email, password_hash, subscription, avatar_url, verified, COALESCE(verification_token, ''), created_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Subscription,
		&u.AvatarURL, &u.Verified, &u.VerificationToken, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (s *Postgres) Create(ctx context.Context, u *user.User) error {
	const q = `
		INSERT INTO users (id, email, password_hash, subscription, avatar_url, verified, verification_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)`
	_, err := s.db.Exec(ctx, q, u.ID, u.Email, u.PasswordHash, u.Subscription,
		u.AvatarURL, u.Verified, u.VerificationToken, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.db.QueryRow(ctx, q, id))
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRow(ctx, q, email))
}

func (s *Postgres) ConsumeVerificationToken(ctx context.Context, token string) (*user.User, error) {
	if token == "" {
		return nil, sentinel.ErrNotFound
	}
	// Single statement: verified flips and the token is nulled atomically, so
	// a second consume of the same token finds no row.
	q := `
		UPDATE users SET verified = TRUE, verification_token = NULL
		WHERE verification_token = $1
		RETURNING ` + userColumns
	return scanUser(s.db.QueryRow(ctx, q, token))
}

func (s *Postgres) RotateVerificationToken(ctx context.Context, id uuid.UUID, token string) error {
	const q = `UPDATE users SET verification_token = $2 WHERE id = $1`
	tag, err := s.db.Exec(ctx, q, id, token)
	if err != nil {
		return fmt.Errorf("rotate verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdateAvatarURL(ctx context.Context, id uuid.UUID, avatarURL string) error {
	const q = `UPDATE users SET avatar_url = $2 WHERE id = $1`
	tag, err := s.db.Exec(ctx, q, id, avatarURL)
	if err != nil {
		return fmt.Errorf("update avatar url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
