package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"phonebook/internal/contact"
	"phonebook/pkg/sentinel"
)

// Postgres persists contacts with pgx. Update and Delete are single
// statements filtered by id AND owner, so the find-and-mutate is atomic at
// the database and an owner mismatch yields the same no-row result as a
// missing ID.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

const contactColumns = `id, name, email, phone, favorite, owner, created_at`

func scanContact(row pgx.Row) (*contact.Contact, error) {
	var c contact.Contact
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &c, nil
}

func (s *Postgres) List(ctx context.Context, owner uuid.UUID) ([]contact.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts WHERE owner = $1 ORDER BY created_at, id`
	rows, err := s.db.Query(ctx, q, owner)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []contact.Contact
	for rows.Next() {
		var c contact.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Favorite, &c.Owner, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Postgres) Find(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND owner = $2`
	return scanContact(s.db.QueryRow(ctx, q, id, owner))
}

func (s *Postgres) Create(ctx context.Context, c *contact.Contact) error {
	const q = `
		INSERT INTO contacts (id, owner, name, email, phone, favorite, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(ctx, q, c.ID, c.Owner, c.Name, c.Email, c.Phone, c.Favorite, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Postgres) Update(ctx context.Context, id, owner uuid.UUID, upd contact.Update) (*contact.Contact, error) {
	q := `
		UPDATE contacts SET
			name = COALESCE($3, name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			favorite = COALESCE($6, favorite)
		WHERE id = $1 AND owner = $2
		RETURNING ` + contactColumns
	return scanContact(s.db.QueryRow(ctx, q, id, owner, upd.Name, upd.Email, upd.Phone, upd.Favorite))
}

func (s *Postgres) Delete(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error) {
	q := `DELETE FROM contacts WHERE id = $1 AND owner = $2 RETURNING ` + contactColumns
	return scanContact(s.db.QueryRow(ctx, q, id, owner))
}
