//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"phonebook/internal/contact"
	"phonebook/internal/contact/store"
	"phonebook/internal/platform/postgres"
	"phonebook/internal/user"
	userstore "phonebook/internal/user/store"
	"phonebook/pkg/sentinel"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *store.Postgres
	owner     uuid.UUID
	other     uuid.UUID
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("phonebook"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.Require().NoError(postgres.Migrate(ctx, dsn))
	s.pool, err = postgres.Connect(ctx, dsn)
	s.Require().NoError(err)
	s.store = store.NewPostgres(s.pool)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, "TRUNCATE users CASCADE")
	s.Require().NoError(err)

	// The owner column references users, so each test gets two real
	// accounts to scope against.
	users := userstore.NewPostgres(s.pool)
	s.owner = s.createUser(ctx, users, "owner@example.com")
	s.other = s.createUser(ctx, users, "other@example.com")
}

func (s *PostgresStoreSuite) createUser(ctx context.Context, users *userstore.Postgres, email string) uuid.UUID {
	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$10$fakehash",
		Subscription: user.SubscriptionStarter,
		CreatedAt:    time.Now(),
	}
	s.Require().NoError(users.Create(ctx, &u))
	return u.ID
}

func (s *PostgresStoreSuite) seed(owner uuid.UUID, name string, at time.Time) contact.Contact {
	c := contact.Contact{
		ID:        uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		Phone:     "(111) 111-1111",
		Owner:     owner,
		CreatedAt: at,
	}
	s.Require().NoError(s.store.Create(context.Background(), &c))
	return c
}

func (s *PostgresStoreSuite) TestListOrderedAndScoped() {
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)
	first := s.seed(s.owner, "alice", now)
	second := s.seed(s.owner, "bob", now.Add(time.Second))
	s.seed(s.other, "mallory", now)

	out, err := s.store.List(ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(first.ID, out[0].ID)
	s.Equal(second.ID, out[1].ID)
}

func (s *PostgresStoreSuite) TestFindScopedToOwner() {
	ctx := context.Background()
	c := s.seed(s.owner, "alice", time.Now())

	got, err := s.store.Find(ctx, c.ID, s.owner)
	s.Require().NoError(err)
	s.Equal("alice", got.Name)

	_, err = s.store.Find(ctx, c.ID, s.other)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestPartialUpdate() {
	ctx := context.Background()
	c := s.seed(s.owner, "alice", time.Now())

	fav := true
	got, err := s.store.Update(ctx, c.ID, s.owner, contact.Update{Favorite: &fav})
	s.Require().NoError(err)
	s.True(got.Favorite)
	s.Equal("alice", got.Name, "unset fields keep their stored value")

	name := "alice cooper"
	_, err = s.store.Update(ctx, c.ID, s.other, contact.Update{Name: &name})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDeleteReturnsRow() {
	ctx := context.Background()
	c := s.seed(s.owner, "alice", time.Now())

	_, err := s.store.Delete(ctx, c.ID, s.other)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	got, err := s.store.Delete(ctx, c.ID, s.owner)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)

	_, err = s.store.Find(ctx, c.ID, s.owner)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestOwnerCascadeDelete() {
	ctx := context.Background()
	s.seed(s.owner, "alice", time.Now())

	_, err := s.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", s.owner)
	s.Require().NoError(err)

	out, err := s.store.List(ctx, s.owner)
	s.Require().NoError(err)
	s.Empty(out, "deleting the account removes its contacts")
}
