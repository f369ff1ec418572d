package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"phonebook/internal/contact"
	"phonebook/pkg/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	owner uuid.UUID
	other uuid.UUID
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.owner = uuid.New()
	s.other = uuid.New()
}

func (s *InMemoryStoreSuite) seed(owner uuid.UUID, name string, at time.Time) contact.Contact {
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

func (s *InMemoryStoreSuite) TestListScopedToOwner() {
	now := time.Now()
	first := s.seed(s.owner, "alice", now)
	second := s.seed(s.owner, "bob", now.Add(time.Second))
	s.seed(s.other, "mallory", now)

	out, err := s.store.List(context.Background(), s.owner)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(first.ID, out[0].ID)
	s.Equal(second.ID, out[1].ID)
}

func (s *InMemoryStoreSuite) TestFind() {
	c := s.seed(s.owner, "alice", time.Now())

	got, err := s.store.Find(context.Background(), c.ID, s.owner)
	s.Require().NoError(err)
	s.Equal(c.Name, got.Name)

	_, err = s.store.Find(context.Background(), c.ID, s.other)
	s.Require().ErrorIs(err, sentinel.ErrNotFound, "another owner's lookup must look like a missing record")

	_, err = s.store.Find(context.Background(), uuid.New(), s.owner)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestUpdate() {
	c := s.seed(s.owner, "alice", time.Now())

	newName := "alice cooper"
	fav := true
	got, err := s.store.Update(context.Background(), c.ID, s.owner, contact.Update{Name: &newName, Favorite: &fav})
	s.Require().NoError(err)
	s.Equal("alice cooper", got.Name)
	s.True(got.Favorite)
	s.Equal(c.Email, got.Email, "fields absent from the update keep their value")

	_, err = s.store.Update(context.Background(), c.ID, s.other, contact.Update{Name: &newName})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDelete() {
	c := s.seed(s.owner, "alice", time.Now())

	_, err := s.store.Delete(context.Background(), c.ID, s.other)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.Find(context.Background(), c.ID, s.owner)
	s.Require().NoError(err, "a failed cross-owner delete must not remove the record")

	got, err := s.store.Delete(context.Background(), c.ID, s.owner)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)

	_, err = s.store.Find(context.Background(), c.ID, s.owner)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
