package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"phonebook/internal/contact"
	"phonebook/internal/contact/service"
	"phonebook/internal/contact/store"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/platform/middleware"
	"phonebook/pkg/testutil"
)

// identityAs stands in for the session guard and injects a fixed identity.
// The guard itself is covered in the middleware package.
func identityAs(ident *middleware.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), *ident)))
		})
	}
}

type ContactHandlerSuite struct {
	suite.Suite
	router chi.Router
	ident  middleware.Identity
}

func TestContactHandlerSuite(t *testing.T) {
	suite.Run(t, new(ContactHandlerSuite))
}

func (s *ContactHandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	svc := service.New(store.NewInMemory(), metrics.NewWith(prometheus.NewRegistry()), logger)
	s.ident = middleware.Identity{UserID: uuid.New(), Email: "owner@example.com"}

	s.router = chi.NewRouter()
	New(svc, identityAs(&s.ident), logger).Register(s.router)
}

// asOwner switches which identity the stub guard injects.
func (s *ContactHandlerSuite) asOwner(id uuid.UUID) {
	s.ident = middleware.Identity{UserID: id, Email: "other@example.com"}
}

func (s *ContactHandlerSuite) create(name, email, phone string) contact.Contact {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts", map[string]string{
		"name":  name,
		"email": email,
		"phone": phone,
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return *testutil.UnmarshalResponse[contact.Contact](s.T(), rr)
}

func (s *ContactHandlerSuite) TestCreateAndGet() {
	created := s.create("alice", "alice@example.com", "(111) 111-1111")
	s.NotEqual(uuid.Nil, created.ID)
	s.False(created.Favorite)

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/contacts/"+created.ID.String(), nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.UnmarshalResponse[contact.Contact](s.T(), rr)
	s.Equal("alice", got.Name)
	s.Equal("alice@example.com", got.Email)
}

func (s *ContactHandlerSuite) TestCreateValidation() {
	cases := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{"missing name", map[string]string{"email": "a@example.com", "phone": "123"}, "missing required name field"},
		{"bad email", map[string]string{"name": "a", "email": "not-an-email", "phone": "123"}, "missing required email field"},
		{"missing phone", map[string]string{"name": "a", "email": "a@example.com"}, "missing required phone field"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/contacts", tc.body))
			testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
			testutil.AssertMessage(s.T(), rr, tc.message)
		})
	}
}

func (s *ContactHandlerSuite) TestListIsOwnerScoped() {
	s.create("alice", "alice@example.com", "(111) 111-1111")
	s.create("bob", "bob@example.com", "(222) 222-2222")

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/contacts", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	mine := testutil.UnmarshalResponse[[]contact.Contact](s.T(), rr)
	s.Len(*mine, 2)

	s.asOwner(uuid.New())
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/contacts", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq("[]", rr.Body.String(), "an empty collection serializes as [], not null")
}

func (s *ContactHandlerSuite) TestCrossOwnerAccessIsNotFound() {
	created := s.create("alice", "alice@example.com", "(111) 111-1111")

	s.asOwner(uuid.New())
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/contacts/"+created.ID.String(), nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
	testutil.AssertMessage(s.T(), rr, "Not found")

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/contacts/"+created.ID.String(), nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func (s *ContactHandlerSuite) TestInvalidID() {
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/contacts/not-a-uuid", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertMessage(s.T(), rr, "Invalid ID")
}

func (s *ContactHandlerSuite) TestUpdate() {
	created := s.create("alice", "alice@example.com", "(111) 111-1111")

	s.Run("partial update keeps other fields", func() {
		rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPut, "/contacts/"+created.ID.String(), map[string]string{
			"name": "alice cooper",
		}))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		got := testutil.UnmarshalResponse[contact.Contact](s.T(), rr)
		s.Equal("alice cooper", got.Name)
		s.Equal("alice@example.com", got.Email)
	})

	s.Run("empty body is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPut, "/contacts/"+created.ID.String(), `{}`))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertMessage(s.T(), rr, "Body must have at least one field")
	})
}

func (s *ContactHandlerSuite) TestUpdateFavorite() {
	created := s.create("alice", "alice@example.com", "(111) 111-1111")

	s.Run("sets the flag", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/contacts/"+created.ID.String()+"/favorite", `{"favorite":true}`))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		got := testutil.UnmarshalResponse[contact.Contact](s.T(), rr)
		s.True(got.Favorite)
	})

	s.Run("missing field", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/contacts/"+created.ID.String()+"/favorite", `{}`))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertMessage(s.T(), rr, "missing field favorite")
	})

	s.Run("false is a valid value", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodPatch, "/contacts/"+created.ID.String()+"/favorite", `{"favorite":false}`))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		got := testutil.UnmarshalResponse[contact.Contact](s.T(), rr)
		s.False(got.Favorite)
	})
}

func (s *ContactHandlerSuite) TestDeleteReturnsRemovedRecord() {
	created := s.create("alice", "alice@example.com", "(111) 111-1111")

	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodDelete, "/contacts/"+created.ID.String(), nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	got := testutil.UnmarshalResponse[contact.Contact](s.T(), rr)
	s.Equal(created.ID, got.ID)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodGet, "/contacts/"+created.ID.String(), nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}
