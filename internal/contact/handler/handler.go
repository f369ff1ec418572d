// Package handler is the HTTP layer for contact CRUD. All routes sit behind
// the session guard; the owner is always the authenticated identity.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"phonebook/internal/contact"
	"phonebook/internal/platform/middleware"
	dErrors "phonebook/pkg/domainerrors"
	"phonebook/pkg/httputil"
)

// Service is the owner-scoped contact API the handler exposes.
type Service interface {
	List(ctx context.Context, owner uuid.UUID) ([]contact.Contact, error)
	Get(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error)
	Create(ctx context.Context, owner uuid.UUID, name, email, phone string) (*contact.Contact, error)
	Update(ctx context.Context, id, owner uuid.UUID, upd contact.Update) (*contact.Contact, error)
	Delete(ctx context.Context, id, owner uuid.UUID) (*contact.Contact, error)
}

type Handler struct {
	logger      *slog.Logger
	contacts    Service
	requireAuth func(http.Handler) http.Handler
}

func New(contacts Service, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, contacts: contacts, requireAuth: requireAuth}
}

// Register mounts the /contacts routes behind the session guard.
func (h *Handler) Register(r chi.Router) {
	r.Route("/contacts", func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Patch("/{id}/favorite", h.handleUpdateFavorite)
		r.Delete("/{id}", h.handleDelete)
	})
}

// identity pulls the authenticated identity; the guard guarantees presence,
// so absence is a wiring bug.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Not authorized"))
	}
	return ident, ok
}

// contactID parses the {id} path parameter.
func contactID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Invalid ID"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	contacts, err := h.contacts.List(r.Context(), ident.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contacts)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	c, err := h.contacts.Get(r.Context(), id, ident.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

type createRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateCreate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	c, err := h.contacts.Create(r.Context(), ident.UserID, req.Name, req.Email, req.Phone)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func validateCreate(req createRequest) error {
	if !govalidator.StringLength(req.Name, "1", "100") {
		return dErrors.New(dErrors.CodeBadRequest, "missing required name field")
	}
	if !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeBadRequest, "missing required email field")
	}
	if !govalidator.StringLength(req.Phone, "1", "30") {
		return dErrors.New(dErrors.CodeBadRequest, "missing required phone field")
	}
	return nil
}

type updateRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Email != nil && !govalidator.IsEmail(*req.Email) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid email"))
		return
	}

	upd := contact.Update{Name: req.Name, Email: req.Email, Phone: req.Phone}
	c, err := h.contacts.Update(r.Context(), id, ident.UserID, upd)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateFavorite(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	var req struct {
		Favorite *bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Favorite == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing field favorite"))
		return
	}

	c, err := h.contacts.Update(r.Context(), id, ident.UserID, contact.Update{Favorite: req.Favorite})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := contactID(w, r)
	if !ok {
		return
	}
	c, err := h.contacts.Delete(r.Context(), id, ident.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}
