// Package handler is the HTTP layer for account operations. It validates
// input, delegates to the auth service, and translates domain errors.
package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"phonebook/internal/platform/middleware"
	"phonebook/internal/user"
	dErrors "phonebook/pkg/domainerrors"
	"phonebook/pkg/httputil"
)

// maxAvatarUpload bounds the multipart form held in memory.
const maxAvatarUpload = 10 << 20

// Service is the account lifecycle the handler exposes.
type Service interface {
	Register(ctx context.Context, email, password string) (*user.User, error)
	Login(ctx context.Context, email, password string) (string, *user.User, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Current(ctx context.Context, userID uuid.UUID) (*user.User, error)
	VerifyEmail(ctx context.Context, verificationToken string) error
	ResendVerification(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, userID uuid.UUID, upload io.Reader) (string, error)
}

type Handler struct {
	logger      *slog.Logger
	auth        Service
	requireAuth func(http.Handler) http.Handler
}

func New(auth Service, requireAuth func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, auth: auth, requireAuth: requireAuth}
}

// Register mounts the /users routes. Login, registration, and verification
// are public; everything else passes the session guard.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Get("/verify/{verificationToken}", h.handleVerify)
		r.Post("/verify", h.handleResendVerification)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/logout", h.handleLogout)
			r.Get("/current", h.handleCurrent)
			r.Patch("/avatars", h.handleUpdateAvatar)
		})
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

func toUserPayload(u *user.User) userPayload {
	return userPayload{Email: u.Email, Subscription: string(u.Subscription)}
}

func validateCredentials(req credentialsRequest) error {
	if !govalidator.IsEmail(req.Email) || !govalidator.StringLength(req.Email, "3", "255") {
		return dErrors.New(dErrors.CodeBadRequest, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "6", "64") {
		return dErrors.New(dErrors.CodeBadRequest, "password must be 6 to 64 characters")
	}
	return nil
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateCredentials(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	u, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]userPayload{"user": toUserPayload(u)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateCredentials(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, u, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		Token string      `json:"token"`
		User  userPayload `json:"user"`
	}{Token: token, User: toUserPayload(u)})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Not authorized"))
		return
	}
	if err := h.auth.Logout(r.Context(), ident.UserID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Not authorized"))
		return
	}
	u, err := h.auth.Current(r.Context(), ident.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toUserPayload(u))
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	verificationToken := chi.URLParam(r, "verificationToken")
	if err := h.auth.VerifyEmail(r.Context(), verificationToken); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Verification successful")
}

func (h *Handler) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing required field email"))
		return
	}
	if !govalidator.IsEmail(req.Email) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid email"))
		return
	}

	if err := h.auth.ResendVerification(r.Context(), req.Email); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Verification email sent")
}

func (h *Handler) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.GetIdentity(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Not authorized"))
		return
	}

	if err := r.ParseMultipartForm(maxAvatarUpload); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}
	file, _, err := r.FormFile("avatar")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "avatar file is required"))
		return
	}
	defer file.Close()

	url, err := h.auth.UpdateAvatar(r.Context(), ident.UserID, file)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"avatarURL": url})
}
