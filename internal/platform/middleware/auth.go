// Package middleware holds the session guard. It turns an Authorization
// header into an authenticated identity on the request context, or rejects
// the request.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"phonebook/internal/auth/session"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/user"
	dErrors "phonebook/pkg/domainerrors"
	"phonebook/pkg/httputil"
	"phonebook/pkg/sentinel"
)

// TokenValidator verifies a bearer token and returns the user ID claim.
type TokenValidator interface {
	Validate(tokenString string) (uuid.UUID, error)
}

// UserResolver loads the account behind a token's identity claim.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// SessionReader reads the current session row for a user.
type SessionReader interface {
	Get(ctx context.Context, userID uuid.UUID) (session.Session, error)
}

// Identity is the minimal authenticated identity attached to the context.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type identityKey struct{}

// GetIdentity retrieves the authenticated identity from the context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(Identity)
	return ident, ok
}

// WithIdentity returns a context carrying ident. Exported for handler tests.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// RequireAuth is the session guard. The header must be exactly
// "Bearer <token>"; the token must verify; the user must exist; and the
// presented token must equal the stored current token, which is what makes
// older tokens invalid after a new login. Every rejection collapses to the
// same 401 body so callers cannot tell which check failed; the reason is
// logged and counted instead.
func RequireAuth(tokens TokenValidator, users UserResolver, sessions SessionReader, logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			reject := func(reason string, err error) {
				logger.WarnContext(ctx, "request not authorized",
					"reason", reason,
					"error", err,
					"request_id", chimw.GetReqID(ctx),
				)
				m.AuthRejected.WithLabelValues(reason).Inc()
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Not authorized"))
			}

			parts := strings.Split(r.Header.Get("Authorization"), " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				reject("malformed_header", nil)
				return
			}
			presented := parts[1]

			userID, err := tokens.Validate(presented)
			if err != nil {
				reject("invalid_token", err)
				return
			}

			u, err := users.FindByID(ctx, userID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					reject("unknown_user", nil)
					return
				}
				logger.ErrorContext(ctx, "user lookup failed",
					"error", err,
					"request_id", chimw.GetReqID(ctx),
				)
				httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "lookup user", err))
				return
			}

			sess, err := sessions.Get(ctx, userID)
			if err != nil {
				if errors.Is(err, sentinel.ErrNotFound) {
					reject("no_active_session", nil)
					return
				}
				logger.ErrorContext(ctx, "session lookup failed",
					"error", err,
					"request_id", chimw.GetReqID(ctx),
				)
				httputil.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "lookup session", err))
				return
			}
			if sess.Token != presented {
				reject("token_superseded", nil)
				return
			}

			ctx = WithIdentity(ctx, Identity{UserID: u.ID, Email: u.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
