// Package service implements the account lifecycle: registration, email
// verification, login, logout, and avatar updates. State is the pair
// (verified, active session); transitions are guarded here and persistence is
// delegated to the user and session stores.
package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"phonebook/internal/auth/password"
	"phonebook/internal/auth/session"
	"phonebook/internal/auth/token"
	"phonebook/internal/avatar"
	"phonebook/internal/mail"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/user"
	"phonebook/internal/user/store"
	dErrors "phonebook/pkg/domainerrors"
	"phonebook/pkg/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mocks.go -package=mocks MailDispatcher

// MailDispatcher enqueues a message for asynchronous delivery. Dispatch must
// not block and must not fail the calling operation.
type MailDispatcher interface {
	Dispatch(m mail.Message)
}

// Service coordinates the credential store, the session table, token
// issuance, and mail dispatch.
type Service struct {
	users    store.Store
	sessions session.Store
	tokens   *token.Service
	mail     MailDispatcher
	avatars  avatar.Storage
	metrics  *metrics.Metrics
	logger   *slog.Logger
	baseURL  string
}

func New(
	users store.Store,
	sessions session.Store,
	tokens *token.Service,
	dispatcher MailDispatcher,
	avatars avatar.Storage,
	m *metrics.Metrics,
	logger *slog.Logger,
	baseURL string,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		mail:     dispatcher,
		avatars:  avatars,
		metrics:  m,
		logger:   logger,
		baseURL:  baseURL,
	}
}

// Register creates an unverified account and dispatches the verification
// mail. The duplicate check runs before the insert so the conflict message
// stays generic; the store's unique index still backstops the race, and both
// paths surface the same Conflict error.
func (s *Service) Register(ctx context.Context, email, plaintext string) (*user.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, dErrors.New(dErrors.CodeConflict, "Email in use")
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(dErrors.CodeInternal, "lookup user", err)
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "hash password", err)
	}

	u := &user.User{
		ID:                uuid.New(),
		Email:             email,
		PasswordHash:      hash,
		Subscription:      user.SubscriptionStarter,
		AvatarURL:         gravatarURL(email),
		Verified:          false,
		VerificationToken: uuid.NewString(),
		CreatedAt:         time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "Email in use")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "create user", err)
	}

	s.metrics.UsersRegistered.Inc()
	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	s.sendVerification(u.Email, u.VerificationToken)
	return u, nil
}

// Login checks credentials and verification state, then issues a token and
// overwrites the session row. The overwrite is what invalidates every
// previously issued token for the user, expired or not.
func (s *Service) Login(ctx context.Context, email, plaintext string) (string, *user.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Email or password is wrong")
		}
		return "", nil, dErrors.Wrap(dErrors.CodeInternal, "lookup user", err)
	}
	if !password.Verify(plaintext, u.PasswordHash) {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Email or password is wrong")
	}
	// Unverified accounts are told so; login failure reasons are considered
	// acceptable to disclose, unlike session guard rejections.
	if !u.Verified {
		return "", nil, dErrors.New(dErrors.CodeUnauthorized, "Email not verified")
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, dErrors.Wrap(dErrors.CodeInternal, "issue token", err)
	}
	now := time.Now()
	err = s.sessions.Put(ctx, session.Session{
		UserID:    u.ID,
		Token:     tok,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokens.TTL()),
	})
	if err != nil {
		return "", nil, dErrors.Wrap(dErrors.CodeInternal, "store session", err)
	}

	s.metrics.Logins.Inc()
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return tok, u, nil
}

// Logout removes the user's session row.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "delete session", err)
	}
	return nil
}

// Current returns the account behind an authenticated identity.
func (s *Service) Current(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Not authorized")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "lookup user", err)
	}
	return u, nil
}

// VerifyEmail consumes a verification token. The store nulls the token in
// the same operation that sets verified, so a replay finds nothing.
func (s *Service) VerifyEmail(ctx context.Context, verificationToken string) error {
	_, err := s.users.ConsumeVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "consume verification token", err)
	}
	return nil
}

// ResendVerification rotates the verification token, invalidating the
// previous one, and dispatches a fresh mail.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "User not found")
		}
		return dErrors.Wrap(dErrors.CodeInternal, "lookup user", err)
	}
	if u.Verified {
		return dErrors.New(dErrors.CodeConflict, "Verification has already been passed")
	}

	newToken := uuid.NewString()
	if err := s.users.RotateVerificationToken(ctx, u.ID, newToken); err != nil {
		return dErrors.Wrap(dErrors.CodeInternal, "rotate verification token", err)
	}
	s.sendVerification(u.Email, newToken)
	return nil
}

// UpdateAvatar normalizes the upload, stores it keyed by the user ID, and
// records the resulting URL on the account.
func (s *Service) UpdateAvatar(ctx context.Context, userID uuid.UUID, upload io.Reader) (string, error) {
	img, err := avatar.Normalize(upload)
	if err != nil {
		return "", err
	}
	url, err := s.avatars.Save(ctx, userID, img)
	if err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "store avatar", err)
	}
	if err := s.users.UpdateAvatarURL(ctx, userID, url); err != nil {
		return "", dErrors.Wrap(dErrors.CodeInternal, "update avatar url", err)
	}
	return url, nil
}

// sendVerification enqueues the verification mail. Delivery is fire-and-
// forget for the caller; the dispatcher worker logs and counts the outcome.
func (s *Service) sendVerification(email, verificationToken string) {
	link := s.baseURL + "/api/users/verify/" + verificationToken
	s.mail.Dispatch(mail.Message{
		To:      email,
		Subject: "Verify your email",
		HTMLBody: fmt.Sprintf(
			`<p>Welcome to Phonebook! Please <a href="%s">verify your email</a> to activate your account.</p>`,
			link,
		),
	})
}

// gravatarURL derives the default avatar for a fresh account.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=retro", sum)
}
