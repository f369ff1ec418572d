// Package token issues and verifies the signed bearer tokens that carry a
// user identity claim and an absolute expiry.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "phonebook/pkg/domainerrors"
)

// Claims are the JWT claims embedded in access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Service signs and validates tokens under a process-wide secret loaded once
// at startup. The TTL is fixed per deployment (6h by default); see config.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

func NewService(signingKey string, ttl time.Duration) *Service {
	return &Service{signingKey: []byte(signingKey), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID expiring exactly TTL from now. The jti
// makes every issued token distinct even within one timestamp second, so an
// old token never collides with the session table's current one.
func (s *Service) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.signingKey)
}

// Validate checks signature and expiry and returns the user ID claim. Every
// failure maps to an unauthorized domain error; expiry is compared exactly,
// with no leeway.
func (s *Service) Validate(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, dErrors.Wrap(dErrors.CodeUnauthorized, "token has expired", err)
		}
		return uuid.Nil, dErrors.Wrap(dErrors.CodeUnauthorized, "invalid token", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(dErrors.CodeUnauthorized, "invalid token", err)
	}
	return userID, nil
}
