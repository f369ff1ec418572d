package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"phonebook/pkg/sentinel"
)

// Redis key prefix for session rows.
const sessionKeyPrefix = "session:user:"

// RedisStore is the shared session table for multi-instance deployments. The
// key carries a TTL matching the token expiry, so abandoned sessions age out
// without a sweeper.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(userID uuid.UUID) string {
	return sessionKeyPrefix + userID.String()
}

func (s *RedisStore) Put(ctx context.Context, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	// Plain SET: overwrite-on-login is the intended behavior.
	return s.client.Set(ctx, key(sess.UserID), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, userID uuid.UUID) (Session, error) {
	payload, err := s.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, sentinel.ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, key(userID)).Err()
}
