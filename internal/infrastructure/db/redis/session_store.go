package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pokebattle/battle-api/internal/core/domain"
)

const sessionKeyPrefix = "session:"

// SessionStore tracks live session tokens by their token id.
// Key format: session:<jti>, value: user id.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tokenID), userID, ttl).Err(); err != nil {
		return unavailable("session save", err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, tokenID string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(tokenID)).Result()
	if err != nil {
		if isNil(err) {
			return "", domain.ErrUnauthorized
		}
		return "", unavailable("session lookup", err)
	}
	return userID, nil
}

func (s *SessionStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil {
		return unavailable("session delete", err)
	}
	return nil
}

func (s *SessionStore) key(tokenID string) string {
	return sessionKeyPrefix + tokenID
}
