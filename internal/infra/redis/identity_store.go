package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const identityKey = "trivia:username"

// IdentityStore persists the player name in Redis, using native key expiry
// for the bounded lifetime the identity record requires.
type IdentityStore struct {
	client *redis.Client
}

func NewIdentityStore(client *redis.Client) *IdentityStore {
	return &IdentityStore{client: client}
}

func (s *IdentityStore) Save(ctx context.Context, username string, ttl time.Duration) error {
	return s.client.Set(ctx, identityKey, username, ttl).Err()
}

// Load returns "" when the key is missing or has expired.
func (s *IdentityStore) Load(ctx context.Context) (string, error) {
	username, err := s.client.Get(ctx, identityKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (s *IdentityStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, identityKey).Err()
}
