package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	redisclient "github.com/redis/go-redis/v9"
)

// SessionStore records issued session tokens so that sign-out can revoke a
// token before its JWT expiry. Keys expire together with the token.
type SessionStore struct{}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func sessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

func (SessionStore) SaveSession(ctx context.Context, token, userID string, ttl time.Duration) error {
	client := RedisClient()
	defer client.Close()

	return client.Set(ctx, sessionKey(token), userID, ttl).Err()
}

func (SessionStore) HasSession(ctx context.Context, token string) (bool, error) {
	client := RedisClient()
	defer client.Close()

	_, err := client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redisclient.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (SessionStore) DeleteSession(ctx context.Context, token string) error {
	client := RedisClient()
	defer client.Close()

	return client.Del(ctx, sessionKey(token)).Err()
}
