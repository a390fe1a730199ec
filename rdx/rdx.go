package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenHash = "tokki"

// Connect opens a redis client and verifies the connection.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// TokenCache stores issued access tokens per user so logout can revoke
// them before they expire.
type TokenCache struct {
	conn *redis.Client
}

func NewTokenCache(conn *redis.Client) *TokenCache {
	return &TokenCache{conn: conn}
}

func (t *TokenCache) Put(ctx context.Context, userID, token string) error {
	return t.conn.HSet(ctx, tokenHash, userID, token).Err()
}

func (t *TokenCache) Revoke(ctx context.Context, userID string) error {
	return t.conn.HDel(ctx, tokenHash, userID).Err()
}

func (t *TokenCache) Get(ctx context.Context, userID string) (string, error) {
	return t.conn.HGet(ctx, tokenHash, userID).Result()
}
