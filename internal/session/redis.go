package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"shop-api/internal/domain"
)

const cartTokenField = "cart_token"

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis stores sessions as hashes under "session:<id>", refreshing the TTL
// on every write.
func NewRedis(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{client: client, ttl: ttl}
}

func key(sessionID string) string {
	return "session:" + sessionID
}

func (s *redisStore) CartToken(ctx context.Context, sessionID string) (uuid.UUID, error) {
	raw, err := s.client.HGet(ctx, key(sessionID), cartTokenField).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("redis hget: %w", err)
	}
	token, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session %s: malformed cart token: %w", sessionID, err)
	}
	return token, nil
}

// SetCartTokenIfAbsent runs HSETNX and HGET in one MULTI block, so concurrent
// callers on the same session all read back the first token written.
func (s *redisStore) SetCartTokenIfAbsent(ctx context.Context, sessionID string, token uuid.UUID) (uuid.UUID, error) {
	var current *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key(sessionID), cartTokenField, token.String())
		if s.ttl > 0 {
			pipe.Expire(ctx, key(sessionID), s.ttl)
		}
		current = pipe.HGet(ctx, key(sessionID), cartTokenField)
		return nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis hsetnx: %w", err)
	}
	winner, err := uuid.Parse(current.Val())
	if err != nil {
		return uuid.Nil, fmt.Errorf("session %s: malformed cart token: %w", sessionID, err)
	}
	return winner, nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, key(sessionID)).Err()
}
