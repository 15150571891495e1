package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionTTL bounds how long an abandoned dialog stays open.
const sessionTTL = 10 * time.Minute

// RedisStore keeps dialog stages in Redis so they survive restarts.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Stage(ctx context.Context, chatID int64) (Stage, error) {
	v, err := s.rdb.Get(ctx, sessionKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return StageIdle, nil
	}
	if err != nil {
		return StageIdle, fmt.Errorf("failed to read session: %w", err)
	}
	return Stage(v), nil
}

func (s *RedisStore) SetStage(ctx context.Context, chatID int64, st Stage) error {
	if err := s.rdb.Set(ctx, sessionKey(chatID), string(st), sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.rdb.Del(ctx, sessionKey(chatID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func sessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
