package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/mmynk/pagetally/internal/models"
)

// Ensure RedisStore implements Store
var _ Store = (*RedisStore)(nil)

// RedisStore keeps drafts in Redis as JSON strings with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to redisURL. ttl <= 0 keeps drafts forever.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: c, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.Draft, bool, error) {
	raw, err := s.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read draft: %w", err)
	}

	var d models.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, false, fmt.Errorf("failed to decode draft: %w", err)
	}
	if d.Documents == nil {
		d.Documents = []models.Document{}
	}
	return &d, true, nil
}

func (s *RedisStore) Put(ctx context.Context, userID string, draft *models.Draft) error {
	raw, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, Key(userID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
