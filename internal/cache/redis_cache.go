package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/config"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// RedisConversationCache implements ConversationCache on Redis.
type RedisConversationCache struct {
	client *redis.Client
	prefix string
}

func NewRedisConversationCache(cfg config.RedisConfig, prefix string) (*RedisConversationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisConversationCache{
		client: client,
		prefix: prefix,
	}, nil
}

// BuildKey canonicalizes the pair so both directions share one entry.
func (c *RedisConversationCache) BuildKey(userA, userB string) string {
	low, high := domain.CanonicalPair(userA, userB)
	return fmt.Sprintf("%s:%s:%s", c.prefix, low, high)
}

func (c *RedisConversationCache) Get(ctx context.Context, key string) ([]domain.DirectMessage, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var messages []domain.DirectMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return messages, nil
}

func (c *RedisConversationCache) Set(ctx context.Context, key string, messages []domain.DirectMessage, ttl time.Duration) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisConversationCache) Invalidate(ctx context.Context, userA, userB string) error {
	return c.client.Del(ctx, c.BuildKey(userA, userB)).Err()
}

func (c *RedisConversationCache) Close() error {
	return c.client.Close()
}

var _ ConversationCache = (*RedisConversationCache)(nil)
