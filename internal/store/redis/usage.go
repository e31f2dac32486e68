package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Store keeps redirect counters in Redis.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// IncrementUsage counts one redirect of token
func (s *Store) IncrementUsage(ctx context.Context, token string) error {
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, UsageKey(token))
	pipe.SAdd(ctx, KeyAllTokens, token)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// GetUsageStats returns the redirect count of every token seen
func (s *Store) GetUsageStats(ctx context.Context) (map[string]int64, error) {
	tokens, err := s.client.SMembers(ctx, KeyAllTokens).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}

	stats := make(map[string]int64, len(tokens))
	if len(tokens) == 0 {
		return stats, nil
	}

	keys := make([]string, len(tokens))
	for i, token := range tokens {
		keys[i] = UsageKey(token)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage counters: %w", err)
	}

	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			// Counter expired or was deleted after the set was read
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		stats[tokens[i]] = n
	}
	return stats, nil
}

// ResetUsage deletes the counter of token
func (s *Store) ResetUsage(ctx context.Context, token string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, UsageKey(token))
	pipe.SRem(ctx, KeyAllTokens, token)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to reset usage: %w", err)
	}
	return nil
}
