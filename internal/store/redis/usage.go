package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Usage returns the global and per-user classification counters for a UTC
// date (YYYY-MM-DD). Missing or unreadable counters read as zero.
func (s *Store) Usage(ctx context.Context, userID, date string) (global, user int64, err error) {
	global, err = s.counter(ctx, GlobalUsageKey(date))
	if err != nil {
		return 0, 0, err
	}
	user, err = s.counter(ctx, UserUsageKey(userID, date))
	if err != nil {
		return 0, 0, err
	}
	return global, user, nil
}

// IncrUsage bumps both the global and the per-user counter for a UTC date.
// Counters expire on their own; date-keying provides the daily reset.
func (s *Store) IncrUsage(ctx context.Context, userID, date string) error {
	pipe := s.client.Pipeline()
	globalKey := GlobalUsageKey(date)
	userKey := UserUsageKey(userID, date)
	pipe.Incr(ctx, globalKey)
	pipe.Expire(ctx, globalKey, UsageTTL)
	pipe.Incr(ctx, userKey)
	pipe.Expire(ctx, userKey, UsageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment usage counters: %w", err)
	}
	return nil
}

func (s *Store) counter(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read counter %s: %w", key, err)
	}
	return n, nil
}
