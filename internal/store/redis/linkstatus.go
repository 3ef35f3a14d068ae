package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bkmarks/bkmarkd/internal/status"
	"github.com/redis/go-redis/v9"
)

// LoadLinkStatus retrieves a user's link liveness map. Missing or corrupt
// data reads as an empty map.
func (s *Store) LoadLinkStatus(ctx context.Context, userID string) (status.LinkStatusMap, error) {
	data, err := s.client.Get(ctx, LinkStatusKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return status.LinkStatusMap{}, nil
		}
		return status.LinkStatusMap{}, nil
	}

	var m status.LinkStatusMap
	if err := json.Unmarshal(data, &m); err != nil {
		return status.LinkStatusMap{}, nil
	}
	if m == nil {
		m = status.LinkStatusMap{}
	}
	return m, nil
}

// SaveLinkStatus overwrites a user's link liveness map.
func (s *Store) SaveLinkStatus(ctx context.Context, userID string, m status.LinkStatusMap) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal link status: %w", err)
	}
	if err := s.client.Set(ctx, LinkStatusKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save link status: %w", err)
	}
	return nil
}
