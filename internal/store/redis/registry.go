package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GetTagDefs retrieves a user's tag registry. A fresh user is lazily seeded
// with the default canonical list, all entries disabled.
func (s *Store) GetTagDefs(ctx context.Context, userID string) ([]domain.TagDefinition, error) {
	data, err := s.client.Get(ctx, TagDefsKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			defs := domain.DefaultTagDefinitions()
			if err := s.SetTagDefs(ctx, userID, defs); err != nil {
				return nil, err
			}
			return defs, nil
		}
		return nil, fmt.Errorf("failed to get tag registry: %w", err)
	}

	var defs []domain.TagDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		// Unreadable registry: re-seed rather than fail the request.
		defs = domain.DefaultTagDefinitions()
		if err := s.SetTagDefs(ctx, userID, defs); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

// SetTagDefs replaces a user's tag registry. Duplicate names beyond the
// first occurrence are dropped and Order is re-indexed from the supplied
// sequence, so repeated calls with the same input are idempotent.
func (s *Store) SetTagDefs(ctx context.Context, userID string, defs []domain.TagDefinition) error {
	normalized := domain.NormalizeTagDefinitions(defs)

	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("failed to marshal tag registry: %w", err)
	}
	if err := s.client.Set(ctx, TagDefsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save tag registry: %w", err)
	}
	return nil
}
