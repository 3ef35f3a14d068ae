package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bkmarks/bkmarkd/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LoadIndex retrieves a user's bookmark index document. A missing document
// yields a fresh empty index, and so does an unreadable or corrupt one:
// availability is preferred over surfacing storage faults here, matching
// the behavior callers depend on.
func (s *Store) LoadIndex(ctx context.Context, userID string) (*domain.BookmarkIndex, error) {
	data, err := s.client.Get(ctx, IndexKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewBookmarkIndex(time.Now()), nil
		}
		return domain.NewBookmarkIndex(time.Now()), nil
	}

	var idx domain.BookmarkIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return domain.NewBookmarkIndex(time.Now()), nil
	}
	idx.Normalize()
	return &idx, nil
}

// SaveIndex overwrites the whole document, stamping UpdatedAt. There are no
// partial-field writes; concurrent savers race and the later save wins.
func (s *Store) SaveIndex(ctx context.Context, userID string, idx *domain.BookmarkIndex) error {
	idx.UpdatedAt = time.Now()

	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if err := s.client.Set(ctx, IndexKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save index: %w", err)
	}
	return nil
}
