package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bkmarks/bkmarkd/internal/domain"
)

// AppendAILog pushes one audit entry onto a user's classification log and
// trims it to the cap, so the log is a ring of the most recent entries,
// newest first.
func (s *Store) AppendAILog(ctx context.Context, userID string, entry domain.AILogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ai log entry: %w", err)
	}

	key := AILogKey(userID)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, AILogCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append ai log entry: %w", err)
	}
	return nil
}

// AILog returns a user's audit entries, newest first. Entries that fail to
// decode are skipped.
func (s *Store) AILog(ctx context.Context, userID string) ([]domain.AILogEntry, error) {
	raw, err := s.client.LRange(ctx, AILogKey(userID), 0, AILogCap-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ai log: %w", err)
	}

	entries := make([]domain.AILogEntry, 0, len(raw))
	for _, item := range raw {
		var entry domain.AILogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
