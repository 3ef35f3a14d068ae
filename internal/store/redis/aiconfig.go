package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/bkmarks/bkmarkd/internal/ai"
)

// GetAIConfig reads the stored provider configuration. Absent or
// unreadable data reads as nil config without error.
func (s *Store) GetAIConfig(ctx context.Context) (*ai.StoredConfig, error) {
	data, err := s.client.Get(ctx, KeyAIConfig).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ai config: %w", err)
	}
	var cfg ai.StoredConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, nil
	}
	return &cfg, nil
}

// SetAIConfig replaces the stored provider configuration.
func (s *Store) SetAIConfig(ctx context.Context, cfg ai.StoredConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal ai config: %w", err)
	}
	if err := s.client.Set(ctx, KeyAIConfig, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save ai config: %w", err)
	}
	return nil
}

// GetAISecret reads stored provider credentials. Absent or unreadable data
// reads as an empty secret.
func (s *Store) GetAISecret(ctx context.Context) (ai.StoredSecret, error) {
	var secret ai.StoredSecret
	data, err := s.client.Get(ctx, KeyAISecret).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return secret, nil
		}
		return secret, fmt.Errorf("failed to get ai secret: %w", err)
	}
	if err := json.Unmarshal(data, &secret); err != nil {
		return ai.StoredSecret{}, nil
	}
	return secret, nil
}

// UpdateAISecret applies an explicit secret update on top of the stored
// credentials. When the result is empty the key is deleted.
func (s *Store) UpdateAISecret(ctx context.Context, update ai.SecretUpdate) error {
	existing, err := s.GetAISecret(ctx)
	if err != nil {
		return err
	}

	if update.OpenAIAPIKey != nil {
		existing.OpenAIAPIKey = *update.OpenAIAPIKey
	}
	if update.GeminiAPIKey != nil {
		existing.GeminiAPIKey = *update.GeminiAPIKey
	}

	if existing.OpenAIAPIKey == "" && existing.GeminiAPIKey == "" {
		if err := s.client.Del(ctx, KeyAISecret).Err(); err != nil {
			return fmt.Errorf("failed to delete ai secret: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to marshal ai secret: %w", err)
	}
	if err := s.client.Set(ctx, KeyAISecret, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save ai secret: %w", err)
	}
	return nil
}
