package redis

import (
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// UsageTTL keeps daily usage counters around long enough to span
	// timezone skew; date-keying handles the actual reset.
	UsageTTL = 48 * time.Hour
	// AILogCap is the number of audit entries kept per user.
	AILogCap = 20
)

// Store is the sole point of contact with durable storage. It covers both
// roles the engine needs: the per-user bookmark index document (blob role)
// and small KV documents (registry, usage counters, AI config, audit log,
// link status).
type Store struct {
	client *redis.Client
}

// NewStore creates a new store over an established client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}
