package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// ViewCache is a JSON-backed Redis cache for one kind of read model
// projection. Each instance owns a key prefix, so callers address entries by
// their natural id and never build raw Redis keys. A zero TTL means entries
// never expire; the command side is responsible for invalidation.
type ViewCache[T any] struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewViewCache[T any](client *goredis.Client, prefix string, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, prefix: prefix, ttl: ttl}
}

// Get fetches the entry stored under id. Any miss, Redis error, or stale
// payload that no longer unmarshals reads as a plain miss; the caller falls
// back to the write store.
func (c *ViewCache[T]) Get(ctx context.Context, id string) (*T, bool) {
	data, err := c.client.Get(ctx, c.prefix+id).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set stores value under id. Cache writes are best-effort: failures are
// logged, never surfaced, because the write store remains authoritative.
func (c *ViewCache[T]) Set(ctx context.Context, id string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("ViewCache: marshal error for %s%s: %v", c.prefix, id, err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+id, data, c.ttl).Err(); err != nil {
		log.Printf("ViewCache: write error for %s%s: %v", c.prefix, id, err)
	}
}

// Delete drops the entry for id, forcing the next read through to the write
// store.
func (c *ViewCache[T]) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.prefix+id).Err(); err != nil {
		log.Printf("ViewCache: delete error for %s%s: %v", c.prefix, id, err)
	}
}
