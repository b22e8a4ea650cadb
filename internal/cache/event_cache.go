package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eyalfuks51/wedding-Eyal/internal/types"
)

const eventKeyPrefix = "event:public:"

// EventCache holds the guest-facing event payload per slug. Every landing
// page view hits this path, so the content document is served from Redis and
// only falls through to Postgres on a miss.
type EventCache interface {
	GetPublicEvent(ctx context.Context, slug string) (json.RawMessage, error)
	SetPublicEvent(ctx context.Context, slug string, payload json.RawMessage, ttl time.Duration) error
}

type redisEventCache struct {
	client *redis.Client
}

func NewEventCache(client *redis.Client) EventCache {
	return &redisEventCache{client: client}
}

func (r *redisEventCache) GetPublicEvent(ctx context.Context, slug string) (json.RawMessage, error) {
	payload, err := r.client.Get(ctx, eventKeyPrefix+slug).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(payload), nil
}

func (r *redisEventCache) SetPublicEvent(ctx context.Context, slug string, payload json.RawMessage, ttl time.Duration) error {
	return r.client.Set(ctx, eventKeyPrefix+slug, []byte(payload), ttl).Err()
}
