package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "stripe:event:"

// DefaultEventTTL covers the provider's retry window.
const DefaultEventTTL = 72 * time.Hour

// Connect opens a client from a redis:// URL and checks it answers.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

type commands interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// EventDeduper remembers processed webhook event ids in Redis. An id is
// written only after its effects are committed, so an interrupted delivery
// is processed again when the provider retries it.
type EventDeduper struct {
	client commands
	ttl    time.Duration
}

func NewEventDeduper(client redis.Cmdable, ttl time.Duration) *EventDeduper {
	if ttl <= 0 {
		ttl = DefaultEventTTL
	}
	return &EventDeduper{client: client, ttl: ttl}
}

// Seen reports whether eventID was already processed.
func (d *EventDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, eventKeyPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkProcessed stores eventID for the retry window.
func (d *EventDeduper) MarkProcessed(ctx context.Context, eventID string) error {
	return d.client.Set(ctx, eventKeyPrefix+eventID, time.Now().Unix(), d.ttl).Err()
}

// NoopDeduper treats every event as new.
type NoopDeduper struct{}

func (NoopDeduper) Seen(context.Context, string) (bool, error) { return false, nil }

func (NoopDeduper) MarkProcessed(context.Context, string) error { return nil }
