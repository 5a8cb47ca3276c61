package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommands struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeCommands) Exists(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeCommands) Set(_ context.Context, key string, _ interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.keys[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestEventDeduper(t *testing.T) {
	fake := &fakeCommands{keys: map[string]time.Duration{}}
	d := &EventDeduper{client: fake, ttl: time.Hour}
	ctx := context.Background()

	seen, err := d.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
	assert.Empty(t, fake.keys, "checking must not record the event")

	require.NoError(t, d.MarkProcessed(ctx, "evt_1"))
	assert.Equal(t, time.Hour, fake.keys["stripe:event:evt_1"])

	seen, err = d.Seen(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = d.Seen(ctx, "evt_2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestEventDeduper_Error(t *testing.T) {
	d := &EventDeduper{client: &fakeCommands{keys: map[string]time.Duration{}, err: errors.New("redis: connection refused")}, ttl: time.Hour}

	_, err := d.Seen(context.Background(), "evt_1")
	assert.Error(t, err)
	assert.Error(t, d.MarkProcessed(context.Background(), "evt_1"))
}

func TestNewEventDeduper_DefaultTTL(t *testing.T) {
	d := NewEventDeduper(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), 0)
	assert.Equal(t, DefaultEventTTL, d.ttl)
}

func TestNoopDeduper(t *testing.T) {
	var d NoopDeduper
	require.NoError(t, d.MarkProcessed(context.Background(), "evt_1"))

	seen, err := d.Seen(context.Background(), "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
}
