package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := newCache(true)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	etag := c.Set(ctx, "k", []byte(`{"a":1}`), time.Minute)
	assert.Equal(t, ComputeETag([]byte(`{"a":1}`)), etag)

	data, got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, etag, got)
	assert.JSONEq(t, `{"a":1}`, string(data))

	now = now.Add(2 * time.Minute)
	_, _, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	stats := c.Stats(ctx)
	assert.Equal(t, 1, stats["expired_keys"])
	c.evict()
	assert.Equal(t, 0, c.Stats(ctx)["total_keys"])
}

func TestDisabledCache(t *testing.T) {
	ctx := context.Background()
	c := New(false)
	etag := c.Set(ctx, "k", []byte("x"), time.Hour)
	assert.NotEmpty(t, etag)
	_, _, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestETag(t *testing.T) {
	a := ComputeETag([]byte("one"))
	assert.Equal(t, a, ComputeETag([]byte("one")))
	assert.NotEqual(t, a, ComputeETag([]byte("two")))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, a)

	assert.True(t, CheckETagMatch(a, a))
	assert.True(t, CheckETagMatch("*", a))
	assert.False(t, CheckETagMatch("", a))
	assert.False(t, CheckETagMatch(`W/"nope"`, a))
}

func TestRedisBackend(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, url, nil)
	require.NoError(t, err)
	defer r.Close()

	etag := r.Set(ctx, "test:redis-backend", []byte("payload"), time.Minute)
	data, got, ok := r.Get(ctx, "test:redis-backend")
	require.True(t, ok)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, etag, got)

	_, _, ok = r.Get(ctx, "test:missing")
	assert.False(t, ok)
	assert.Equal(t, "redis", r.Stats(ctx)["backend"])
}
