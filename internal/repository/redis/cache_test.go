package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/gatekeeper-server/internal/model"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewCache(client, "gk")
}

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)

	require.NoError(t, c.SetWithTTL(ctx, "verification:a@x.com", "hash", 15*time.Minute))
	assert.True(t, mr.Exists("gk:verification:a@x.com"))

	v, err := c.Get(ctx, "verification:a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", v)

	ok, err := c.Exists(ctx, "verification:a@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Delete(ctx, "verification:a@x.com"))
	_, err = c.Get(ctx, "verification:a@x.com")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCache_Expires(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)

	require.NoError(t, c.SetWithTTL(ctx, "reset:a@x.com", "hash", time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("gk:reset:a@x.com"))

	mr.FastForward(2 * time.Minute)

	ok, err := c.Exists(ctx, "reset:a@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_KeyPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "gatekeeper", want: "gatekeeper:verification:a@x.com"},
		{prefix: "gatekeeper:", want: "gatekeeper:verification:a@x.com"},
		{prefix: "", want: "verification:a@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			c := NewCache(nil, tt.prefix)
			assert.Equal(t, tt.want, c.key("verification:a@x.com"))
		})
	}
}

func TestCache_Increment(t *testing.T) {
	ctx := context.Background()
	mr, c := newTestCache(t)

	n, err := c.Increment(ctx, "reset:a@x.com:attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mr.FastForward(30 * time.Second)
	n, err = c.Increment(ctx, "reset:a@x.com:attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 30*time.Second, mr.TTL("gk:reset:a@x.com:attempts"))

	mr.FastForward(31 * time.Second)
	n, err = c.Increment(ctx, "reset:a@x.com:attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCache_RejectsNonPositiveTTL(t *testing.T) {
	_, c := newTestCache(t)
	assert.Error(t, c.SetWithTTL(context.Background(), "k", "v", 0))
}

func TestCache_Unavailable(t *testing.T) {
	mr, c := newTestCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)
}
