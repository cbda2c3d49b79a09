package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := NewCache(client, logger)
	require.NoError(t, err)
	return c, mr
}

func TestNewCacheRequiresClient(t *testing.T) {
	_, err := NewCache(nil, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestJSONRoundTripAndMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var out map[string]int
	assert.False(t, c.GetJSON(ctx, "stats_cache", &out))

	c.SetJSON(ctx, "stats_cache", map[string]int{"users": 3}, time.Minute)
	require.True(t, c.GetJSON(ctx, "stats_cache", &out))
	assert.Equal(t, 3, out["users"])

	mr.FastForward(2 * time.Minute)
	assert.False(t, c.GetJSON(ctx, "stats_cache", &out))

	require.NoError(t, c.Set(ctx, "broken", "{nope", 0))
	assert.False(t, c.GetJSON(ctx, "broken", &out))
}

func TestDeleteAllByPattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	for _, k := range []string{"consultations_cache:a", "consultations_cache:b", "doctors_cache"} {
		require.NoError(t, c.Set(ctx, k, "x", 0))
	}

	require.NoError(t, c.DeleteAll(ctx, "consultations_cache*"))
	assert.False(t, mr.Exists("consultations_cache:a"))
	assert.False(t, mr.Exists("consultations_cache:b"))
	assert.True(t, mr.Exists("doctors_cache"))

	require.NoError(t, c.Delete(ctx, "doctors_cache"))
	assert.False(t, mr.Exists("doctors_cache"))
	assert.NoError(t, c.Delete(ctx))
}

func TestWithLock(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	opts := LockOptions{TTL: time.Second, MaxRetries: 2, RetryDelay: 10 * time.Millisecond}

	ran := false
	err := c.WithLock(ctx, "lock:consultation", opts, func() error {
		ran = true
		assert.True(t, mr.Exists("lock:consultation"))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("lock:consultation"), "lock released")

	require.NoError(t, mr.Set("lock:consultation", "someone-else"))
	err = c.WithLock(ctx, "lock:consultation", opts, func() error {
		t.Fatal("must not run without the lock")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire lock")
	got, _ := mr.Get("lock:consultation")
	assert.Equal(t, "someone-else", got)
}
