package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell-feed-service/internal/cache/memory"
	"inkwell-feed-service/internal/custom_errors"
)

type payload struct {
	Value string `json:"value"`
}

func TestCache_SetAndGet(t *testing.T) {
	c := memory.NewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", payload{Value: "hello"}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "key", &got))
	assert.Equal(t, "hello", got.Value)
}

func TestCache_MissOnAbsentKey(t *testing.T) {
	c := memory.NewCache()

	var got payload
	err := c.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	c := memory.NewCache()
	ctx := context.Background()

	now := time.Now()
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, "key", payload{Value: "hello"}, 20*time.Second))

	var got payload
	require.NoError(t, c.Get(ctx, "key", &got))

	now = now.Add(19 * time.Second)
	require.NoError(t, c.Get(ctx, "key", &got))

	now = now.Add(2 * time.Second)
	err := c.Get(ctx, "key", &got)
	assert.ErrorIs(t, err, custom_errors.ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	c := memory.NewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key", payload{Value: "hello"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	var got payload
	assert.ErrorIs(t, c.Get(ctx, "key", &got), custom_errors.ErrCacheMiss)
}

func TestCache_DeletePattern(t *testing.T) {
	c := memory.NewCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "feed:index:page:1", payload{Value: "a"}, time.Minute))
	require.NoError(t, c.Set(ctx, "feed:index:page:2", payload{Value: "b"}, time.Minute))
	require.NoError(t, c.Set(ctx, "other:key", payload{Value: "c"}, time.Minute))

	require.NoError(t, c.DeletePattern(ctx, "feed:index:page:*"))

	var got payload
	assert.ErrorIs(t, c.Get(ctx, "feed:index:page:1", &got), custom_errors.ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "feed:index:page:2", &got), custom_errors.ErrCacheMiss)
	require.NoError(t, c.Get(ctx, "other:key", &got))
	assert.Equal(t, "c", got.Value)
}
