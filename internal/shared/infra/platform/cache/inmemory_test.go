package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type item struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{ID: 1, Nombre: "Ana"}, 0))

	var got item
	ok, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, item{ID: 1, Nombre: "Ana"}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, err = c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryCache_Expired(t *testing.T) {
	c := NewInMemoryCache(10*time.Millisecond, time.Hour)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{ID: 1}, 0))
	time.Sleep(20 * time.Millisecond)

	var got item
	ok, err := c.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryCache_StopTwice(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

type failingCache struct{ InMemoryCache }

func (f *failingCache) Delete(ctx context.Context, key string) error {
	return errors.New("redis down")
}

func TestInvalidate_IgnoresCacheErrors(t *testing.T) {
	assert.NotPanics(t, func() {
		Invalidate(context.Background(), &failingCache{}, "k", zap.NewNop())
		Invalidate(context.Background(), nil, "k", zap.NewNop())
	})
}

func TestAsyncCacheSet(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Minute)
	defer c.Stop()

	AsyncCacheSet(c, "k", item{ID: 2}, 60, zap.NewNop())

	assert.Eventually(t, func() bool {
		var got item
		ok, _ := c.Get(context.Background(), "k", &got)
		return ok && got.ID == 2
	}, time.Second, 5*time.Millisecond)
}
