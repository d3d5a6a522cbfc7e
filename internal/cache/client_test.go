package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryClientSetGet(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))

	val, err := c.Get(ctx, "k1")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClientExpiry(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k1", []byte("v1"), -time.Second))

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClientDelete(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "k1", []byte("v1"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k1"))

	_, err := c.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClientDeleteByPrefix(t *testing.T) {
	c := NewMemoryClient(10)
	defer c.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "query:a", []byte("1"), time.Minute))
	assert.NoError(t, c.Set(ctx, "query:b", []byte("2"), time.Minute))
	assert.NoError(t, c.Set(ctx, "other:c", []byte("3"), time.Minute))

	assert.NoError(t, c.DeleteByPrefix(ctx, "query:"))

	_, err := c.Get(ctx, "query:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, "query:b")
	assert.ErrorIs(t, err, ErrCacheMiss)

	val, err := c.Get(ctx, "other:c")
	assert.NoError(t, err)
	assert.Equal(t, []byte("3"), val)
}

func TestMemoryClientEviction(t *testing.T) {
	c := NewMemoryClient(2)
	defer c.Close()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "old", []byte("1"), time.Minute))
	assert.NoError(t, c.Set(ctx, "newer", []byte("2"), 2*time.Minute))
	assert.NoError(t, c.Set(ctx, "newest", []byte("3"), 3*time.Minute))

	// The entry closest to expiry gets evicted to make room.
	_, err := c.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrCacheMiss)

	_, err = c.Get(ctx, "newest")
	assert.NoError(t, err)
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "query:abc", CacheKey("query", "abc"))
	assert.Equal(t, "a:b:c", CacheKey("a", "b", "c"))
}
