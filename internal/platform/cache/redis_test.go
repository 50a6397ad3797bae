package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *Redis {
	rdb := NewRedisClient("localhost:6379", "", 15)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Skipping test: cannot reach redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedis(rdb, "bookstore_test:"+t.Name())
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "seller:42:books", SellerKey(42))
	assert.Equal(t, "seller:42:books:v3", Versioned(SellerKey(42), 3))
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute))
	var dest map[string]string
	found, err := c.GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	v, err := c.Version(ctx, "k")
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.NoError(t, c.Invalidate(ctx, "k"))
}

func TestRedis_SetGet(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}

	require.NoError(t, c.SetJSON(ctx, "roundtrip", payload{Name: "John"}, time.Minute))

	var got payload
	found, err := c.GetJSON(ctx, "roundtrip", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "John", got.Name)

	found, err = c.GetJSON(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_InvalidateMovesGeneration(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()
	key := SellerKey(7)
	t.Cleanup(func() {
		_ = c.rdb.Del(context.Background(), c.key(versionKey(key)), c.key(versionKey(SellerKey(8)))).Err()
	})

	v0, err := c.Version(ctx, key)
	require.NoError(t, err)
	require.NoError(t, c.SetJSON(ctx, Versioned(key, v0), "stale", time.Minute))

	require.NoError(t, c.Invalidate(ctx, key, SellerKey(8)))

	v1, err := c.Version(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, v0+1, v1)

	var got string
	found, err := c.GetJSON(ctx, Versioned(key, v1), &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_InvalidateNoKeys(t *testing.T) {
	c := NewRedis(nil, "")
	assert.NoError(t, c.Invalidate(context.Background()))
}
