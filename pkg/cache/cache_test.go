package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestMemory(t *testing.T, opts ...MemoryOption) (*MemoryCache, *time.Time) {
	t.Helper()
	mc := NewMemoryCache(opts...)
	t.Cleanup(func() { _ = mc.Close() })
	now := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }
	return mc, &now
}

func TestMemoryCacheRoundTripsStructs(t *testing.T) {
	mc, _ := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", payload{Name: "ibm", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, mc.Get(ctx, "k", &got))
	assert.Equal(t, payload{Name: "ibm", Count: 3}, got)

	var s string
	require.NoError(t, mc.Set(ctx, "s", "plain", time.Minute))
	require.NoError(t, mc.Get(ctx, "s", &s))
	assert.Equal(t, "plain", s)
}

func TestMemoryCacheExpiry(t *testing.T) {
	mc, now := newTestMemory(t)
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Second))
	ok, err := mc.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	*now = now.Add(2 * time.Second)
	var s string
	assert.ErrorIs(t, mc.Get(ctx, "k", &s), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	mc, now := newTestMemory(t, WithMemoryMaxSize(2))
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "a", "1", time.Hour))
	*now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "b", "2", time.Hour))
	*now = now.Add(time.Second)

	var s string
	require.NoError(t, mc.Get(ctx, "a", &s))
	*now = now.Add(time.Second)
	require.NoError(t, mc.Set(ctx, "c", "3", time.Hour))

	assert.ErrorIs(t, mc.Get(ctx, "b", &s), ErrCacheMiss)
	assert.NoError(t, mc.Get(ctx, "a", &s))
	assert.NoError(t, mc.Get(ctx, "c", &s))
}

func TestMemoryCacheTryLock(t *testing.T) {
	mc, now := newTestMemory(t)
	ctx := context.Background()

	ok, err := mc.TryLock(ctx, "lock", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = mc.TryLock(ctx, "lock", time.Second)
	assert.False(t, ok)

	*now = now.Add(2 * time.Second)
	ok, _ = mc.TryLock(ctx, "lock", time.Second)
	assert.True(t, ok)

	require.NoError(t, mc.Unlock(ctx, "lock"))
	ok, _ = mc.Exists(ctx, "lock")
	assert.False(t, ok)
}

func TestLayeredCacheFillsL1FromL2(t *testing.T) {
	l1, _ := newTestMemory(t)
	l2, _ := newTestMemory(t)
	lc := NewLayeredCache(l1, l2)
	ctx := context.Background()

	require.NoError(t, l2.Set(ctx, "k", payload{Name: "x"}, time.Hour))

	var got payload
	require.NoError(t, lc.Get(ctx, "k", &got))
	assert.Equal(t, "x", got.Name)

	ok, _ := l1.Exists(ctx, "k")
	assert.True(t, ok)

	require.NoError(t, lc.Delete(ctx, "k"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "flags:abc", GenerateKey("flags", "abc"))
	assert.Equal(t, "abc", GenerateKey("", "abc"))
	assert.Len(t, HashKey("secret"), 16)
	assert.Equal(t, HashKey("secret"), HashKey("secret"))
}
