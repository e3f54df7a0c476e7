package ttlcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)}
}

func TestCache_SetGet(t *testing.T) {
	cache := New[int](time.Minute)

	cache.Set("a", 1)
	cache.Set("b", 2)

	value, ok := cache.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	value, ok = cache.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, value)

	_, ok = cache.Get("missing")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	cache := NewWithClock[string](30*time.Second, clock)

	cache.Set("key", "value")

	clock.Advance(30 * time.Second)
	value, ok := cache.Get("key")
	require.True(t, ok, "запись живет ровно до expiresAt включительно")
	assert.Equal(t, "value", value)

	clock.Advance(time.Second)
	_, ok = cache.Get("key")
	assert.False(t, ok)
}

func TestCache_SetRefreshesTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewWithClock[int](30*time.Second, clock)

	cache.Set("key", 1)
	clock.Advance(20 * time.Second)
	cache.Set("key", 2)
	clock.Advance(20 * time.Second)

	value, ok := cache.Get("key")
	require.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestCache_LazyEviction(t *testing.T) {
	clock := newFakeClock()
	cache := NewWithClock[int](time.Second, clock)

	cache.Set("key", 1)
	clock.Advance(2 * time.Second)

	// Истекшая запись еще лежит в map до обращения
	assert.Equal(t, 1, cache.Len())

	_, ok := cache.Get("key")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_Delete(t *testing.T) {
	cache := New[int](time.Minute)

	cache.Set("key", 1)
	cache.Delete("key")

	_, ok := cache.Get("key")
	assert.False(t, ok)
}

func TestCache_Purge(t *testing.T) {
	cache := New[int](time.Minute)

	cache.Set("a", 1)
	cache.Set("b", 2)
	cache.Purge()

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("a")
	assert.False(t, ok)
}
