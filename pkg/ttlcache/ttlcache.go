package ttlcache

import (
	"sync"
	"time"
)

// Clock интерфейс источника времени (для тестирования)
type Clock interface {
	Now() time.Time
}

// RealClock реальный источник времени для production
type RealClock struct{}

// Now возвращает текущее время
func (RealClock) Now() time.Time {
	return time.Now()
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache простой in-memory кэш с TTL
// Истекшие записи вытесняются лениво при обращении
type Cache[V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[string]entry[V]
}

// New создает кэш с указанным TTL и реальными часами
func New[V any](ttl time.Duration) *Cache[V] {
	return NewWithClock[V](ttl, RealClock{})
}

// NewWithClock создает кэш с указанным TTL и внешним источником времени
func NewWithClock[V any](ttl time.Duration, clock Clock) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry[V]),
	}
}

// Get возвращает значение по ключу, если оно есть и не истекло
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set сохраняет значение по ключу на время TTL
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Delete удаляет значение по ключу
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Purge удаляет все записи
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len возвращает количество записей, включая истекшие, но еще не вытесненные
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
