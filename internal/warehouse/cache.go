package warehouse

import (
	"sync"
	"time"

	"eng-analytics-service/internal/domain"
)

type cacheEntry struct {
	table     *domain.Table
	fetchedAt time.Time
}

// QueryCache хранит результаты запросов по литеральному тексту SQL
// в пределах окна свежести. Таблицы считаются неизменяемыми, поэтому
// повторное обращение в окне возвращает тот же результат без похода
// в хранилище.
type QueryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

// NewQueryCache создает кэш с заданным окном свежести.
// Неположительный ttl отключает кэширование.
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get возвращает закэшированную таблицу, если окно свежести не истекло.
func (c *QueryCache) Get(query string) (*domain.Table, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[query]
	if !ok {
		return nil, false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		delete(c.entries, query)
		return nil, false
	}
	return entry.table, true
}

// Put сохраняет результат запроса с текущей меткой времени.
func (c *QueryCache) Put(query string, t *domain.Table) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = cacheEntry{table: t, fetchedAt: time.Now()}
}

// Len возвращает количество записей в кэше.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear сбрасывает все записи.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// TTL возвращает окно свежести кэша.
func (c *QueryCache) TTL() time.Duration {
	return c.ttl
}
