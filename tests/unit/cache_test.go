package unit_test

import (
	"testing"
	"time"

	"eng-analytics-service/internal/domain"
	"eng-analytics-service/internal/warehouse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCache_HitWithinFreshnessWindow(t *testing.T) {
	cache := warehouse.NewQueryCache(time.Minute)
	table := domain.NewTable([]string{"REPO"}, [][]any{{"alpha"}})

	cache.Put("SELECT * FROM repo_velocity", table)

	cached, ok := cache.Get("SELECT * FROM repo_velocity")
	require.True(t, ok)
	// В пределах окна возвращается тот же результат без похода в хранилище
	assert.Same(t, table, cached)
}

func TestQueryCache_KeyedByLiteralQueryText(t *testing.T) {
	cache := warehouse.NewQueryCache(time.Minute)
	table := domain.NewTable([]string{"REPO"}, [][]any{{"alpha"}})

	cache.Put("SELECT * FROM repo_velocity", table)

	_, ok := cache.Get("SELECT * FROM reviewer_load")
	assert.False(t, ok)
}

func TestQueryCache_ExpiresAfterWindow(t *testing.T) {
	cache := warehouse.NewQueryCache(30 * time.Millisecond)
	table := domain.NewTable([]string{"REPO"}, [][]any{{"alpha"}})

	cache.Put("SELECT * FROM repo_velocity", table)
	time.Sleep(60 * time.Millisecond)

	_, ok := cache.Get("SELECT * FROM repo_velocity")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestQueryCache_ZeroTTLDisablesCaching(t *testing.T) {
	cache := warehouse.NewQueryCache(0)
	table := domain.NewTable([]string{"REPO"}, [][]any{{"alpha"}})

	cache.Put("SELECT * FROM repo_velocity", table)

	_, ok := cache.Get("SELECT * FROM repo_velocity")
	assert.False(t, ok)
}

func TestQueryCache_Clear(t *testing.T) {
	cache := warehouse.NewQueryCache(time.Minute)
	cache.Put("q1", domain.NewTable(nil, nil))
	cache.Put("q2", domain.NewTable(nil, nil))
	require.Equal(t, 2, cache.Len())

	cache.Clear()

	assert.Equal(t, 0, cache.Len())
	_, ok := cache.Get("q1")
	assert.False(t, ok)
}
