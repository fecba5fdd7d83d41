package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eng-analytics-service/internal/domain"

	"github.com/sirupsen/logrus"
)

// Client — шлюз запросов к хранилищу: один долгоживущий handle на процесс
// плюс явный кэш результатов по тексту запроса. Принимает только доверенный,
// статически заданный SQL.
type Client struct {
	db     *sql.DB
	cache  *QueryCache
	logger *logrus.Logger
}

// NewClient создает новый экземпляр Client.
func NewClient(db *sql.DB, cacheTTL time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		db:     db,
		cache:  NewQueryCache(cacheTTL),
		logger: logger,
	}
}

// RunQuery выполняет запрос и возвращает таблицу. Результат в пределах окна
// свежести отдается из кэша без обращения к хранилищу. Имена колонок
// нормализуются к верхнему регистру — контракт витрин задан именно так.
func (c *Client) RunQuery(ctx context.Context, query string) (*domain.Table, error) {
	if cached, ok := c.cache.Get(query); ok {
		c.logger.WithField("query", query).Debug("Query served from cache")
		return cached, nil
	}

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	columns := make([]string, len(columnNames))
	for i, name := range columnNames {
		columns[i] = strings.ToUpper(name)
	}

	var data [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	table := domain.NewTable(columns, data)
	c.cache.Put(query, table)

	c.logger.WithFields(logrus.Fields{
		"query":   query,
		"rows":    table.NumRows(),
		"latency": time.Since(start),
	}).Debug("Query executed")

	return table, nil
}

// CacheStats возвращает состояние кэша результатов.
func (c *Client) CacheStats() domain.CacheStats {
	return domain.CacheStats{
		Entries: c.cache.Len(),
		TTL:     c.cache.TTL(),
	}
}

// InvalidateCache сбрасывает кэш результатов.
func (c *Client) InvalidateCache() {
	c.cache.Clear()
}
