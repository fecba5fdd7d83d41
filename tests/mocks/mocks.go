// Package mocks содержит testify-моки доменных интерфейсов для unit-тестов.
package mocks

import (
	"context"

	"eng-analytics-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

// WarehouseRepository — мок domain.WarehouseRepository.
type WarehouseRepository struct {
	mock.Mock
}

func (m *WarehouseRepository) GetRepoVelocity(ctx context.Context) (*domain.Table, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WarehouseRepository) GetReviewerLoad(ctx context.Context) (*domain.Table, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WarehouseRepository) GetPRReviewSummary(ctx context.Context) (*domain.Table, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WarehouseRepository) GetDORAMetrics(ctx context.Context) (*domain.Table, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *WarehouseRepository) GetPRFacts(ctx context.Context) (*domain.Table, error) {
	args := m.Called(ctx)
	if t := args.Get(0); t != nil {
		return t.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

// QueryGateway — мок domain.QueryGateway.
type QueryGateway struct {
	mock.Mock
}

func (m *QueryGateway) RunQuery(ctx context.Context, query string) (*domain.Table, error) {
	args := m.Called(ctx, query)
	if t := args.Get(0); t != nil {
		return t.(*domain.Table), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *QueryGateway) CacheStats() domain.CacheStats {
	args := m.Called()
	return args.Get(0).(domain.CacheStats)
}

func (m *QueryGateway) InvalidateCache() {
	m.Called()
}
