package repository

import (
	"context"

	"eng-analytics-service/internal/domain"
)

// Запросы к витринам — доверенный, статически заданный SQL.
// Кэш шлюза ключуется по этим литералам.
const (
	queryRepoVelocity    = `SELECT * FROM repo_velocity ORDER BY week_start`
	queryReviewerLoad    = `SELECT * FROM reviewer_load ORDER BY week_start`
	queryPRReviewSummary = `SELECT * FROM pr_review_summary`
	queryDORAMetrics     = `SELECT * FROM dora_metrics_weekly ORDER BY week_start`
	queryPRFacts         = `SELECT * FROM fact_pr_cycle_time`
)

// WarehouseRepository реализует domain.WarehouseRepository поверх шлюза
// запросов. Каждая выборка валидируется против контракта витрины сразу,
// а не в глубине агрегации.
type WarehouseRepository struct {
	gateway domain.QueryGateway
}

// NewWarehouseRepository создает новый экземпляр WarehouseRepository.
func NewWarehouseRepository(gateway domain.QueryGateway) domain.WarehouseRepository {
	return &WarehouseRepository{
		gateway: gateway,
	}
}

// GetRepoVelocity возвращает недельную витрину velocity по репозиториям.
func (r *WarehouseRepository) GetRepoVelocity(ctx context.Context) (*domain.Table, error) {
	return r.fetch(ctx, queryRepoVelocity, domain.RepoVelocitySchema)
}

// GetReviewerLoad возвращает недельную витрину нагрузки ревьюверов.
func (r *WarehouseRepository) GetReviewerLoad(ctx context.Context) (*domain.Table, error) {
	return r.fetch(ctx, queryReviewerLoad, domain.ReviewerLoadSchema)
}

// GetPRReviewSummary возвращает сводную витрину по ревьюверам.
func (r *WarehouseRepository) GetPRReviewSummary(ctx context.Context) (*domain.Table, error) {
	return r.fetch(ctx, queryPRReviewSummary, domain.PRReviewSummarySchema)
}

// GetDORAMetrics возвращает недельную витрину DORA-метрик.
func (r *WarehouseRepository) GetDORAMetrics(ctx context.Context) (*domain.Table, error) {
	return r.fetch(ctx, queryDORAMetrics, domain.DORAMetricsSchema)
}

// GetPRFacts возвращает fact-таблицу ревью pull request'ов.
func (r *WarehouseRepository) GetPRFacts(ctx context.Context) (*domain.Table, error) {
	return r.fetch(ctx, queryPRFacts, domain.PRFactSchema)
}

func (r *WarehouseRepository) fetch(ctx context.Context, query string, schema domain.Schema) (*domain.Table, error) {
	table, err := r.gateway.RunQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	// Пустая выборка может прийти вовсе без колонок — это состояние
	// "нет данных", а не нарушение контракта.
	if len(table.Columns) == 0 && table.IsEmpty() {
		return table, nil
	}

	if err := schema.Validate(table); err != nil {
		return nil, err
	}
	return table, nil
}
