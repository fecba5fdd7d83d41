package domain

import "context"

// QueryGateway выполняет доверенный read-only SQL против хранилища
// и кэширует результат по тексту запроса на фиксированное окно свежести.
type QueryGateway interface {
	RunQuery(ctx context.Context, query string) (*Table, error)
	CacheStats() CacheStats
	InvalidateCache()
}

// WarehouseRepository отдает витрины хранилища с провалидированной схемой.
type WarehouseRepository interface {
	GetRepoVelocity(ctx context.Context) (*Table, error)
	GetReviewerLoad(ctx context.Context) (*Table, error)
	GetPRReviewSummary(ctx context.Context) (*Table, error)
	GetDORAMetrics(ctx context.Context) (*Table, error)
	GetPRFacts(ctx context.Context) (*Table, error)
}

// OverviewUseCase определяет бизнес-логику сводной страницы.
type OverviewUseCase interface {
	GetOverview(ctx context.Context, f Filter) (*OverviewReport, error)
}

// MetricsUseCase определяет бизнес-логику страниц пре-агрегированных витрин.
type MetricsUseCase interface {
	GetRepoVelocity(ctx context.Context, f Filter) (*Table, error)
	GetReviewerLoad(ctx context.Context, reviewer string, f Filter) (*ReviewerLoadReport, error)
	GetReviewSummary(ctx context.Context, f Filter) (*ReviewSummaryReport, error)
	GetDORAMetrics(ctx context.Context, repo string, f Filter) (*DORAReport, error)
}

// InsightsUseCase определяет бизнес-логику агрегаций по fact-таблице.
type InsightsUseCase interface {
	GetContributorLeaderboard(ctx context.Context, f Filter, limit int) (*Table, error)
	GetReviewerAuthorHeatmap(ctx context.Context, f Filter) (*HeatmapReport, error)
}

// PredictionUseCase определяет бизнес-логику демо-модели cycle time.
type PredictionUseCase interface {
	TrainModel(ctx context.Context, f Filter) (*ModelReport, error)
	PredictCycleTime(ctx context.Context, f Filter, in PredictionInput) (*PredictionResult, error)
}

// Estimator — изолированный capability-интерфейс обучаемой модели.
// Пайплайн запрос/фильтр/агрегация от него не зависит.
type Estimator interface {
	Fit(features [][]float64, targets []float64) error
	Predict(features []float64) (float64, error)
	FeatureImportances() []float64
}
