package unit_test

import (
	"context"
	"testing"
	"time"

	"eng-analytics-service/internal/domain"
	"eng-analytics-service/internal/usecase"
	"eng-analytics-service/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overviewDORATable() *domain.Table {
	w1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w2 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	w3 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	return domain.NewTable(
		[]string{"REPO", "WEEK_START", "DEPLOYMENTS", "AVG_LEAD_TIME_HOURS", "CHANGE_FAILURE_RATE", "MTTR_HOURS"},
		[][]any{
			{"alpha", w1, int64(5), float64(10), 0.1, float64(1)},
			{"alpha", w2, int64(7), float64(12), 0.2, float64(2)},
			{"beta", w2, int64(3), float64(20), 0.3, float64(3)},
			{"beta", w3, int64(1), float64(30), 0.1, float64(1)},
		},
	)
}

func overviewLoadTable() *domain.Table {
	w1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	w2 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	return domain.NewTable(
		[]string{"REVIEWER", "REPO", "WEEK_START", "PRS_REVIEWED"},
		[][]any{
			{"alice", "alpha", w1, int64(4)},
			{"alice", "alpha", w2, int64(6)},
			{"bob", "beta", w2, int64(8)},
		},
	)
}

func TestOverviewUseCase_KPIsOverLast4Weeks(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetDORAMetrics", ctx).Return(overviewDORATable(), nil)
	warehouseRepo.On("GetReviewerLoad", ctx).Return(overviewLoadTable(), nil)

	uc := usecase.NewOverviewUseCase(warehouseRepo)
	report, err := uc.GetOverview(ctx, domain.Filter{})
	require.NoError(t, err)

	assert.False(t, report.NoData)
	assert.Equal(t, int64(16), report.KPIs.DeploymentsLast4Weeks)
	require.NotNil(t, report.KPIs.AvgLeadTimeHours)
	assert.InDelta(t, 18.0, *report.KPIs.AvgLeadTimeHours, 1e-9)
	require.NotNil(t, report.KPIs.ChangeFailureRate)
	assert.InDelta(t, 0.175, *report.KPIs.ChangeFailureRate, 1e-9)

	// Нагрузка ревьюверов — среднее последней наблюдаемой недели
	require.NotNil(t, report.KPIs.AvgReviewerLoad)
	assert.InDelta(t, 7.0, *report.KPIs.AvgReviewerLoad, 1e-9)
}

func TestOverviewUseCase_TopRepoByDeployments(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetDORAMetrics", ctx).Return(overviewDORATable(), nil)
	warehouseRepo.On("GetReviewerLoad", ctx).Return(overviewLoadTable(), nil)

	uc := usecase.NewOverviewUseCase(warehouseRepo)
	report, err := uc.GetOverview(ctx, domain.Filter{})
	require.NoError(t, err)

	// alpha: 12 деплоев против 4 у beta
	assert.Equal(t, "alpha", report.TopRepo)
	require.Len(t, report.TopRepoTrend, 2)
	assert.Equal(t, int64(5), report.TopRepoTrend[0].Deployments)
	assert.Equal(t, int64(7), report.TopRepoTrend[1].Deployments)
	assert.True(t, report.TopRepoTrend[0].WeekStart.Before(report.TopRepoTrend[1].WeekStart))
}

func TestOverviewUseCase_RepoFilterNarrowsKPIs(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetDORAMetrics", ctx).Return(overviewDORATable(), nil)
	warehouseRepo.On("GetReviewerLoad", ctx).Return(overviewLoadTable(), nil)

	uc := usecase.NewOverviewUseCase(warehouseRepo)
	report, err := uc.GetOverview(ctx, domain.Filter{Repos: []string{"beta"}})
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.KPIs.DeploymentsLast4Weeks)
	assert.Equal(t, "beta", report.TopRepo)
}

func TestOverviewUseCase_NoData(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetDORAMetrics", ctx).Return(domain.NewTable(nil, nil), nil)
	warehouseRepo.On("GetReviewerLoad", ctx).Return(domain.NewTable(nil, nil), nil)

	uc := usecase.NewOverviewUseCase(warehouseRepo)
	report, err := uc.GetOverview(ctx, domain.Filter{})
	require.NoError(t, err)

	assert.True(t, report.NoData)
}

func TestOverviewUseCase_InvalidDateRange(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	uc := usecase.NewOverviewUseCase(warehouseRepo)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.GetOverview(ctx, domain.Filter{StartDate: &start, EndDate: &end})

	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	warehouseRepo.AssertNotCalled(t, "GetDORAMetrics", ctx)
}
