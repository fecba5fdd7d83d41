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

func prFactsTable() *domain.Table {
	created := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return domain.NewTable(
		[]string{"PR_ID", "REPO", "REVIEWER", "PR_AUTHOR", "CREATED_AT", "PR_CYCLE_TIME_HOURS", "LINES_ADDED", "LINES_DELETED", "FILES_CHANGED"},
		[][]any{
			{"pr-1", "alpha", "carol", "alice", created, float64(10), int64(100), int64(20), int64(3)},
			{"pr-2", "alpha", "carol", "alice", created, float64(20), int64(200), int64(40), int64(5)},
			{"pr-3", "beta", "dave", "bob", created, float64(30), int64(300), int64(60), int64(7)},
		},
	)
}

func TestInsightsUseCase_ContributorLeaderboard(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetPRFacts", ctx).Return(prFactsTable(), nil)

	uc := usecase.NewInsightsUseCase(warehouseRepo)
	board, err := uc.GetContributorLeaderboard(ctx, domain.Filter{}, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"AUTHOR", "PR_COUNT", "AVG_CYCLE_HRS", "AVG_LINES_ADDED", "AVG_LINES_DELETED"}, board.Columns)
	require.Equal(t, 2, board.NumRows())

	assert.Equal(t, "alice", board.StringAt(0, "AUTHOR"))
	count, _ := board.Float64At(0, "PR_COUNT")
	assert.Equal(t, 2.0, count)
	cycle, _ := board.Float64At(0, "AVG_CYCLE_HRS")
	assert.InDelta(t, 15.0, cycle, 1e-9)
	added, _ := board.Float64At(0, "AVG_LINES_ADDED")
	assert.InDelta(t, 150.0, added, 1e-9)

	assert.Equal(t, "bob", board.StringAt(1, "AUTHOR"))
}

func TestInsightsUseCase_LeaderboardLimit(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetPRFacts", ctx).Return(prFactsTable(), nil)

	uc := usecase.NewInsightsUseCase(warehouseRepo)
	board, err := uc.GetContributorLeaderboard(ctx, domain.Filter{}, 1)
	require.NoError(t, err)

	require.Equal(t, 1, board.NumRows())
	assert.Equal(t, "alice", board.StringAt(0, "AUTHOR"))
}

func TestInsightsUseCase_Heatmap(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetPRFacts", ctx).Return(prFactsTable(), nil)

	uc := usecase.NewInsightsUseCase(warehouseRepo)
	report, err := uc.GetReviewerAuthorHeatmap(ctx, domain.Filter{})
	require.NoError(t, err)

	matrix := report.Matrix
	assert.Equal(t, []string{"carol", "dave"}, matrix.RowLabels)
	assert.Equal(t, []string{"alice", "bob"}, matrix.ColLabels)
	assert.Equal(t, int64(2), matrix.Value("carol", "alice"))
	assert.Equal(t, int64(0), matrix.Value("carol", "bob"))
	assert.Equal(t, int64(1), matrix.Value("dave", "bob"))

	// Длинная форма — только наблюдавшиеся пары по убыванию счетчика
	require.Equal(t, 2, report.Pairs.NumRows())
	assert.Equal(t, "carol", report.Pairs.StringAt(0, "REVIEWER"))
	count, _ := report.Pairs.Float64At(0, "PR_COUNT")
	assert.Equal(t, 2.0, count)
}

func TestInsightsUseCase_HeatmapRepoFilter(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetPRFacts", ctx).Return(prFactsTable(), nil)

	uc := usecase.NewInsightsUseCase(warehouseRepo)
	report, err := uc.GetReviewerAuthorHeatmap(ctx, domain.Filter{Repos: []string{"beta"}})
	require.NoError(t, err)

	// Метки матрицы — только значения текущей выборки, без устаревших
	assert.Equal(t, []string{"dave"}, report.Matrix.RowLabels)
	assert.Equal(t, []string{"bob"}, report.Matrix.ColLabels)
}

func TestInsightsUseCase_MissingColumns_Fatal(t *testing.T) {
	ctx := context.Background()
	warehouseRepo := &mocks.WarehouseRepository{}
	warehouseRepo.On("GetPRFacts", ctx).Return(domain.NewTable(nil, nil), nil)

	uc := usecase.NewInsightsUseCase(warehouseRepo)
	_, err := uc.GetReviewerAuthorHeatmap(ctx, domain.Filter{})

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Missing, "REVIEWER")
	assert.Contains(t, schemaErr.Missing, "PR_AUTHOR")
}
