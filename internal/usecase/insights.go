package usecase

import (
	"context"
	"sort"

	"eng-analytics-service/internal/analytics"
	"eng-analytics-service/internal/domain"
)

// Размер лидерборда по умолчанию.
const defaultLeaderboardLimit = 20

// Имена колонок лидерборда контрибьюторов.
const (
	colAuthor      = "AUTHOR"
	colPRCount     = "PR_COUNT"
	colAvgCycleHrs = "AVG_CYCLE_HRS"
)

// InsightsUseCase реализует агрегации по fact-таблице: лидерборд
// контрибьюторов и матрицу взаимодействий reviewer×author.
type InsightsUseCase struct {
	warehouseRepo domain.WarehouseRepository
}

// NewInsightsUseCase создает новый экземпляр InsightsUseCase.
func NewInsightsUseCase(warehouseRepo domain.WarehouseRepository) domain.InsightsUseCase {
	return &InsightsUseCase{
		warehouseRepo: warehouseRepo,
	}
}

// GetContributorLeaderboard группирует fact-таблицу по автору: уникальные PR,
// средний cycle time и средний размер изменений. Сортировка — по убыванию
// числа PR, при равенстве по автору.
func (uc *InsightsUseCase) GetContributorLeaderboard(ctx context.Context, f domain.Filter, limit int) (*domain.Table, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	facts, err := uc.warehouseRepo.GetPRFacts(ctx)
	if err != nil {
		return nil, err
	}
	facts = analytics.ApplyFilters(facts, domain.ColRepo, domain.ColCreatedAt, f)

	board, err := analytics.LeaderboardReduce(facts, domain.ColPRAuthor, []analytics.ReduceSpec{
		{Name: colPRCount, Column: domain.ColPRID, Op: analytics.ReduceCountDistinct},
		{Name: colAvgCycleHrs, Column: domain.ColPRCycleTimeHours, Op: analytics.ReduceMean},
		{Name: domain.ColAvgLinesAdded, Column: domain.ColLinesAdded, Op: analytics.ReduceMean},
		{Name: domain.ColAvgLinesDeleted, Column: domain.ColLinesDeleted, Op: analytics.ReduceMean},
	}, limit)
	if err != nil {
		return nil, err
	}

	board.Columns[0] = colAuthor
	return board, nil
}

// GetReviewerAuthorHeatmap строит плотную матрицу количества ревью на пару
// (reviewer, author) и длинную форму наблюдавшихся пар по убыванию счетчика.
func (uc *InsightsUseCase) GetReviewerAuthorHeatmap(ctx context.Context, f domain.Filter) (*domain.HeatmapReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	facts, err := uc.warehouseRepo.GetPRFacts(ctx)
	if err != nil {
		return nil, err
	}
	facts = analytics.ApplyFilters(facts, domain.ColRepo, domain.ColCreatedAt, f)

	matrix, err := analytics.PairwisePivot(facts, domain.ColReviewer, domain.ColPRAuthor)
	if err != nil {
		return nil, err
	}

	return &domain.HeatmapReport{
		Matrix: matrix,
		Pairs:  matrixPairs(matrix),
	}, nil
}

// matrixPairs разворачивает матрицу обратно в длинную форму наблюдавшихся
// пар, отсортированную по убыванию счетчика.
func matrixPairs(m *domain.Matrix) *domain.Table {
	var rows [][]any
	for i, reviewer := range m.RowLabels {
		for j, author := range m.ColLabels {
			if m.Cells[i][j] > 0 {
				rows = append(rows, []any{reviewer, author, m.Cells[i][j]})
			}
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][2].(int64) > rows[j][2].(int64)
	})

	return domain.NewTable([]string{domain.ColReviewer, colAuthor, colPRCount}, rows)
}
