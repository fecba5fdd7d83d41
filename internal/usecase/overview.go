package usecase

import (
	"context"
	"time"

	"eng-analytics-service/internal/analytics"
	"eng-analytics-service/internal/domain"
)

// Окно сводных KPI — последние 4 недели DORA-витрины.
const overviewKPIWindow = 4 * 7 * 24 * time.Hour

// OverviewUseCase реализует бизнес-логику сводной страницы.
type OverviewUseCase struct {
	warehouseRepo domain.WarehouseRepository
}

// NewOverviewUseCase создает новый экземпляр OverviewUseCase.
func NewOverviewUseCase(warehouseRepo domain.WarehouseRepository) domain.OverviewUseCase {
	return &OverviewUseCase{
		warehouseRepo: warehouseRepo,
	}
}

// GetOverview считает KPI за последние 4 недели и тренд репозитория
// с наибольшим числом деплоев.
func (uc *OverviewUseCase) GetOverview(ctx context.Context, f domain.Filter) (*domain.OverviewReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	dora, err := uc.warehouseRepo.GetDORAMetrics(ctx)
	if err != nil {
		return nil, err
	}
	dora = analytics.ApplyFilters(dora, domain.ColRepo, domain.ColWeekStart, f)

	load, err := uc.warehouseRepo.GetReviewerLoad(ctx)
	if err != nil {
		return nil, err
	}
	load = analytics.ApplyFilters(load, domain.ColRepo, domain.ColWeekStart, f)

	report := &domain.OverviewReport{}
	if dora.IsEmpty() && load.IsEmpty() {
		report.NoData = true
		return report, nil
	}

	recent := recentWeeks(dora, overviewKPIWindow)
	report.KPIs = domain.OverviewKPIs{
		DeploymentsLast4Weeks: int64(columnSum(recent, domain.ColDeployments)),
		AvgLeadTimeHours:      columnMean(recent, domain.ColAvgLeadTimeHours),
		ChangeFailureRate:     columnMean(recent, domain.ColChangeFailureRate),
		AvgReviewerLoad:       columnMean(latestWeekRows(load), domain.ColPRsReviewed),
	}

	if !recent.IsEmpty() {
		byDeploys, err := analytics.LeaderboardReduce(recent, domain.ColRepo, []analytics.ReduceSpec{
			{Name: domain.ColDeployments, Column: domain.ColDeployments, Op: analytics.ReduceSum},
		}, 1)
		if err != nil {
			return nil, err
		}
		if !byDeploys.IsEmpty() {
			report.TopRepo = byDeploys.StringAt(0, domain.ColRepo)
			report.TopRepoTrend = doraTrend(analytics.FilterEquals(dora, domain.ColRepo, report.TopRepo))
		}
	}

	return report, nil
}

// recentWeeks оставляет строки, неделя которых не старше window
// относительно последней наблюдаемой недели.
func recentWeeks(t *domain.Table, window time.Duration) *domain.Table {
	latest, ok := columnMaxTime(t, domain.ColWeekStart)
	if !ok {
		return t
	}
	cutoff := latest.Add(-window)

	rows := make([][]any, 0, t.NumRows())
	for i := range t.Rows {
		if ts, ok := t.TimeAt(i, domain.ColWeekStart); ok && !ts.Before(cutoff) {
			rows = append(rows, t.Rows[i])
		}
	}
	return domain.NewTable(t.Columns, rows)
}

// latestWeekRows оставляет строки последней наблюдаемой недели.
func latestWeekRows(t *domain.Table) *domain.Table {
	latest, ok := columnMaxTime(t, domain.ColWeekStart)
	if !ok {
		return t
	}

	rows := make([][]any, 0, t.NumRows())
	for i := range t.Rows {
		if ts, ok := t.TimeAt(i, domain.ColWeekStart); ok && ts.Equal(latest) {
			rows = append(rows, t.Rows[i])
		}
	}
	return domain.NewTable(t.Columns, rows)
}

func doraTrend(t *domain.Table) []domain.DORAWeek {
	sorted := analytics.SortRows(t, domain.ColWeekStart)
	trend := make([]domain.DORAWeek, 0, sorted.NumRows())
	for i := 0; i < sorted.NumRows(); i++ {
		week, ok := sorted.TimeAt(i, domain.ColWeekStart)
		if !ok {
			continue
		}
		deployments, _ := sorted.Float64At(i, domain.ColDeployments)
		leadTime, _ := sorted.Float64At(i, domain.ColAvgLeadTimeHours)
		cfr, _ := sorted.Float64At(i, domain.ColChangeFailureRate)
		mttr, _ := sorted.Float64At(i, domain.ColMTTRHours)
		trend = append(trend, domain.DORAWeek{
			WeekStart:         week,
			Deployments:       int64(deployments),
			AvgLeadTimeHours:  leadTime,
			ChangeFailureRate: cfr,
			MTTRHours:         mttr,
		})
	}
	return trend
}

func columnSum(t *domain.Table, col string) float64 {
	var sum float64
	for i := range t.Rows {
		if v, ok := t.Float64At(i, col); ok {
			sum += v
		}
	}
	return sum
}

func columnMean(t *domain.Table, col string) *float64 {
	var sum float64
	var count int
	for i := range t.Rows {
		if v, ok := t.Float64At(i, col); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}

func columnMaxTime(t *domain.Table, col string) (time.Time, bool) {
	var latest time.Time
	found := false
	for i := range t.Rows {
		if ts, ok := t.TimeAt(i, col); ok {
			if !found || ts.After(latest) {
				latest = ts
				found = true
			}
		}
	}
	return latest, found
}
