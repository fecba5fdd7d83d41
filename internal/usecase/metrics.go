package usecase

import (
	"context"

	"eng-analytics-service/internal/analytics"
	"eng-analytics-service/internal/domain"
)

// Топ ревьюверов на странице сводки по ревью.
const topReviewersLimit = 15

// MetricsUseCase реализует бизнес-логику страниц пре-агрегированных витрин.
type MetricsUseCase struct {
	warehouseRepo domain.WarehouseRepository
}

// NewMetricsUseCase создает новый экземпляр MetricsUseCase.
func NewMetricsUseCase(warehouseRepo domain.WarehouseRepository) domain.MetricsUseCase {
	return &MetricsUseCase{
		warehouseRepo: warehouseRepo,
	}
}

// GetRepoVelocity возвращает отфильтрованную velocity-витрину,
// отсортированную по неделе и репозиторию.
func (uc *MetricsUseCase) GetRepoVelocity(ctx context.Context, f domain.Filter) (*domain.Table, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	velocity, err := uc.warehouseRepo.GetRepoVelocity(ctx)
	if err != nil {
		return nil, err
	}
	velocity = analytics.ApplyFilters(velocity, domain.ColRepo, domain.ColWeekStart, f)
	return analytics.SortRows(velocity, domain.ColWeekStart, domain.ColRepo), nil
}

// GetReviewerLoad возвращает недельную нагрузку выбранного ревьювера.
// Пустой reviewer означает первого в алфавитном порядке.
func (uc *MetricsUseCase) GetReviewerLoad(ctx context.Context, reviewer string, f domain.Filter) (*domain.ReviewerLoadReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	load, err := uc.warehouseRepo.GetReviewerLoad(ctx)
	if err != nil {
		return nil, err
	}
	load = analytics.ApplyFilters(load, domain.ColRepo, domain.ColWeekStart, f)

	report := &domain.ReviewerLoadReport{Weeks: load}
	if load.IsEmpty() {
		return report, nil
	}

	report.Reviewers = load.DistinctStrings(domain.ColReviewer)
	if reviewer == "" {
		reviewer = report.Reviewers[0]
	} else if !containsString(report.Reviewers, reviewer) {
		return nil, domain.ErrReviewerNotFound
	}
	report.Reviewer = reviewer

	weeks := analytics.FilterEquals(load, domain.ColReviewer, reviewer)
	report.Weeks = analytics.SortRows(weeks, domain.ColWeekStart, domain.ColRepo)
	return report, nil
}

// GetReviewSummary возвращает метрики ревьюверов и топ по числу ревью.
func (uc *MetricsUseCase) GetReviewSummary(ctx context.Context, f domain.Filter) (*domain.ReviewSummaryReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	summary, err := uc.warehouseRepo.GetPRReviewSummary(ctx)
	if err != nil {
		return nil, err
	}
	summary = analytics.ApplyFilters(summary, domain.ColRepo, "", f)

	report := &domain.ReviewSummaryReport{
		Summary: analytics.SortRows(summary, domain.ColRepo, domain.ColReviewer),
	}
	if summary.IsEmpty() {
		report.TopReviewers = summary
		return report, nil
	}

	top, err := analytics.TopNBy(summary, domain.ColTotalPRsReviewed, topReviewersLimit)
	if err != nil {
		return nil, err
	}
	report.TopReviewers = top
	return report, nil
}

// GetDORAMetrics возвращает недельные DORA-метрики выбранного репозитория.
// Пустой repo означает первый в алфавитном порядке.
func (uc *MetricsUseCase) GetDORAMetrics(ctx context.Context, repo string, f domain.Filter) (*domain.DORAReport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	dora, err := uc.warehouseRepo.GetDORAMetrics(ctx)
	if err != nil {
		return nil, err
	}
	dora = analytics.ApplyFilters(dora, domain.ColRepo, domain.ColWeekStart, f)

	report := &domain.DORAReport{Weeks: dora}
	if dora.IsEmpty() {
		return report, nil
	}

	report.Repos = dora.DistinctStrings(domain.ColRepo)
	if repo == "" {
		repo = report.Repos[0]
	} else if !containsString(report.Repos, repo) {
		return nil, domain.ErrRepoNotFound
	}
	report.Repo = repo

	weeks := analytics.FilterEquals(dora, domain.ColRepo, repo)
	report.Weeks = analytics.SortRows(weeks, domain.ColWeekStart)
	return report, nil
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
