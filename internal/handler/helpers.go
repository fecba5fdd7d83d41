package handler

import (
	"errors"
	"net/http"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/domain"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Вспомогательные функции преобразования доменных моделей в API модели

func toDomainFilter(repos *[]string, startDate, endDate *openapi_types.Date) domain.Filter {
	f := domain.Filter{}
	if repos != nil {
		f.Repos = *repos
	}
	if startDate != nil {
		t := startDate.Time
		f.StartDate = &t
	}
	if endDate != nil {
		t := endDate.Time
		f.EndDate = &t
	}
	return f
}

func toAPITable(t *domain.Table) api.Table {
	return api.Table{
		Columns: t.Columns,
		Rows:    t.Rows,
	}
}

func toAPIHeatmap(m *domain.Matrix) api.Heatmap {
	return api.Heatmap{
		Reviewers: m.RowLabels,
		Authors:   m.ColLabels,
		Cells:     m.Cells,
	}
}

func toAPIDoraWeeks(trend []domain.DORAWeek) []api.DoraWeek {
	weeks := make([]api.DoraWeek, len(trend))
	for i, w := range trend {
		weeks[i] = api.DoraWeek{
			WeekStart:         openapi_types.Date{Time: w.WeekStart},
			Deployments:       w.Deployments,
			AvgLeadTimeHours:  w.AvgLeadTimeHours,
			ChangeFailureRate: w.ChangeFailureRate,
			MttrHours:         w.MTTRHours,
		}
	}
	return weeks
}

func toAPIModelReport(report *domain.ModelReport) api.ModelReport {
	features := make([]api.FeatureImportance, len(report.Features))
	for i, f := range report.Features {
		features[i] = api.FeatureImportance{
			Feature:    f.Feature,
			Importance: f.Importance,
		}
	}
	return api.ModelReport{
		RowsUsed: report.RowsUsed,
		MaeHours: report.MAEHours,
		Features: features,
		Medians: api.PredictionInput{
			LinesAdded:   report.Medians.LinesAdded,
			LinesDeleted: report.Medians.LinesDeleted,
			FilesChanged: report.Medians.FilesChanged,
		},
	}
}

func toErrorResponse(code, message string) api.ErrorResponse {
	return api.ErrorResponse{
		Error: struct {
			Code    api.ErrorResponseErrorCode `json:"code"`
			Message string                     `json:"message"`
		}{
			Code:    api.ErrorResponseErrorCode(code),
			Message: message,
		},
	}
}

func toAPIErrorResponse(httpErr domain.HTTPError) api.ErrorResponse {
	return api.ErrorResponse{
		Error: struct {
			Code    api.ErrorResponseErrorCode `json:"code"`
			Message string                     `json:"message"`
		}{
			Code:    api.ErrorResponseErrorCode(httpErr.Code),
			Message: httpErr.Message,
		},
	}
}

func getHTTPStatusCode(err error) int {
	var schemaErr *domain.SchemaError
	if errors.As(err, &schemaErr) {
		// Нарушение контракта витрины — фатально (500)
		return http.StatusInternalServerError
	}

	switch err {
	// Not Found errors (404)
	case domain.ErrReviewerNotFound, domain.ErrRepoNotFound:
		return http.StatusNotFound

	// Unprocessable (422) - данных недостаточно для обучения
	case domain.ErrNotEnoughData:
		return http.StatusUnprocessableEntity

	// Bad Request errors (400) - валидация
	case domain.ErrInvalidPredictionInput, domain.ErrInvalidDateRange:
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
