package handler

import (
	"net/http"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// MetricsHandler обрабатывает HTTP-запросы страниц пре-агрегированных витрин.
type MetricsHandler struct {
	*BaseHandler
	metricsUseCase domain.MetricsUseCase
}

// NewMetricsHandler создает новый экземпляр MetricsHandler.
func NewMetricsHandler(metricsUseCase domain.MetricsUseCase, logger *logrus.Logger) *MetricsHandler {
	return &MetricsHandler{
		BaseHandler:    NewBaseHandler(logger),
		metricsUseCase: metricsUseCase,
	}
}

// GetDashboardRepoVelocity обрабатывает GET запрос velocity-витрины.
func (h *MetricsHandler) GetDashboardRepoVelocity(c echo.Context, params api.GetDashboardRepoVelocityParams) error {
	logEntry := h.logRequest(c, "get_repo_velocity")
	logEntry.Info("Getting repo velocity")

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	table, err := h.metricsUseCase.GetRepoVelocity(c.Request().Context(), f)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get repo velocity")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if table.IsEmpty() {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No repo velocity data available.",
		})
	}

	logEntry.WithField("rows", table.NumRows()).Info("Repo velocity retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"no_data": false,
		"table":   toAPITable(table),
	})
}

// GetDashboardReviewerLoad обрабатывает GET запрос нагрузки ревьювера.
func (h *MetricsHandler) GetDashboardReviewerLoad(c echo.Context, params api.GetDashboardReviewerLoadParams) error {
	logEntry := h.logRequest(c, "get_reviewer_load")
	logEntry.Info("Getting reviewer load")

	reviewer := ""
	if params.Reviewer != nil {
		reviewer = *params.Reviewer
	}

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	report, err := h.metricsUseCase.GetReviewerLoad(c.Request().Context(), reviewer, f)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get reviewer load")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if report.Weeks.IsEmpty() && report.Reviewer == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No reviewer load data available.",
		})
	}

	logEntry.WithFields(logrus.Fields{
		"reviewer": report.Reviewer,
		"rows":     report.Weeks.NumRows(),
	}).Info("Reviewer load retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"no_data":   false,
		"reviewer":  report.Reviewer,
		"reviewers": report.Reviewers,
		"table":     toAPITable(report.Weeks),
	})
}

// GetDashboardReviewSummary обрабатывает GET запрос сводки по ревью.
func (h *MetricsHandler) GetDashboardReviewSummary(c echo.Context, params api.GetDashboardReviewSummaryParams) error {
	logEntry := h.logRequest(c, "get_review_summary")
	logEntry.Info("Getting PR review summary")

	f := toDomainFilter(params.Repos, nil, nil)
	report, err := h.metricsUseCase.GetReviewSummary(c.Request().Context(), f)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get review summary")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if report.Summary.IsEmpty() {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No PR review summary data available.",
		})
	}

	logEntry.WithField("rows", report.Summary.NumRows()).Info("Review summary retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"no_data":       false,
		"summary":       toAPITable(report.Summary),
		"top_reviewers": toAPITable(report.TopReviewers),
	})
}

// GetDashboardDoraMetrics обрабатывает GET запрос DORA-метрик репозитория.
func (h *MetricsHandler) GetDashboardDoraMetrics(c echo.Context, params api.GetDashboardDoraMetricsParams) error {
	logEntry := h.logRequest(c, "get_dora_metrics")
	logEntry.Info("Getting DORA metrics")

	repo := ""
	if params.Repo != nil {
		repo = *params.Repo
	}

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	report, err := h.metricsUseCase.GetDORAMetrics(c.Request().Context(), repo, f)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get DORA metrics")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if report.Weeks.IsEmpty() && report.Repo == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No DORA metrics available.",
		})
	}

	logEntry.WithFields(logrus.Fields{
		"repo": report.Repo,
		"rows": report.Weeks.NumRows(),
	}).Info("DORA metrics retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"no_data": false,
		"repo":    report.Repo,
		"repos":   report.Repos,
		"table":   toAPITable(report.Weeks),
	})
}
