package handler

import (
	"net/http"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// OverviewHandler обрабатывает HTTP-запросы сводной страницы.
type OverviewHandler struct {
	*BaseHandler
	overviewUseCase domain.OverviewUseCase
}

// NewOverviewHandler создает новый экземпляр OverviewHandler.
func NewOverviewHandler(overviewUseCase domain.OverviewUseCase, logger *logrus.Logger) *OverviewHandler {
	return &OverviewHandler{
		BaseHandler:     NewBaseHandler(logger),
		overviewUseCase: overviewUseCase,
	}
}

// GetDashboardOverview обрабатывает GET запрос сводных KPI.
func (h *OverviewHandler) GetDashboardOverview(c echo.Context, params api.GetDashboardOverviewParams) error {
	logEntry := h.logRequest(c, "get_overview")
	logEntry.Info("Getting overview KPIs")

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	report, err := h.overviewUseCase.GetOverview(c.Request().Context(), f)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get overview")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if report.NoData {
		logEntry.Info("No DORA data for overview")
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No DORA data available yet.",
		})
	}

	response := map[string]interface{}{
		"no_data": false,
		"kpis": api.OverviewKpis{
			DeploymentsLast4Weeks: report.KPIs.DeploymentsLast4Weeks,
			AvgLeadTimeHours:      report.KPIs.AvgLeadTimeHours,
			ChangeFailureRate:     report.KPIs.ChangeFailureRate,
			AvgReviewerLoad:       report.KPIs.AvgReviewerLoad,
		},
	}
	if report.TopRepo != "" {
		response["top_repo"] = report.TopRepo
		response["top_repo_trend"] = toAPIDoraWeeks(report.TopRepoTrend)
	}

	logEntry.WithField("top_repo", report.TopRepo).Info("Overview retrieved")
	return c.JSON(http.StatusOK, response)
}
