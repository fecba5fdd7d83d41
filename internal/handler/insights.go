package handler

import (
	"net/http"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// InsightsHandler обрабатывает HTTP-запросы лидерборда и heatmap'ы.
type InsightsHandler struct {
	*BaseHandler
	insightsUseCase domain.InsightsUseCase
}

// NewInsightsHandler создает новый экземпляр InsightsHandler.
func NewInsightsHandler(insightsUseCase domain.InsightsUseCase, logger *logrus.Logger) *InsightsHandler {
	return &InsightsHandler{
		BaseHandler:     NewBaseHandler(logger),
		insightsUseCase: insightsUseCase,
	}
}

// GetDashboardLeaderboard обрабатывает GET запрос лидерборда контрибьюторов.
func (h *InsightsHandler) GetDashboardLeaderboard(c echo.Context, params api.GetDashboardLeaderboardParams) error {
	logEntry := h.logRequest(c, "get_leaderboard")
	logEntry.Info("Getting contributor leaderboard")

	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	board, err := h.insightsUseCase.GetContributorLeaderboard(c.Request().Context(), f, limit)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get leaderboard")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if board.IsEmpty() {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No fact data available for the leaderboard.",
		})
	}

	logEntry.WithField("rows", board.NumRows()).Info("Leaderboard retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"no_data": false,
		"table":   toAPITable(board),
	})
}

// GetDashboardHeatmap обрабатывает GET запрос матрицы reviewer×author.
func (h *InsightsHandler) GetDashboardHeatmap(c echo.Context, params api.GetDashboardHeatmapParams) error {
	logEntry := h.logRequest(c, "get_heatmap")
	logEntry.Info("Getting reviewer-author heatmap")

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	report, err := h.insightsUseCase.GetReviewerAuthorHeatmap(c.Request().Context(), f)
	if err != nil {
		logEntry.WithError(err).Error("Failed to get heatmap")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	if len(report.Matrix.RowLabels) == 0 && len(report.Matrix.ColLabels) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"no_data": true,
			"message": "No fact data available for the heatmap.",
		})
	}

	logEntry.WithFields(logrus.Fields{
		"reviewers": len(report.Matrix.RowLabels),
		"authors":   len(report.Matrix.ColLabels),
	}).Info("Heatmap retrieved")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"no_data": false,
		"heatmap": toAPIHeatmap(report.Matrix),
		"pairs":   toAPITable(report.Pairs),
	})
}
