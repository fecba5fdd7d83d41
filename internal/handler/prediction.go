package handler

import (
	"net/http"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// PredictionHandler обрабатывает HTTP-запросы демо-модели cycle time.
type PredictionHandler struct {
	*BaseHandler
	predictionUseCase domain.PredictionUseCase
}

// NewPredictionHandler создает новый экземпляр PredictionHandler.
func NewPredictionHandler(predictionUseCase domain.PredictionUseCase, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{
		BaseHandler:       NewBaseHandler(logger),
		predictionUseCase: predictionUseCase,
	}
}

// GetDashboardCycleTimeModel обрабатывает GET запрос обучения модели.
func (h *PredictionHandler) GetDashboardCycleTimeModel(c echo.Context, params api.GetDashboardCycleTimeModelParams) error {
	logEntry := h.logRequest(c, "train_cycle_time_model")
	logEntry.Info("Training cycle time model")

	f := toDomainFilter(params.Repos, params.StartDate, params.EndDate)
	report, err := h.predictionUseCase.TrainModel(c.Request().Context(), f)
	if err != nil {
		logEntry.WithError(err).Warn("Failed to train cycle time model")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithFields(logrus.Fields{
		"rows_used": report.RowsUsed,
		"mae_hours": report.MAEHours,
	}).Info("Cycle time model trained")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"model": toAPIModelReport(report),
	})
}

// PostDashboardCycleTimePredict обрабатывает what-if предсказание.
func (h *PredictionHandler) PostDashboardCycleTimePredict(c echo.Context) error {
	var req api.PostDashboardCycleTimePredictJSONBody
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind predict request")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry := h.logRequest(c, "predict_cycle_time").WithFields(logrus.Fields{
		"lines_added":   req.LinesAdded,
		"lines_deleted": req.LinesDeleted,
		"files_changed": req.FilesChanged,
	})
	logEntry.Info("Predicting cycle time")

	f := toDomainFilter(req.Repos, req.StartDate, req.EndDate)
	in := domain.PredictionInput{
		LinesAdded:   req.LinesAdded,
		LinesDeleted: req.LinesDeleted,
		FilesChanged: req.FilesChanged,
	}

	result, err := h.predictionUseCase.PredictCycleTime(c.Request().Context(), f, in)
	if err != nil {
		logEntry.WithError(err).Warn("Failed to predict cycle time")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toAPIErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.WithField("predicted_hours", result.PredictedHours).Info("Cycle time predicted")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"predicted_hours": result.PredictedHours,
		"model":           toAPIModelReport(result.Model),
	})
}
