package handler

import (
	"eng-analytics-service/api"
	"eng-analytics-service/internal/config"
	"eng-analytics-service/internal/domain"

	"github.com/sirupsen/logrus"
)

type APIHandler struct {
	*OverviewHandler
	*MetricsHandler
	*InsightsHandler
	*PredictionHandler
	*SettingsHandler
}

func NewAPIHandler(
	overviewUseCase domain.OverviewUseCase,
	metricsUseCase domain.MetricsUseCase,
	insightsUseCase domain.InsightsUseCase,
	predictionUseCase domain.PredictionUseCase,
	cfg config.Config,
	gateway domain.QueryGateway,
	logger *logrus.Logger,
) api.ServerInterface {

	return &APIHandler{
		OverviewHandler:   NewOverviewHandler(overviewUseCase, logger),
		MetricsHandler:    NewMetricsHandler(metricsUseCase, logger),
		InsightsHandler:   NewInsightsHandler(insightsUseCase, logger),
		PredictionHandler: NewPredictionHandler(predictionUseCase, logger),
		SettingsHandler:   NewSettingsHandler(cfg, gateway, logger),
	}
}
