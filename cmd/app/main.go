package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/config"
	"eng-analytics-service/internal/database"
	"eng-analytics-service/internal/domain"
	"eng-analytics-service/internal/handler"
	"eng-analytics-service/internal/predictor"
	"eng-analytics-service/internal/repository"
	"eng-analytics-service/internal/usecase"
	"eng-analytics-service/internal/warehouse"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг: без ключей подключения к хранилищу не стартуем
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Config load failed: %v", err)
	}

	// Хранилище (database/sql, один handle на процесс)
	db, err := database.NewWarehouseDB(cfg)
	if err != nil {
		logger.Fatalf("Warehouse connection failed: %v", err)
	}
	defer db.Close()
	logger.Info("Warehouse connected")

	// Шлюз запросов с кэшем результатов
	gateway := warehouse.NewClient(db, cfg.CacheTTL, logger)

	// Репозиторий витрин
	warehouseRepo := repository.NewWarehouseRepository(gateway)

	// Use Cases
	overviewUC := usecase.NewOverviewUseCase(warehouseRepo)
	metricsUC := usecase.NewMetricsUseCase(warehouseRepo)
	insightsUC := usecase.NewInsightsUseCase(warehouseRepo)
	predictionUC := usecase.NewPredictionUseCase(warehouseRepo, func() domain.Estimator {
		return predictor.NewLinearRegressor()
	})

	// Echo + Handlers
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.LoggingMiddleware(logger))

	// Handlers
	apiHandler := handler.NewAPIHandler(overviewUC, metricsUC, insightsUC, predictionUC, cfg, gateway, logger)
	api.RegisterHandlers(e, apiHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
