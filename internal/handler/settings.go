package handler

import (
	"net/http"

	"eng-analytics-service/api"
	"eng-analytics-service/internal/config"
	"eng-analytics-service/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// SettingsHandler отдает параметры подключения (без секретов) и состояние
// кэша, а также сбрасывает кэш по запросу.
type SettingsHandler struct {
	*BaseHandler
	cfg     config.Config
	gateway domain.QueryGateway
}

// NewSettingsHandler создает новый экземпляр SettingsHandler.
func NewSettingsHandler(cfg config.Config, gateway domain.QueryGateway, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		BaseHandler: NewBaseHandler(logger),
		cfg:         cfg,
		gateway:     gateway,
	}
}

// GetSettings обрабатывает GET запрос информации о подключении и кэше.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	logEntry := h.logRequest(c, "get_settings")
	logEntry.Info("Getting settings")

	stats := h.gateway.CacheStats()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"connection": api.ConnectionInfo{
			Host:     h.cfg.WarehouseHost,
			Database: h.cfg.WarehouseDB,
			Schema:   h.cfg.WarehouseSchema,
			User:     h.cfg.WarehouseUser,
		},
		"cache": api.CacheInfo{
			Entries:    stats.Entries,
			TtlSeconds: int(stats.TTL.Seconds()),
		},
	})
}

// PostSettingsCacheClear сбрасывает кэш результатов запросов.
func (h *SettingsHandler) PostSettingsCacheClear(c echo.Context) error {
	logEntry := h.logRequest(c, "clear_cache")

	h.gateway.InvalidateCache()

	logEntry.Info("Query cache cleared")
	return c.JSON(http.StatusOK, map[string]string{"status": "cache cleared"})
}
