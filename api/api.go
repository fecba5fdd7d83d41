// Package api содержит модели HTTP API дашборда и echo-биндинги.
package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Table — прямоугольный результат для табличных виджетов.
type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// OverviewKpis — KPI сводной страницы за последние 4 недели.
type OverviewKpis struct {
	DeploymentsLast4Weeks int64    `json:"deployments_last_4_weeks"`
	AvgLeadTimeHours      *float64 `json:"avg_lead_time_hours"`
	ChangeFailureRate     *float64 `json:"change_failure_rate"`
	AvgReviewerLoad       *float64 `json:"avg_reviewer_load"`
}

// DoraWeek — одна неделя DORA-метрик.
type DoraWeek struct {
	WeekStart         openapi_types.Date `json:"week_start"`
	Deployments       int64              `json:"deployments"`
	AvgLeadTimeHours  float64            `json:"avg_lead_time_hours"`
	ChangeFailureRate float64            `json:"change_failure_rate"`
	MttrHours         float64            `json:"mttr_hours"`
}

// Heatmap — плотная матрица reviewer×author.
type Heatmap struct {
	Reviewers []string  `json:"reviewers"`
	Authors   []string  `json:"authors"`
	Cells     [][]int64 `json:"cells"`
}

// FeatureImportance — вклад фичи в обученную модель.
type FeatureImportance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// PredictionInput — фичи what-if предсказания.
type PredictionInput struct {
	LinesAdded   float64 `json:"lines_added"`
	LinesDeleted float64 `json:"lines_deleted"`
	FilesChanged float64 `json:"files_changed"`
}

// ModelReport — результат обучения демо-модели.
type ModelReport struct {
	RowsUsed int                 `json:"rows_used"`
	MaeHours float64             `json:"mae_hours"`
	Features []FeatureImportance `json:"features"`
	Medians  PredictionInput     `json:"medians"`
}

// CacheInfo — состояние кэша результатов запросов.
type CacheInfo struct {
	Entries    int `json:"entries"`
	TtlSeconds int `json:"ttl_seconds"`
}

// ConnectionInfo — параметры подключения к хранилищу без секретов.
type ConnectionInfo struct {
	Host     string `json:"host"`
	Database string `json:"database"`
	Schema   string `json:"schema"`
	User     string `json:"user"`
}

type ErrorResponseErrorCode string

// ErrorResponse — стандартный формат ошибки API.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// PostDashboardCycleTimePredictJSONBody — тело what-if предсказания.
type PostDashboardCycleTimePredictJSONBody struct {
	LinesAdded   float64               `json:"lines_added"`
	LinesDeleted float64               `json:"lines_deleted"`
	FilesChanged float64               `json:"files_changed"`
	Repos        *[]string             `json:"repos,omitempty"`
	StartDate    *openapi_types.Date   `json:"start_date,omitempty"`
	EndDate      *openapi_types.Date   `json:"end_date,omitempty"`
}

// FilterParams — общие query-параметры фильтра страниц.
type GetDashboardOverviewParams struct {
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
}

type GetDashboardRepoVelocityParams struct {
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
}

type GetDashboardReviewerLoadParams struct {
	Reviewer  *string             `form:"reviewer,omitempty" json:"reviewer,omitempty"`
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
}

type GetDashboardReviewSummaryParams struct {
	Repos *[]string `form:"repos,omitempty" json:"repos,omitempty"`
}

type GetDashboardDoraMetricsParams struct {
	Repo      *string             `form:"repo,omitempty" json:"repo,omitempty"`
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
}

type GetDashboardLeaderboardParams struct {
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
	Limit     *int                `form:"limit,omitempty" json:"limit,omitempty"`
}

type GetDashboardHeatmapParams struct {
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
}

type GetDashboardCycleTimeModelParams struct {
	Repos     *[]string           `form:"repos,omitempty" json:"repos,omitempty"`
	StartDate *openapi_types.Date `form:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *openapi_types.Date `form:"end_date,omitempty" json:"end_date,omitempty"`
}

// ServerInterface описывает обработчики всех endpoint'ов дашборда.
type ServerInterface interface {
	GetDashboardOverview(ctx echo.Context, params GetDashboardOverviewParams) error
	GetDashboardRepoVelocity(ctx echo.Context, params GetDashboardRepoVelocityParams) error
	GetDashboardReviewerLoad(ctx echo.Context, params GetDashboardReviewerLoadParams) error
	GetDashboardReviewSummary(ctx echo.Context, params GetDashboardReviewSummaryParams) error
	GetDashboardDoraMetrics(ctx echo.Context, params GetDashboardDoraMetricsParams) error
	GetDashboardLeaderboard(ctx echo.Context, params GetDashboardLeaderboardParams) error
	GetDashboardHeatmap(ctx echo.Context, params GetDashboardHeatmapParams) error
	GetDashboardCycleTimeModel(ctx echo.Context, params GetDashboardCycleTimeModelParams) error
	PostDashboardCycleTimePredict(ctx echo.Context) error
	GetSettings(ctx echo.Context) error
	PostSettingsCacheClear(ctx echo.Context) error
}

// ServerInterfaceWrapper преобразует echo-контексты в вызовы ServerInterface.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetDashboardOverview(ctx echo.Context) error {
	var params GetDashboardOverviewParams
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	return w.Handler.GetDashboardOverview(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardRepoVelocity(ctx echo.Context) error {
	var params GetDashboardRepoVelocityParams
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	return w.Handler.GetDashboardRepoVelocity(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardReviewerLoad(ctx echo.Context) error {
	var params GetDashboardReviewerLoadParams
	if err := runtime.BindQueryParameter("form", true, false, "reviewer", ctx.QueryParams(), &params.Reviewer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter reviewer: %s", err))
	}
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	return w.Handler.GetDashboardReviewerLoad(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardReviewSummary(ctx echo.Context) error {
	var params GetDashboardReviewSummaryParams
	if err := runtime.BindQueryParameter("form", true, false, "repos", ctx.QueryParams(), &params.Repos); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter repos: %s", err))
	}
	return w.Handler.GetDashboardReviewSummary(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardDoraMetrics(ctx echo.Context) error {
	var params GetDashboardDoraMetricsParams
	if err := runtime.BindQueryParameter("form", true, false, "repo", ctx.QueryParams(), &params.Repo); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter repo: %s", err))
	}
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	return w.Handler.GetDashboardDoraMetrics(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardLeaderboard(ctx echo.Context) error {
	var params GetDashboardLeaderboardParams
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}
	return w.Handler.GetDashboardLeaderboard(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardHeatmap(ctx echo.Context) error {
	var params GetDashboardHeatmapParams
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	return w.Handler.GetDashboardHeatmap(ctx, params)
}

func (w *ServerInterfaceWrapper) GetDashboardCycleTimeModel(ctx echo.Context) error {
	var params GetDashboardCycleTimeModelParams
	if err := bindFilterParams(ctx, &params.Repos, &params.StartDate, &params.EndDate); err != nil {
		return err
	}
	return w.Handler.GetDashboardCycleTimeModel(ctx, params)
}

func (w *ServerInterfaceWrapper) PostDashboardCycleTimePredict(ctx echo.Context) error {
	return w.Handler.PostDashboardCycleTimePredict(ctx)
}

func (w *ServerInterfaceWrapper) GetSettings(ctx echo.Context) error {
	return w.Handler.GetSettings(ctx)
}

func (w *ServerInterfaceWrapper) PostSettingsCacheClear(ctx echo.Context) error {
	return w.Handler.PostSettingsCacheClear(ctx)
}

func bindFilterParams(ctx echo.Context, repos **[]string, startDate, endDate **openapi_types.Date) error {
	if err := runtime.BindQueryParameter("form", true, false, "repos", ctx.QueryParams(), repos); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter repos: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "start_date", ctx.QueryParams(), startDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter start_date: %s", err))
	}
	if err := runtime.BindQueryParameter("form", true, false, "end_date", ctx.QueryParams(), endDate); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter end_date: %s", err))
	}
	return nil
}

// RegisterHandlers регистрирует маршруты дашборда в echo.
func RegisterHandlers(router *echo.Echo, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL регистрирует маршруты с префиксом baseURL.
func RegisterHandlersWithBaseURL(router *echo.Echo, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{Handler: si}

	router.GET(baseURL+"/dashboard/overview", wrapper.GetDashboardOverview)
	router.GET(baseURL+"/dashboard/repoVelocity", wrapper.GetDashboardRepoVelocity)
	router.GET(baseURL+"/dashboard/reviewerLoad", wrapper.GetDashboardReviewerLoad)
	router.GET(baseURL+"/dashboard/reviewSummary", wrapper.GetDashboardReviewSummary)
	router.GET(baseURL+"/dashboard/doraMetrics", wrapper.GetDashboardDoraMetrics)
	router.GET(baseURL+"/dashboard/leaderboard", wrapper.GetDashboardLeaderboard)
	router.GET(baseURL+"/dashboard/heatmap", wrapper.GetDashboardHeatmap)
	router.GET(baseURL+"/dashboard/cycleTimeModel", wrapper.GetDashboardCycleTimeModel)
	router.POST(baseURL+"/dashboard/cycleTimePredict", wrapper.PostDashboardCycleTimePredict)
	router.GET(baseURL+"/settings", wrapper.GetSettings)
	router.POST(baseURL+"/settings/cacheClear", wrapper.PostSettingsCacheClear)
}
