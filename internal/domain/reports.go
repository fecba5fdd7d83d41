package domain

import "time"

// Filter — выбранные пользователем предикаты страницы.
// Пустой список репозиториев означает "без фильтра", а не "исключить все".
// Диапазон дат включителен с обеих сторон и сравнивается по календарной дате.
type Filter struct {
	Repos     []string
	StartDate *time.Time
	EndDate   *time.Time
}

// Validate проверяет согласованность диапазона дат.
func (f Filter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Matrix — плотная матрица взаимодействий reviewer×author.
// Метки строк и колонок — отсортированные уникальные значения текущей
// выборки, ненаблюдавшиеся пары заполнены нулями.
type Matrix struct {
	RowLabels []string
	ColLabels []string
	Cells     [][]int64
}

// Value возвращает значение ячейки по меткам (0, если меток нет).
func (m *Matrix) Value(rowLabel, colLabel string) int64 {
	row, col := -1, -1
	for i, l := range m.RowLabels {
		if l == rowLabel {
			row = i
			break
		}
	}
	for j, l := range m.ColLabels {
		if l == colLabel {
			col = j
			break
		}
	}
	if row < 0 || col < 0 {
		return 0
	}
	return m.Cells[row][col]
}

// OverviewKPIs — показатели за последние 4 недели DORA-витрины.
type OverviewKPIs struct {
	DeploymentsLast4Weeks int64
	AvgLeadTimeHours      *float64
	ChangeFailureRate     *float64
	AvgReviewerLoad       *float64
}

// DORAWeek — одна неделя DORA-метрик по репозиторию.
type DORAWeek struct {
	WeekStart         time.Time
	Deployments       int64
	AvgLeadTimeHours  float64
	ChangeFailureRate float64
	MTTRHours         float64
}

// OverviewReport — сводная страница.
type OverviewReport struct {
	NoData       bool
	KPIs         OverviewKPIs
	TopRepo      string
	TopRepoTrend []DORAWeek
}

// ReviewerLoadReport — недельная нагрузка выбранного ревьювера.
type ReviewerLoadReport struct {
	Reviewer  string
	Reviewers []string
	Weeks     *Table
}

// ReviewSummaryReport — метрики ревьюверов и топ по числу ревью.
type ReviewSummaryReport struct {
	Summary      *Table
	TopReviewers *Table
}

// DORAReport — недельные DORA-метрики выбранного репозитория.
type DORAReport struct {
	Repo  string
	Repos []string
	Weeks *Table
}

// HeatmapReport — матрица reviewer×author и исходные пары.
type HeatmapReport struct {
	Matrix *Matrix
	Pairs  *Table
}

// PredictionInput — фичи для what-if предсказания cycle time.
type PredictionInput struct {
	LinesAdded   float64
	LinesDeleted float64
	FilesChanged float64
}

// FeatureImportance — вклад фичи в обученную модель.
type FeatureImportance struct {
	Feature    string
	Importance float64
}

// ModelReport — результат обучения демонстрационной модели.
type ModelReport struct {
	RowsUsed int
	MAEHours float64
	Features []FeatureImportance
	Medians  PredictionInput
}

// PredictionResult — предсказание для конкретных фич.
type PredictionResult struct {
	PredictedHours float64
	Model          *ModelReport
}

// CacheStats — состояние кэша результатов запросов.
type CacheStats struct {
	Entries int
	TTL     time.Duration
}
