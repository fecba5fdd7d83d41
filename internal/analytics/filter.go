package analytics

import (
	"time"

	"eng-analytics-service/internal/domain"
)

// ApplyFilters применяет предикаты страницы к таблице: членство значения
// groupCol в выбранном наборе и включительный диапазон по календарной дате
// dateCol. Пустая таблица возвращается без изменений. Пустой набор значений —
// "без фильтра", а не "исключить все". Отсутствующая в таблице колонка
// предиката пропускается: фатальная проверка колонок — зона агрегации.
func ApplyFilters(t *domain.Table, groupCol, dateCol string, f domain.Filter) *domain.Table {
	if t.IsEmpty() {
		return t
	}

	result := t
	if groupCol != "" && result.HasColumn(groupCol) && len(f.Repos) > 0 {
		result = FilterIn(result, groupCol, f.Repos)
	}
	if dateCol != "" && result.HasColumn(dateCol) && (f.StartDate != nil || f.EndDate != nil) {
		result = filterDateRange(result, dateCol, f.StartDate, f.EndDate)
	}
	return result
}

// FilterIn оставляет строки, значение колонки которых входит в набор.
func FilterIn(t *domain.Table, col string, values []string) *domain.Table {
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}

	rows := make([][]any, 0, t.NumRows())
	for i := range t.Rows {
		if _, ok := allowed[t.StringAt(i, col)]; ok {
			rows = append(rows, t.Rows[i])
		}
	}
	return domain.NewTable(t.Columns, rows)
}

// FilterEquals оставляет строки с точным значением колонки.
func FilterEquals(t *domain.Table, col, value string) *domain.Table {
	return FilterIn(t, col, []string{value})
}

func filterDateRange(t *domain.Table, col string, start, end *time.Time) *domain.Table {
	rows := make([][]any, 0, t.NumRows())
	for i := range t.Rows {
		ts, ok := t.TimeAt(i, col)
		if !ok {
			continue
		}
		date := truncateToDate(ts)
		if start != nil && date.Before(truncateToDate(*start)) {
			continue
		}
		if end != nil && date.After(truncateToDate(*end)) {
			continue
		}
		rows = append(rows, t.Rows[i])
	}
	return domain.NewTable(t.Columns, rows)
}

func truncateToDate(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
