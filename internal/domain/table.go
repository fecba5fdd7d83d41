package domain

import (
	"sort"
	"strconv"
	"time"
)

// Table — прямоугольный результат запроса к хранилищу: именованные колонки
// и строки значений. После выборки таблица считается неизменяемой на время
// обработки страницы.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// NewTable создает таблицу из списка колонок и строк.
func NewTable(columns []string, rows [][]any) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// NumRows возвращает количество строк.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// IsEmpty сообщает, что в таблице нет ни одной строки.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// ColumnIndex возвращает позицию колонки или -1, если колонки нет.
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn проверяет наличие колонки.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// RequireColumns проверяет наличие всех перечисленных колонок до начала
// агрегации. Отсутствие любой из них — фатальное нарушение контракта.
func (t *Table) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// ValueAt возвращает сырое значение ячейки или nil.
func (t *Table) ValueAt(row int, col string) any {
	idx := t.ColumnIndex(col)
	if idx < 0 || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][idx]
}

// StringAt возвращает строковое значение ячейки ("" для nil и нестрок).
func (t *Table) StringAt(row int, col string) string {
	switch v := t.ValueAt(row, col).(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Float64At приводит числовое значение ячейки к float64.
// Второй результат false, если значение отсутствует или не числовое.
func (t *Table) Float64At(row int, col string) (float64, bool) {
	switch v := t.ValueAt(row, col).(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// TimeAt приводит значение ячейки к time.Time.
func (t *Table) TimeAt(row int, col string) (time.Time, bool) {
	switch v := t.ValueAt(row, col).(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// DistinctStrings возвращает отсортированный список уникальных непустых
// значений колонки.
func (t *Table) DistinctStrings(col string) []string {
	seen := make(map[string]struct{})
	for i := range t.Rows {
		if v := t.StringAt(i, col); v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
