package analytics

import (
	"sort"

	"eng-analytics-service/internal/domain"
)

// Reduction — операция свертки группы.
type Reduction int

const (
	ReduceCountDistinct Reduction = iota
	ReduceMean
	ReduceSum
)

// ReduceSpec — одна агрегатная колонка лидерборда: имя в результате,
// исходная колонка и операция.
type ReduceSpec struct {
	Name   string
	Column string
	Op     Reduction
}

// LeaderboardReduce группирует строки по категориальному ключу и сворачивает
// каждую группу по заданным операциям. Результат отсортирован по убыванию
// первой агрегатной колонки; при равенстве — по возрастанию ключа, чтобы
// вывод был стабилен между запусками. topN > 0 обрезает результат.
// Отсутствие любой требуемой колонки — фатальная ошибка до начала свертки.
func LeaderboardReduce(t *domain.Table, key string, specs []ReduceSpec, topN int) (*domain.Table, error) {
	required := make([]string, 0, len(specs)+1)
	required = append(required, key)
	for _, spec := range specs {
		required = append(required, spec.Column)
	}
	if err := t.RequireColumns(required...); err != nil {
		return nil, err
	}

	type groupState struct {
		distinct []map[string]struct{}
		sums     []float64
		counts   []int64
	}

	groups := make(map[string]*groupState)
	var order []string
	for i := range t.Rows {
		k := t.StringAt(i, key)
		if k == "" {
			continue
		}
		g, ok := groups[k]
		if !ok {
			g = &groupState{
				distinct: make([]map[string]struct{}, len(specs)),
				sums:     make([]float64, len(specs)),
				counts:   make([]int64, len(specs)),
			}
			for j := range specs {
				g.distinct[j] = make(map[string]struct{})
			}
			groups[k] = g
			order = append(order, k)
		}

		for j, spec := range specs {
			switch spec.Op {
			case ReduceCountDistinct:
				if v := t.StringAt(i, spec.Column); v != "" {
					g.distinct[j][v] = struct{}{}
				}
			case ReduceMean, ReduceSum:
				if v, ok := t.Float64At(i, spec.Column); ok {
					g.sums[j] += v
					g.counts[j]++
				}
			}
		}
	}

	columns := make([]string, 0, len(specs)+1)
	columns = append(columns, key)
	for _, spec := range specs {
		columns = append(columns, spec.Name)
	}

	rows := make([][]any, 0, len(groups))
	for _, k := range order {
		g := groups[k]
		row := make([]any, 0, len(specs)+1)
		row = append(row, k)
		for j, spec := range specs {
			switch spec.Op {
			case ReduceCountDistinct:
				row = append(row, float64(len(g.distinct[j])))
			case ReduceMean:
				if g.counts[j] == 0 {
					row = append(row, float64(0))
				} else {
					row = append(row, g.sums[j]/float64(g.counts[j]))
				}
			case ReduceSum:
				row = append(row, g.sums[j])
			}
		}
		rows = append(rows, row)
	}

	result := domain.NewTable(columns, rows)
	if len(specs) > 0 {
		sortDescWithKeyTieBreak(result, specs[0].Name, key)
	}
	if topN > 0 && result.NumRows() > topN {
		result.Rows = result.Rows[:topN]
	}
	return result, nil
}

// PairwisePivot группирует строки по паре категориальных колонок, считает
// количество строк на пару и разворачивает результат в плотную матрицу.
// Метки — отсортированные уникальные значения текущей выборки,
// ненаблюдавшиеся пары заполняются нулями.
func PairwisePivot(t *domain.Table, rowCol, colCol string) (*domain.Matrix, error) {
	if err := t.RequireColumns(rowCol, colCol); err != nil {
		return nil, err
	}

	type pair struct{ row, col string }
	counts := make(map[pair]int64)
	for i := range t.Rows {
		r := t.StringAt(i, rowCol)
		c := t.StringAt(i, colCol)
		if r == "" || c == "" {
			continue
		}
		counts[pair{r, c}]++
	}

	rowLabels := t.DistinctStrings(rowCol)
	colLabels := t.DistinctStrings(colCol)

	cells := make([][]int64, len(rowLabels))
	for i, r := range rowLabels {
		cells[i] = make([]int64, len(colLabels))
		for j, c := range colLabels {
			cells[i][j] = counts[pair{r, c}]
		}
	}

	return &domain.Matrix{
		RowLabels: rowLabels,
		ColLabels: colLabels,
		Cells:     cells,
	}, nil
}

// TopNBy сортирует таблицу по убыванию числовой колонки и обрезает до n строк.
func TopNBy(t *domain.Table, col string, n int) (*domain.Table, error) {
	if err := t.RequireColumns(col); err != nil {
		return nil, err
	}

	rows := make([][]any, len(t.Rows))
	copy(rows, t.Rows)
	result := domain.NewTable(t.Columns, rows)
	sort.SliceStable(result.Rows, func(i, j int) bool {
		a, _ := result.Float64At(i, col)
		b, _ := result.Float64At(j, col)
		return a > b
	})
	if n > 0 && result.NumRows() > n {
		result.Rows = result.Rows[:n]
	}
	return result, nil
}

// SortRows возвращает копию таблицы, стабильно отсортированную по ключевым
// колонкам по возрастанию. Отсутствующие колонки пропускаются.
func SortRows(t *domain.Table, keys ...string) *domain.Table {
	rows := make([][]any, len(t.Rows))
	copy(rows, t.Rows)
	result := domain.NewTable(t.Columns, rows)

	present := make([]string, 0, len(keys))
	for _, k := range keys {
		if result.HasColumn(k) {
			present = append(present, k)
		}
	}

	sort.SliceStable(result.Rows, func(i, j int) bool {
		for _, k := range present {
			cmp := compareCells(result, i, j, k)
			if cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return result
}

func sortDescWithKeyTieBreak(t *domain.Table, measure, key string) {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, _ := t.Float64At(i, measure)
		b, _ := t.Float64At(j, measure)
		if a != b {
			return a > b
		}
		return t.StringAt(i, key) < t.StringAt(j, key)
	})
}

func compareCells(t *domain.Table, i, j int, col string) int {
	if ti, ok := t.TimeAt(i, col); ok {
		if tj, ok := t.TimeAt(j, col); ok {
			switch {
			case ti.Before(tj):
				return -1
			case ti.After(tj):
				return 1
			default:
				return 0
			}
		}
	}
	if fi, ok := t.Float64At(i, col); ok {
		if fj, ok := t.Float64At(j, col); ok {
			switch {
			case fi < fj:
				return -1
			case fi > fj:
				return 1
			default:
				return 0
			}
		}
	}
	si, sj := t.StringAt(i, col), t.StringAt(j, col)
	switch {
	case si < sj:
		return -1
	case si > sj:
		return 1
	default:
		return 0
	}
}
