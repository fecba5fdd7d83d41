package unit_test

import (
	"testing"

	"eng-analytics-service/internal/analytics"
	"eng-analytics-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairwisePivot_DenseZeroFilledMatrix(t *testing.T) {
	table := domain.NewTable(
		[]string{"REVIEWER", "PR_AUTHOR"},
		[][]any{
			{"A", "X"},
			{"A", "X"},
			{"B", "Y"},
		},
	)

	matrix, err := analytics.PairwisePivot(table, "REVIEWER", "PR_AUTHOR")
	require.NoError(t, err)

	// |distinct rows| × |distinct cols| ячеек, ненаблюдавшиеся пары — нули
	assert.Equal(t, []string{"A", "B"}, matrix.RowLabels)
	assert.Equal(t, []string{"X", "Y"}, matrix.ColLabels)
	assert.Equal(t, int64(2), matrix.Value("A", "X"))
	assert.Equal(t, int64(0), matrix.Value("A", "Y"))
	assert.Equal(t, int64(0), matrix.Value("B", "X"))
	assert.Equal(t, int64(1), matrix.Value("B", "Y"))
}

func TestPairwisePivot_MissingColumn_FailsBeforeReduction(t *testing.T) {
	table := domain.NewTable([]string{"REVIEWER"}, [][]any{{"A"}})

	_, err := analytics.PairwisePivot(table, "REVIEWER", "PR_AUTHOR")

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"PR_AUTHOR"}, schemaErr.Missing)
}

func TestPairwisePivot_EmptyTableWithoutColumns_Fatal(t *testing.T) {
	empty := domain.NewTable(nil, nil)

	_, err := analytics.PairwisePivot(empty, "REVIEWER", "PR_AUTHOR")

	// Отсутствие обязательных колонок фатально даже на пустой таблице
	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"REVIEWER", "PR_AUTHOR"}, schemaErr.Missing)
}

func TestLeaderboardReduce_MeanSortedDesc(t *testing.T) {
	table := domain.NewTable(
		[]string{"K", "V"},
		[][]any{
			{"a", float64(3)},
			{"a", float64(5)},
			{"b", float64(10)},
		},
	)

	result, err := analytics.LeaderboardReduce(table, "K", []analytics.ReduceSpec{
		{Name: "MEAN_V", Column: "V", Op: analytics.ReduceMean},
	}, 0)
	require.NoError(t, err)

	require.Equal(t, 2, result.NumRows())
	assert.Equal(t, "b", result.StringAt(0, "K"))
	mean, _ := result.Float64At(0, "MEAN_V")
	assert.Equal(t, 10.0, mean)

	assert.Equal(t, "a", result.StringAt(1, "K"))
	mean, _ = result.Float64At(1, "MEAN_V")
	assert.Equal(t, 4.0, mean)
}

func TestLeaderboardReduce_CountDistinct(t *testing.T) {
	table := domain.NewTable(
		[]string{"AUTHOR", "PR_ID"},
		[][]any{
			{"alice", "pr-1"},
			{"alice", "pr-1"},
			{"alice", "pr-2"},
			{"bob", "pr-3"},
		},
	)

	result, err := analytics.LeaderboardReduce(table, "AUTHOR", []analytics.ReduceSpec{
		{Name: "PR_COUNT", Column: "PR_ID", Op: analytics.ReduceCountDistinct},
	}, 0)
	require.NoError(t, err)

	count, _ := result.Float64At(0, "PR_COUNT")
	assert.Equal(t, "alice", result.StringAt(0, "AUTHOR"))
	assert.Equal(t, 2.0, count)
	count, _ = result.Float64At(1, "PR_COUNT")
	assert.Equal(t, 1.0, count)
}

func TestLeaderboardReduce_TieBreakByKey_Deterministic(t *testing.T) {
	table := domain.NewTable(
		[]string{"K", "V"},
		[][]any{
			{"zeta", float64(5)},
			{"alpha", float64(5)},
			{"mid", float64(7)},
		},
	)

	result, err := analytics.LeaderboardReduce(table, "K", []analytics.ReduceSpec{
		{Name: "SUM_V", Column: "V", Op: analytics.ReduceSum},
	}, 0)
	require.NoError(t, err)

	// При равной первичной мере — по возрастанию ключа
	assert.Equal(t, "mid", result.StringAt(0, "K"))
	assert.Equal(t, "alpha", result.StringAt(1, "K"))
	assert.Equal(t, "zeta", result.StringAt(2, "K"))
}

func TestLeaderboardReduce_TopNTruncation(t *testing.T) {
	table := domain.NewTable(
		[]string{"K", "V"},
		[][]any{
			{"a", float64(1)},
			{"b", float64(2)},
			{"c", float64(3)},
		},
	)

	result, err := analytics.LeaderboardReduce(table, "K", []analytics.ReduceSpec{
		{Name: "SUM_V", Column: "V", Op: analytics.ReduceSum},
	}, 2)
	require.NoError(t, err)

	require.Equal(t, 2, result.NumRows())
	assert.Equal(t, "c", result.StringAt(0, "K"))
	assert.Equal(t, "b", result.StringAt(1, "K"))
}

func TestLeaderboardReduce_MissingMeasureColumn_Fatal(t *testing.T) {
	table := domain.NewTable([]string{"K"}, [][]any{{"a"}})

	_, err := analytics.LeaderboardReduce(table, "K", []analytics.ReduceSpec{
		{Name: "MEAN_V", Column: "V", Op: analytics.ReduceMean},
	}, 0)

	var schemaErr *domain.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"V"}, schemaErr.Missing)
}

func TestLeaderboardReduce_MeanSkipsNulls(t *testing.T) {
	table := domain.NewTable(
		[]string{"K", "V"},
		[][]any{
			{"a", float64(4)},
			{"a", nil},
			{"a", float64(8)},
		},
	)

	result, err := analytics.LeaderboardReduce(table, "K", []analytics.ReduceSpec{
		{Name: "MEAN_V", Column: "V", Op: analytics.ReduceMean},
	}, 0)
	require.NoError(t, err)

	mean, _ := result.Float64At(0, "MEAN_V")
	assert.Equal(t, 6.0, mean)
}

func TestTopNBy_SortsDescAndTruncates(t *testing.T) {
	table := domain.NewTable(
		[]string{"REVIEWER", "TOTAL_PRS_REVIEWED"},
		[][]any{
			{"alice", int64(5)},
			{"bob", int64(12)},
			{"carol", int64(7)},
		},
	)

	result, err := analytics.TopNBy(table, "TOTAL_PRS_REVIEWED", 2)
	require.NoError(t, err)

	require.Equal(t, 2, result.NumRows())
	assert.Equal(t, "bob", result.StringAt(0, "REVIEWER"))
	assert.Equal(t, "carol", result.StringAt(1, "REVIEWER"))
	// Исходная таблица не переупорядочена
	assert.Equal(t, "alice", table.StringAt(0, "REVIEWER"))
}
