package predictor

import (
	"fmt"
	"math"

	"eng-analytics-service/internal/domain"
)

// LinearRegressor — least-squares регрессия с intercept'ом, решается через
// нормальные уравнения. Стоковый estimator для демо-модели cycle time,
// никакой кастомной логики обучения.
type LinearRegressor struct {
	coefficients []float64
	intercept    float64
	importances  []float64
	fitted       bool
}

// NewLinearRegressor создает новый экземпляр LinearRegressor.
func NewLinearRegressor() domain.Estimator {
	return &LinearRegressor{}
}

// Fit обучает модель на матрице фич и векторе целевых значений.
func (r *LinearRegressor) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 || len(features) != len(targets) {
		return fmt.Errorf("invalid training set: %d feature rows, %d targets", len(features), len(targets))
	}

	numFeatures := len(features[0])
	dim := numFeatures + 1 // + intercept

	// X^T * X и X^T * y, первая компонента — intercept
	xtx := make([][]float64, dim)
	for i := range xtx {
		xtx[i] = make([]float64, dim)
	}
	xty := make([]float64, dim)

	for row := range features {
		if len(features[row]) != numFeatures {
			return fmt.Errorf("inconsistent feature row length at %d", row)
		}
		augmented := append([]float64{1}, features[row]...)
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				xtx[i][j] += augmented[i] * augmented[j]
			}
			xty[i] += augmented[i] * targets[row]
		}
	}

	solution, err := solve(xtx, xty)
	if err != nil {
		return err
	}

	r.intercept = solution[0]
	r.coefficients = solution[1:]
	r.importances = computeImportances(features, r.coefficients)
	r.fitted = true
	return nil
}

// Predict возвращает предсказание для одного вектора фич.
func (r *LinearRegressor) Predict(features []float64) (float64, error) {
	if !r.fitted {
		return 0, domain.ErrEstimatorNotFitted
	}
	if len(features) != len(r.coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(r.coefficients), len(features))
	}

	result := r.intercept
	for i, v := range features {
		result += r.coefficients[i] * v
	}
	return result, nil
}

// FeatureImportances возвращает нормированные вклады фич
// (|коэффициент| * стандартное отклонение фичи, сумма равна 1).
func (r *LinearRegressor) FeatureImportances() []float64 {
	return r.importances
}

// solve решает систему линейных уравнений методом Гаусса с выбором
// ведущего элемента.
func solve(matrix [][]float64, rhs []float64) ([]float64, error) {
	n := len(rhs)
	a := make([][]float64, n)
	for i := range a {
		a[i] = append(append([]float64{}, matrix[i]...), rhs[i])
	}

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular feature matrix, cannot fit")
		}
		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k <= n; k++ {
				a[row][k] -= factor * a[col][k]
			}
		}
	}

	solution := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := a[row][n]
		for col := row + 1; col < n; col++ {
			sum -= a[row][col] * solution[col]
		}
		solution[row] = sum / a[row][row]
	}
	return solution, nil
}

func computeImportances(features [][]float64, coefficients []float64) []float64 {
	n := float64(len(features))
	importances := make([]float64, len(coefficients))
	var total float64

	for j := range coefficients {
		var sum, sumSq float64
		for i := range features {
			sum += features[i][j]
			sumSq += features[i][j] * features[i][j]
		}
		mean := sum / n
		variance := sumSq/n - mean*mean
		if variance < 0 {
			variance = 0
		}
		importances[j] = math.Abs(coefficients[j]) * math.Sqrt(variance)
		total += importances[j]
	}

	if total > 0 {
		for j := range importances {
			importances[j] /= total
		}
	}
	return importances
}
