package usecase

import (
	"context"
	"math"
	"math/rand"
	"sort"

	"eng-analytics-service/internal/analytics"
	"eng-analytics-service/internal/domain"
)

const (
	// Минимум полных строк для обучения демо-модели.
	minTrainingRows = 200
	// Доля hold-out выборки.
	testFraction = 0.2
	// Фиксированный seed делает разбиение воспроизводимым между запусками.
	splitSeed = 42
)

// Фичи модели в порядке подачи в estimator.
var predictionFeatures = []string{
	domain.ColLinesAdded,
	domain.ColLinesDeleted,
	domain.ColFilesChanged,
}

// PredictionUseCase реализует демонстрационную модель cycle time.
// Модель изолирована за capability-интерфейсом domain.Estimator и не влияет
// на пайплайн запрос/фильтр/агрегация.
type PredictionUseCase struct {
	warehouseRepo domain.WarehouseRepository
	newEstimator  func() domain.Estimator
}

// NewPredictionUseCase создает новый экземпляр PredictionUseCase.
func NewPredictionUseCase(warehouseRepo domain.WarehouseRepository, newEstimator func() domain.Estimator) domain.PredictionUseCase {
	return &PredictionUseCase{
		warehouseRepo: warehouseRepo,
		newEstimator:  newEstimator,
	}
}

// TrainModel обучает модель на полных строках fact-таблицы и возвращает
// качество на hold-out выборке, важности фич и медианы для what-if формы.
func (uc *PredictionUseCase) TrainModel(ctx context.Context, f domain.Filter) (*domain.ModelReport, error) {
	_, report, err := uc.train(ctx, f)
	return report, err
}

// PredictCycleTime обучает модель и предсказывает cycle time для заданных фич.
func (uc *PredictionUseCase) PredictCycleTime(ctx context.Context, f domain.Filter, in domain.PredictionInput) (*domain.PredictionResult, error) {
	if in.LinesAdded < 0 || in.LinesDeleted < 0 || in.FilesChanged < 0 {
		return nil, domain.ErrInvalidPredictionInput
	}

	est, report, err := uc.train(ctx, f)
	if err != nil {
		return nil, err
	}

	predicted, err := est.Predict([]float64{in.LinesAdded, in.LinesDeleted, in.FilesChanged})
	if err != nil {
		return nil, err
	}

	return &domain.PredictionResult{
		PredictedHours: predicted,
		Model:          report,
	}, nil
}

func (uc *PredictionUseCase) train(ctx context.Context, f domain.Filter) (domain.Estimator, *domain.ModelReport, error) {
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}

	facts, err := uc.warehouseRepo.GetPRFacts(ctx)
	if err != nil {
		return nil, nil, err
	}
	facts = analytics.ApplyFilters(facts, domain.ColRepo, domain.ColCreatedAt, f)

	required := append([]string{domain.ColPRCycleTimeHours}, predictionFeatures...)
	if err := facts.RequireColumns(required...); err != nil {
		return nil, nil, err
	}

	features, targets := completeRows(facts)
	if len(features) < minTrainingRows {
		return nil, nil, domain.ErrNotEnoughData
	}

	trainX, trainY, testX, testY := split(features, targets)

	est := uc.newEstimator()
	if err := est.Fit(trainX, trainY); err != nil {
		return nil, nil, err
	}

	var absErrSum float64
	for i := range testX {
		predicted, err := est.Predict(testX[i])
		if err != nil {
			return nil, nil, err
		}
		absErrSum += math.Abs(predicted - testY[i])
	}
	mae := absErrSum / float64(len(testX))

	report := &domain.ModelReport{
		RowsUsed: len(features),
		MAEHours: mae,
		Features: featureImportances(est),
		Medians: domain.PredictionInput{
			LinesAdded:   featureMedian(features, 0),
			LinesDeleted: featureMedian(features, 1),
			FilesChanged: featureMedian(features, 2),
		},
	}
	return est, report, nil
}

// completeRows собирает строки, где присутствуют и фичи, и целевая величина.
func completeRows(t *domain.Table) ([][]float64, []float64) {
	var features [][]float64
	var targets []float64
	for i := 0; i < t.NumRows(); i++ {
		target, ok := t.Float64At(i, domain.ColPRCycleTimeHours)
		if !ok {
			continue
		}
		row := make([]float64, len(predictionFeatures))
		complete := true
		for j, col := range predictionFeatures {
			v, ok := t.Float64At(i, col)
			if !ok {
				complete = false
				break
			}
			row[j] = v
		}
		if !complete {
			continue
		}
		features = append(features, row)
		targets = append(targets, target)
	}
	return features, targets
}

// split делит выборку на train/test детерминированной перетасовкой 80/20.
func split(features [][]float64, targets []float64) (trainX [][]float64, trainY []float64, testX [][]float64, testY []float64) {
	rng := rand.New(rand.NewSource(splitSeed))
	perm := rng.Perm(len(features))

	testSize := int(float64(len(features)) * testFraction)
	if testSize == 0 {
		testSize = 1
	}

	for i, idx := range perm {
		if i < testSize {
			testX = append(testX, features[idx])
			testY = append(testY, targets[idx])
		} else {
			trainX = append(trainX, features[idx])
			trainY = append(trainY, targets[idx])
		}
	}
	return trainX, trainY, testX, testY
}

func featureImportances(est domain.Estimator) []domain.FeatureImportance {
	importances := est.FeatureImportances()
	result := make([]domain.FeatureImportance, 0, len(importances))
	for i, imp := range importances {
		if i >= len(predictionFeatures) {
			break
		}
		result = append(result, domain.FeatureImportance{
			Feature:    predictionFeatures[i],
			Importance: imp,
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Importance > result[j].Importance
	})
	return result
}

func featureMedian(features [][]float64, idx int) float64 {
	if len(features) == 0 {
		return 0
	}
	values := make([]float64, len(features))
	for i, row := range features {
		values[i] = row[idx]
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}
