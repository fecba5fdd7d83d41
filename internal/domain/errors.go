package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors (для бизнес-логики)
var (
	// Selection errors
	ErrReviewerNotFound = errors.New("reviewer not found in current selection")
	ErrRepoNotFound     = errors.New("repo not found in current selection")

	// Prediction errors
	ErrNotEnoughData          = errors.New("not enough complete rows to train a reliable model")
	ErrInvalidPredictionInput = errors.New("prediction features must be non-negative")
	ErrEstimatorNotFitted     = errors.New("estimator is not fitted")

	// Validation errors
	ErrInvalidDateRange = errors.New("start date must not be after end date")
)

// SchemaError — нарушение контракта витрины: в выборке нет обязательных
// колонок. Фатально, репортится до начала агрегации.
type SchemaError struct {
	Relation string
	Missing  []string
}

func (e *SchemaError) Error() string {
	if e.Relation != "" {
		return fmt.Sprintf("relation %s: missing required columns: %s",
			e.Relation, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// HTTPError для соответствия API
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrReviewerNotFound:       {Code: "NOT_FOUND", Message: "reviewer not found in current selection"},
	ErrRepoNotFound:           {Code: "NOT_FOUND", Message: "repo not found in current selection"},
	ErrNotEnoughData:          {Code: "NOT_ENOUGH_DATA", Message: "not enough rows with complete data to train a reliable model (need ~200+)"},
	ErrInvalidPredictionInput: {Code: "INVALID_INPUT", Message: "prediction features must be non-negative"},
	ErrInvalidDateRange:       {Code: "INVALID_DATE_RANGE", Message: "start date must not be after end date"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку
func ToHTTPError(err error) (HTTPError, bool) {
	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return HTTPError{Code: "SCHEMA_MISMATCH", Message: schemaErr.Error()}, true
	}
	httpErr, exists := ErrorMapping[err]
	return httpErr, exists
}
