package retry

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxAttemptsReached возникает когда исчерпаны все попытки
	ErrMaxAttemptsReached = errors.New("max retry attempts reached")
)

// RetryError содержит информацию об ошибке retry
type RetryError struct {
	// Attempt номер попытки, на которой произошла ошибка
	Attempt int
	// OriginalError исходная ошибка
	OriginalError error
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("retry attempt %d failed: %v", e.Attempt, e.OriginalError)
}

// Unwrap возвращает оригинальную ошибку
func (e *RetryError) Unwrap() error {
	return e.OriginalError
}

// IsRetryable проверяет, нужно ли повторять операцию для данной ошибки
func IsRetryable(err error, cfg *Config) bool {
	if err == nil {
		return false
	}

	// Ошибки валидации не лечатся повтором
	if IsValidationError(err) {
		return false
	}

	if cfg.Classifier != nil {
		return cfg.Classifier(err)
	}

	// Если список ошибок для retry пуст, считаем все ошибки retryable
	if len(cfg.RetryableErrors) == 0 {
		return true
	}

	for _, retryableErr := range cfg.RetryableErrors {
		if errors.Is(err, retryableErr) {
			return true
		}
	}

	return false
}
