package gotenberg

import (
	"fmt"
	"net/http"
)

// StatusError ответ Gotenberg с кодом, отличным от 200
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("gotenberg %s failed with status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("gotenberg %s failed with status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Retryable 5xx и 429 стоит повторить
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Validation остальные 4xx означают, что запрос собран неверно
func (e *StatusError) Validation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && e.StatusCode != http.StatusTooManyRequests
}
