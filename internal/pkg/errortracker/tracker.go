package errortracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"certificate-service-go/internal/pkg/circuitbreaker"
	"certificate-service-go/internal/pkg/connpool"
	"certificate-service-go/internal/pkg/gotenberg"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/tracing"

	"go.opentelemetry.io/otel/trace"
)

// DefaultCapacity сколько последних ошибок хранит трекер
const DefaultCapacity = 50

// ErrorDetails ошибка с контекстом запроса
type ErrorDetails struct {
	Timestamp  time.Time `json:"timestamp"`
	Message    string    `json:"message"`
	ErrorType  string    `json:"error_type"`
	Component  string    `json:"component"`
	HTTPStatus int       `json:"http_status,omitempty"`
	HTTPPath   string    `json:"http_path,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	TraceID    string    `json:"trace_id,omitempty"`
	SpanID     string    `json:"span_id,omitempty"`
}

// ErrorTracker хранит последние ошибки в кольцевом буфере
type ErrorTracker struct {
	mu    sync.Mutex
	items []ErrorDetails
	next  int
	full  bool
	total uint64
}

// NewErrorTracker создает трекер на capacity записей
func NewErrorTracker(capacity int) *ErrorTracker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ErrorTracker{items: make([]ErrorDetails, capacity)}
}

// TrackError записывает ошибку с контекстом запроса и отмечает ее в трассировке
func (et *ErrorTracker) TrackError(ctx context.Context, err error, opts ...ErrorOption) {
	if err == nil {
		return
	}

	details := ErrorDetails{
		Timestamp: time.Now(),
		Message:   err.Error(),
		RequestID: logger.RequestID(ctx),
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		details.TraceID = sc.TraceID().String()
		details.SpanID = sc.SpanID().String()
	}
	for _, opt := range opts {
		opt(&details)
	}
	if details.ErrorType == "" || details.Component == "" {
		errorType, component := Classify(err)
		if details.ErrorType == "" {
			details.ErrorType = errorType
		}
		if details.Component == "" {
			details.Component = component
		}
	}

	et.mu.Lock()
	et.items[et.next] = details
	et.next = (et.next + 1) % len(et.items)
	if et.next == 0 {
		et.full = true
	}
	et.total++
	et.mu.Unlock()

	tracing.RecordError(ctx, err)
}

// Recent возвращает до n последних ошибок, новые первыми
func (et *ErrorTracker) Recent(n int) []ErrorDetails {
	et.mu.Lock()
	defer et.mu.Unlock()

	size := et.next
	if et.full {
		size = len(et.items)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]ErrorDetails, 0, n)
	for i := 1; i <= n; i++ {
		idx := (et.next - i + len(et.items)) % len(et.items)
		out = append(out, et.items[idx])
	}
	return out
}

// Total число ошибок за время жизни процесса
func (et *ErrorTracker) Total() uint64 {
	et.mu.Lock()
	defer et.mu.Unlock()
	return et.total
}

// Classify определяет тип ошибки и компонент, в котором она возникла
func Classify(err error) (errorType, component string) {
	var statusErr *gotenberg.StatusError
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return "circuit_open", "gotenberg"
	case errors.Is(err, connpool.ErrPoolExhausted):
		return "pool_exhausted", "gotenberg"
	case errors.As(err, &statusErr):
		return "upstream", "gotenberg"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout", "render"
	case errors.Is(err, context.Canceled):
		return "canceled", "render"
	default:
		return "internal", "render"
	}
}

// ErrorOption функция для настройки деталей ошибки
type ErrorOption func(*ErrorDetails)

// WithComponent устанавливает компонент
func WithComponent(component string) ErrorOption {
	return func(e *ErrorDetails) {
		e.Component = component
	}
}

// WithErrorType устанавливает тип ошибки
func WithErrorType(errorType string) ErrorOption {
	return func(e *ErrorDetails) {
		e.ErrorType = errorType
	}
}

// WithHTTPStatus устанавливает HTTP статус
func WithHTTPStatus(status int) ErrorOption {
	return func(e *ErrorDetails) {
		e.HTTPStatus = status
	}
}

// WithHTTPPath устанавливает маршрут запроса
func WithHTTPPath(path string) ErrorOption {
	return func(e *ErrorDetails) {
		e.HTTPPath = path
	}
}

// WithDuration устанавливает длительность операции
func WithDuration(duration time.Duration) ErrorOption {
	return func(e *ErrorDetails) {
		e.Duration = duration.String()
	}
}

// DefaultTracker трекер процесса
var DefaultTracker = NewErrorTracker(DefaultCapacity)

// TrackError записывает ошибку в DefaultTracker
func TrackError(ctx context.Context, err error, opts ...ErrorOption) {
	DefaultTracker.TrackError(ctx, err, opts...)
}
