package retry

import (
	"context"
	"strconv"
	"time"

	"certificate-service-go/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Operation представляет операцию, которую нужно повторить
type Operation func(ctx context.Context) error

// Retrier выполняет повторные попытки операции с экспоненциальной паузой
type Retrier struct {
	config    *Config
	logger    *zap.Logger
	operation string
}

// New создает новый экземпляр Retrier
func New(operation string, logger *zap.Logger, opts ...Option) *Retrier {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Retrier{
		config:    config,
		logger:    logger,
		operation: operation,
	}
}

// Do выполняет операцию, пока она не завершится успешно, не вернет
// неповторяемую ошибку или не кончатся попытки
func (r *Retrier) Do(ctx context.Context, op Operation) error {
	start := time.Now()
	attempts := 0

	metrics.RetryCurrentAttempts.WithLabelValues(r.operation).Inc()
	defer func() {
		metrics.RetryCurrentAttempts.WithLabelValues(r.operation).Dec()
		metrics.RetryAttemptsDistribution.WithLabelValues(r.operation).Observe(float64(attempts))
	}()

	var lastErr error
	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		attempts = attempt
		label := strconv.Itoa(attempt)

		attemptStart := time.Now()
		err := op(ctx)
		r.observe(label, err, ctx, time.Since(attemptStart))

		if err == nil {
			if attempt > 1 {
				r.logger.Info("operation succeeded after retry",
					zap.String("operation", r.operation),
					zap.Int("attempt", attempt),
					zap.Duration("total_duration", time.Since(start)),
				)
			}
			return nil
		}

		lastErr = err
		reason := classifyError(err, ctx)
		metrics.RetryErrorsTotal.WithLabelValues(r.operation, reason, label).Inc()
		r.logger.Warn("retry attempt failed",
			zap.String("operation", r.operation),
			zap.Int("attempt", attempt),
			zap.String("reason", reason),
			zap.Error(err),
		)

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsRetryable(err, r.config) {
			metrics.RetryAttemptsTotal.WithLabelValues(r.operation, label, "non_retryable").Inc()
			return &RetryError{Attempt: attempt, OriginalError: err}
		}
		if attempt == r.config.MaxAttempts {
			break
		}

		delay := r.calculateDelay(attempt)
		metrics.RetryBackoffDuration.WithLabelValues(r.operation, label).Observe(delay.Seconds())

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		return ErrMaxAttemptsReached
	}
	metrics.RetryAttemptsTotal.WithLabelValues(r.operation, strconv.Itoa(r.config.MaxAttempts), "max_attempts").Inc()
	return &RetryError{Attempt: r.config.MaxAttempts, OriginalError: lastErr}
}

func (r *Retrier) observe(attempt string, err error, ctx context.Context, d time.Duration) {
	status := "success"
	switch {
	case err == nil:
	case ctx.Err() != nil:
		status = "cancelled"
	default:
		status = "failed"
	}
	metrics.RetryAttemptsTotal.WithLabelValues(r.operation, attempt, status).Inc()
	metrics.RetryOperationDuration.WithLabelValues(r.operation, attempt, status).Observe(d.Seconds())
}

// calculateDelay вычисляет задержку для следующей попытки
func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= r.config.BackoffFactor
	}

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	return time.Duration(delay)
}

// classifyError класс ошибки для метрик
func classifyError(err error, ctx context.Context) string {
	switch {
	case err == nil:
		return "none"
	case ctx.Err() != nil:
		return "context_cancelled"
	case IsTimeout(err):
		return "timeout"
	case IsValidationError(err):
		return "validation"
	case IsConnectionError(err):
		return "connection"
	default:
		return "unknown"
	}
}
