package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RetryAttemptsTotal попытки по операциям и исходам
	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Total number of retry attempts by outcome",
		},
		[]string{"operation", "attempt", "status"},
	)

	// RetryErrorsTotal ошибки попыток по классу ошибки
	RetryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_errors_total",
			Help: "Total number of failed attempts by error class",
		},
		[]string{"operation", "reason", "attempt"},
	)

	// RetryOperationDuration длительность отдельной попытки
	RetryOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retry_operation_duration_seconds",
			Help:    "Duration of a single attempt",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"operation", "attempt", "status"},
	)

	// RetryBackoffDuration паузы между попытками
	RetryBackoffDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retry_backoff_duration_seconds",
			Help:    "Backoff delay before the next attempt",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"operation", "attempt"},
	)

	// RetryCurrentAttempts операции, которые сейчас находятся в цикле повторов
	RetryCurrentAttempts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retry_current_operations",
			Help: "Number of operations currently inside the retry loop",
		},
		[]string{"operation"},
	)

	// RetryAttemptsDistribution сколько попыток понадобилось операции
	RetryAttemptsDistribution = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retry_attempts_distribution",
			Help:    "Distribution of retry attempts count",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
		[]string{"operation"},
	)
)
