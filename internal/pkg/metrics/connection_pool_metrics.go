package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ConnectionPoolCapacity число слотов пула
	ConnectionPoolCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connection_pool_capacity",
			Help: "Maximum number of concurrent requests allowed by the pool",
		},
		[]string{"pool"},
	)

	// ConnectionPoolActiveConnections занятые слоты
	ConnectionPoolActiveConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connection_pool_active_connections",
			Help: "Number of slots currently held",
		},
		[]string{"pool"},
	)

	// ConnectionPoolWaitingRequests количество запросов, ожидающих слот
	ConnectionPoolWaitingRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "connection_pool_waiting_requests",
			Help: "Number of requests waiting for a slot",
		},
		[]string{"pool"},
	)

	// ConnectionPoolGetDuration время ожидания слота
	ConnectionPoolGetDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "connection_pool_get_duration_seconds",
			Help:    "Time taken to acquire a slot from the pool",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"pool"},
	)

	// ConnectionPoolErrors ошибки получения слота
	ConnectionPoolErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "connection_pool_errors_total",
			Help: "Total number of failed slot acquisitions",
		},
		[]string{"pool", "type"},
	)
)
