package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal количество HTTP запросов
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_service_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration длительность HTTP запросов
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certificate_service_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// CertificateRenderTotal количество отрисованных сертификатов
	CertificateRenderTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_service_render_total",
			Help: "Total number of certificate renders",
		},
		[]string{"format", "status"},
	)

	// CertificateRenderDuration длительность отрисовки
	CertificateRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certificate_service_render_duration_seconds",
			Help:    "Duration of certificate rendering in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"format", "theme"},
	)

	// CertificateFileSizeBytes размер готовых файлов
	CertificateFileSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certificate_service_file_size_bytes",
			Help:    "Size of rendered certificate files in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024},
		},
		[]string{"format"},
	)

	// TemplateDecodeTotal результаты разбора файлов шаблонов
	TemplateDecodeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_service_template_decode_total",
			Help: "Total number of decoded certificate templates by result",
		},
		[]string{"result"},
	)

	// PlaceholderMissesTotal плейсхолдеры, для которых не нашлось значения
	PlaceholderMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "certificate_service_placeholder_misses_total",
			Help: "Total number of placeholders left unresolved during substitution",
		},
	)

	// GotenbergRequestsTotal количество запросов к Gotenberg
	GotenbergRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_service_gotenberg_requests_total",
			Help: "Total number of requests to Gotenberg service",
		},
		[]string{"operation", "status"},
	)

	// GotenbergRequestDuration длительность запросов к Gotenberg
	GotenbergRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "certificate_service_gotenberg_request_duration_seconds",
			Help:    "Duration of Gotenberg requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
