package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик кэша
type Metrics struct {
	Hits      prometheus.Counter
	Misses    prometheus.Counter
	Items     prometheus.Gauge
	SizeBytes prometheus.Gauge
}

var defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// NewMetrics регистрирует метрики кэша в переданном реестре
func NewMetrics(reg prometheus.Registerer) Metrics {
	f := promauto.With(reg)
	return Metrics{
		Hits: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_cache_hits_total",
			Help: "Number of render cache hits",
		}),
		Misses: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_cache_misses_total",
			Help: "Number of render cache misses",
		}),
		Items: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_cache_items",
			Help: "Number of items in render cache",
		}),
		SizeBytes: f.NewGauge(prometheus.GaugeOpts{
			Name: "certificate_cache_size_bytes",
			Help: "Total size of cached artifacts in bytes",
		}),
	}
}
