package middleware

import (
	"strconv"
	"time"

	"certificate-service-go/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware middleware для сбора метрик HTTP запросов
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// шаблон маршрута, чтобы не плодить метки
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
