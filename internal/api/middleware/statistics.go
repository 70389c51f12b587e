package middleware

import (
	"strings"
	"time"

	"certificate-service-go/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestTracker учет запросов в статистике
type RequestTracker interface {
	TrackRequest(path, method string, duration time.Duration, success bool)
}

// StatisticsMiddleware middleware для сбора статистики.
// Учитываются только запросы к /api/v1/certificates.
func StatisticsMiddleware(stats RequestTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if stats == nil || !strings.HasPrefix(path, "/api/v1/certificates/") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		success := status >= 200 && status < 400

		logger.FromContext(c.Request.Context()).Debug("Request statistics",
			zap.String("path", path),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Bool("success", success),
			zap.Duration("duration", duration),
		)
		stats.TrackRequest(path, c.Request.Method, duration, success)
	}
}
