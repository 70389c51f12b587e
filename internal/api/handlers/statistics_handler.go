package handlers

import (
	"context"
	"net/http"
	"time"

	"certificate-service-go/internal/pkg/errortracker"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/statistics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatisticsSource источник статистики
type StatisticsSource interface {
	GetStatistics() statistics.StatisticsResponse
	Summary(ctx context.Context, since time.Time) (*statistics.Summary, error)
}

// StatisticsHandler обработчик для статистики
type StatisticsHandler struct {
	stats  StatisticsSource
	errors *errortracker.ErrorTracker
	now    func() time.Time
}

// NewStatisticsHandler создает новый обработчик статистики
func NewStatisticsHandler(stats StatisticsSource) *StatisticsHandler {
	return &StatisticsHandler{stats: stats, errors: errortracker.DefaultTracker, now: time.Now}
}

// recentErrorsLimit сколько последних ошибок отдавать
const recentErrorsLimit = 20

// StatisticsResponse статистика процесса и последние серверные ошибки
type StatisticsResponse struct {
	statistics.StatisticsResponse
	TotalErrors  uint64                      `json:"total_errors"`
	RecentErrors []errortracker.ErrorDetails `json:"recent_errors"`
}

var periods = map[string]time.Duration{
	"1h":  time.Hour,
	"6h":  6 * time.Hour,
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// GetStatistics возвращает статистику процесса и, если есть хранилище,
// агрегаты за период (параметр period, по умолчанию 24h)
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	resp := h.stats.GetStatistics()

	period, ok := periods[c.DefaultQuery("period", "24h")]
	if !ok {
		period = periods["24h"]
	}
	summary, err := h.stats.Summary(c.Request.Context(), h.now().Add(-period))
	if err != nil {
		// статистика процесса полезна и без хранилища
		logger.FromContext(c.Request.Context()).Warn("failed to load stored statistics", zap.Error(err))
	}
	resp.Stored = summary

	c.JSON(http.StatusOK, StatisticsResponse{
		StatisticsResponse: resp,
		TotalErrors:        h.errors.Total(),
		RecentErrors:       h.errors.Recent(recentErrorsLimit),
	})
}
