package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"certificate-service-go/internal/pkg/logger"

	"go.uber.org/zap"
)

const storeTimeout = 2 * time.Second

// Statistics потокобезопасные счетчики процесса.
// Если задано хранилище, каждое событие дополнительно пишется в него.
type Statistics struct {
	mu        sync.RWMutex
	requests  RequestStats
	renders   RenderStats
	gotenberg GotenbergStats

	store Store
	now   func() time.Time
}

// New создает статистику. store может быть nil.
func New(store Store) *Statistics {
	return &Statistics{
		requests: RequestStats{RequestsByHour: make(map[int]uint64)},
		renders: RenderStats{
			ByFormat: make(map[string]uint64),
			ByTheme:  make(map[string]uint64),
		},
		store: store,
		now:   time.Now,
	}
}

// TrackRequest регистрирует HTTP-запрос
func (s *Statistics) TrackRequest(path, method string, duration time.Duration, success bool) {
	now := s.now()

	s.mu.Lock()
	if success {
		s.requests.Success++
	} else {
		s.requests.Failed++
	}
	s.requests.Durations.add(duration)
	s.requests.RequestsByHour[now.Hour()]++
	s.requests.LastUpdated = now
	s.mu.Unlock()

	s.persist("request", func(ctx context.Context) error {
		return s.store.LogRequest(ctx, RequestEvent{Timestamp: now, Path: path, Method: method, Duration: duration, Success: success})
	})
}

// TrackRender регистрирует отрисовку сертификата
func (s *Statistics) TrackRender(format, theme string, duration time.Duration, size int64, hasError bool) {
	now := s.now()

	s.mu.Lock()
	s.renders.Durations.add(duration)
	s.renders.ByFormat[format]++
	if theme != "" {
		s.renders.ByTheme[theme]++
	}
	if hasError {
		s.renders.Failed++
	} else {
		s.renders.TotalSize += size
		if s.renders.MinSize == 0 || size < s.renders.MinSize {
			s.renders.MinSize = size
		}
		if size > s.renders.MaxSize {
			s.renders.MaxSize = size
		}
	}
	s.renders.LastTime = now
	s.mu.Unlock()

	s.persist("render", func(ctx context.Context) error {
		return s.store.LogRender(ctx, RenderEvent{Timestamp: now, Format: format, Theme: theme, Duration: duration, Size: size, HasError: hasError})
	})
}

// TrackGotenbergRequest регистрирует запрос к Gotenberg. Проверки здоровья не учитываются.
func (s *Statistics) TrackGotenbergRequest(duration time.Duration, hasError bool, isHealthCheck bool) {
	if isHealthCheck {
		return
	}
	now := s.now()

	s.mu.Lock()
	s.gotenberg.Durations.add(duration)
	if hasError {
		s.gotenberg.Failed++
	}
	s.gotenberg.LastTime = now
	s.mu.Unlock()

	s.persist("gotenberg", func(ctx context.Context) error {
		return s.store.LogGotenberg(ctx, GotenbergEvent{Timestamp: now, Duration: duration, HasError: hasError})
	})
}

// persist пишет событие в хранилище. Ошибка хранилища только логируется.
func (s *Statistics) persist(kind string, write func(ctx context.Context) error) {
	if s.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := write(ctx); err != nil {
		logger.Log.Warn("failed to store statistics event", zap.String("kind", kind), zap.Error(err))
	}
}

// Summary агрегаты из хранилища. Без хранилища возвращает nil.
func (s *Statistics) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Summary(ctx, since)
}

// GetStatistics возвращает текущую статистику в формате для API
func (s *Statistics) GetStatistics() StatisticsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resp StatisticsResponse

	resp.Requests.Total = s.requests.Durations.Count
	resp.Requests.Success = s.requests.Success
	resp.Requests.Failed = s.requests.Failed
	resp.Requests.AverageDuration = s.requests.Durations.average().String()
	resp.Requests.MinDuration = s.requests.Durations.Min.String()
	resp.Requests.MaxDuration = s.requests.Durations.Max.String()
	resp.Requests.ByHourOfDay = make(map[string]uint64, len(s.requests.RequestsByHour))
	for hour, count := range s.requests.RequestsByHour {
		resp.Requests.ByHourOfDay[fmt.Sprintf("%02d:00", hour)] = count
	}

	resp.Renders.Total = s.renders.Durations.Count
	resp.Renders.Failed = s.renders.Failed
	resp.Renders.ByFormat = copyCounts(s.renders.ByFormat)
	resp.Renders.ByTheme = copyCounts(s.renders.ByTheme)
	resp.Renders.AverageDuration = s.renders.Durations.average().String()
	resp.Renders.MaxDuration = s.renders.Durations.Max.String()
	resp.Renders.TotalSize = formatBytes(s.renders.TotalSize)
	resp.Renders.MinSize = formatBytes(s.renders.MinSize)
	resp.Renders.MaxSize = formatBytes(s.renders.MaxSize)

	resp.Gotenberg.TotalRequests = s.gotenberg.Durations.Count
	resp.Gotenberg.ErrorRequests = s.gotenberg.Failed
	resp.Gotenberg.AverageDuration = s.gotenberg.Durations.average().String()
	resp.Gotenberg.MaxDuration = s.gotenberg.Durations.Max.String()

	resp.LastUpdated = s.requests.LastUpdated
	if s.renders.LastTime.After(resp.LastUpdated) {
		resp.LastUpdated = s.renders.LastTime
	}
	return resp
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// formatBytes форматирует размер в байтах в человекочитаемый формат
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
