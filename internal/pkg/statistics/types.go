package statistics

import (
	"time"
)

// durationStats накопитель длительностей
type durationStats struct {
	Count uint64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

func (d *durationStats) add(v time.Duration) {
	d.Count++
	d.Total += v
	if d.Min == 0 || v < d.Min {
		d.Min = v
	}
	if v > d.Max {
		d.Max = v
	}
}

func (d durationStats) average() time.Duration {
	if d.Count == 0 {
		return 0
	}
	return d.Total / time.Duration(d.Count)
}

// RequestStats статистика HTTP-запросов
type RequestStats struct {
	Success        uint64
	Failed         uint64
	Durations      durationStats
	RequestsByHour map[int]uint64
	LastUpdated    time.Time
}

// RenderStats статистика отрисовки сертификатов
type RenderStats struct {
	Failed    uint64
	Durations durationStats
	ByFormat  map[string]uint64
	ByTheme   map[string]uint64
	TotalSize int64
	MinSize   int64
	MaxSize   int64
	LastTime  time.Time
}

// GotenbergStats статистика запросов к Gotenberg
type GotenbergStats struct {
	Failed    uint64
	Durations durationStats
	LastTime  time.Time
}

// RenderEvent одна отрисовка
type RenderEvent struct {
	Timestamp time.Time
	Format    string
	Theme     string
	Duration  time.Duration
	Size      int64
	HasError  bool
}

// RequestEvent один HTTP-запрос
type RequestEvent struct {
	Timestamp time.Time
	Path      string
	Method    string
	Duration  time.Duration
	Success   bool
}

// GotenbergEvent один запрос к Gotenberg
type GotenbergEvent struct {
	Timestamp time.Time
	Duration  time.Duration
	HasError  bool
}

// Summary агрегаты из хранилища за период
type Summary struct {
	Since             time.Time         `json:"since"`
	Requests          uint64            `json:"requests"`
	FailedRequests    uint64            `json:"failed_requests"`
	Renders           uint64            `json:"renders"`
	FailedRenders     uint64            `json:"failed_renders"`
	RendersByFormat   map[string]uint64 `json:"renders_by_format"`
	AverageRenderTime string            `json:"average_render_time"`
	GotenbergRequests uint64            `json:"gotenberg_requests"`
	GotenbergErrors   uint64            `json:"gotenberg_errors"`
}

// StatisticsResponse ответ API со статистикой процесса
type StatisticsResponse struct {
	Requests struct {
		Total           uint64            `json:"total"`
		Success         uint64            `json:"success"`
		Failed          uint64            `json:"failed"`
		AverageDuration string            `json:"average_duration"`
		MinDuration     string            `json:"min_duration"`
		MaxDuration     string            `json:"max_duration"`
		ByHourOfDay     map[string]uint64 `json:"by_hour_of_day"`
	} `json:"requests"`

	Renders struct {
		Total           uint64            `json:"total"`
		Failed          uint64            `json:"failed"`
		ByFormat        map[string]uint64 `json:"by_format"`
		ByTheme         map[string]uint64 `json:"by_theme"`
		AverageDuration string            `json:"average_duration"`
		MaxDuration     string            `json:"max_duration"`
		TotalSize       string            `json:"total_size"`
		MinSize         string            `json:"min_size"`
		MaxSize         string            `json:"max_size"`
	} `json:"renders"`

	Gotenberg struct {
		TotalRequests   uint64 `json:"total_requests"`
		ErrorRequests   uint64 `json:"error_requests"`
		AverageDuration string `json:"average_duration"`
		MaxDuration     string `json:"max_duration"`
	} `json:"gotenberg"`

	Stored *Summary `json:"stored,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}
