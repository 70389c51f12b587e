package connpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"certificate-service-go/internal/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrPoolClosed    = errors.New("connection pool is closed")
	ErrPoolExhausted = errors.New("connection pool exhausted")
)

// Config содержит настройки пула
type Config struct {
	Name string
	// MaxConns максимальное число одновременных запросов
	MaxConns int
	// WaitTimeout таймаут на получение слота
	WaitTimeout time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() Config {
	return Config{
		Name:        "default",
		MaxConns:    8,
		WaitTimeout: 30 * time.Second,
	}
}

// Pool ограничивает число одновременных запросов к зависимости.
// Слот берется через Get и возвращается вызовом release.
type Pool struct {
	config  Config
	logger  *zap.Logger
	slots   chan struct{}
	waiting atomic.Int64

	closeOnce sync.Once
	done      chan struct{}
}

// Stats текущее состояние пула
type Stats struct {
	MaxConns int `json:"max_conns"`
	Active   int `json:"active"`
	Waiting  int `json:"waiting"`
}

// NewPool создает пул. Нулевые значения конфигурации заменяются значениями по умолчанию.
func NewPool(config Config, logger *zap.Logger) *Pool {
	def := DefaultConfig()
	if config.Name == "" {
		config.Name = def.Name
	}
	if config.MaxConns <= 0 {
		config.MaxConns = def.MaxConns
	}
	if config.WaitTimeout <= 0 {
		config.WaitTimeout = def.WaitTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics.ConnectionPoolCapacity.WithLabelValues(config.Name).Set(float64(config.MaxConns))

	return &Pool{
		config: config,
		logger: logger,
		slots:  make(chan struct{}, config.MaxConns),
		done:   make(chan struct{}),
	}
}

// Get занимает слот. Если свободного слота нет дольше WaitTimeout, возвращает ErrPoolExhausted.
func (p *Pool) Get(ctx context.Context) (release func(), err error) {
	start := time.Now()
	defer func() {
		metrics.ConnectionPoolGetDuration.WithLabelValues(p.config.Name).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.ConnectionPoolErrors.WithLabelValues(p.config.Name, errorType(err)).Inc()
		}
	}()

	select {
	case <-p.done:
		return nil, ErrPoolClosed
	default:
	}

	// быстрый путь без таймера
	select {
	case p.slots <- struct{}{}:
		return p.acquired(), nil
	default:
	}

	p.setWaiting(p.waiting.Add(1))
	defer func() { p.setWaiting(p.waiting.Add(-1)) }()

	timer := time.NewTimer(p.config.WaitTimeout)
	defer timer.Stop()

	select {
	case p.slots <- struct{}{}:
		return p.acquired(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, ErrPoolClosed
	case <-timer.C:
		p.logger.Warn("Connection pool exhausted",
			zap.String("pool", p.config.Name),
			zap.Int("max_conns", p.config.MaxConns),
			zap.Duration("waited", time.Since(start)),
		)
		return nil, ErrPoolExhausted
	}
}

func (p *Pool) acquired() func() {
	p.setActive()
	var once sync.Once
	return func() {
		once.Do(func() {
			<-p.slots
			p.setActive()
		})
	}
}

func (p *Pool) setActive() {
	metrics.ConnectionPoolActiveConnections.WithLabelValues(p.config.Name).Set(float64(len(p.slots)))
}

func (p *Pool) setWaiting(n int64) {
	metrics.ConnectionPoolWaitingRequests.WithLabelValues(p.config.Name).Set(float64(n))
}

// Stats возвращает статистику пула
func (p *Pool) Stats() Stats {
	return Stats{
		MaxConns: p.config.MaxConns,
		Active:   len(p.slots),
		Waiting:  int(p.waiting.Load()),
	}
}

// Close закрывает пул. Ожидающие получают ErrPoolClosed, занятые слоты освобождаются как обычно.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	return nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, ErrPoolExhausted):
		return "exhausted"
	case errors.Is(err, ErrPoolClosed):
		return "closed"
	case errors.Is(err, context.DeadlineExceeded):
		return "deadline"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}
