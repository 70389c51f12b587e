package circuitbreaker

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"certificate-service-go/internal/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// State представляет состояние Circuit Breaker
type State int

const (
	StateClosed   State = iota // запросы проходят
	StateOpen                  // запросы блокируются
	StateHalfOpen              // пропускается ограниченное число пробных запросов
)

var (
	// ErrCircuitOpen возвращается, когда Circuit Breaker находится в открытом состоянии
	ErrCircuitOpen = errors.New("circuit breaker is open")

	circuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current state of the circuit breaker (0: Closed, 1: Open, 2: Half-Open)",
		},
		[]string{"name", "pod_name", "namespace"},
	)

	circuitBreakerFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures detected by circuit breaker",
		},
		[]string{"name", "pod_name", "namespace"},
	)

	circuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests passed through circuit breaker",
		},
		[]string{"name", "pod_name", "namespace", "status"},
	)

	circuitBreakerRecoveryTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "circuit_breaker_recovery_duration_seconds",
			Help:    "Time taken to recover from Open to Closed state",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"name", "pod_name", "namespace"},
	)
)

// Config содержит настройки для Circuit Breaker
type Config struct {
	Name             string        // имя в метриках и логах
	FailureThreshold int           // ошибок подряд до перехода в Open
	ResetTimeout     time.Duration // время до перехода из Open в Half-Open
	HalfOpenMaxCalls int           // пробных запросов в Half-Open
	SuccessThreshold int           // успешных пробных запросов для перехода в Closed
	PodName          string
	Namespace        string
	// IsFailure решает, считать ли ошибку отказом зависимости.
	// По умолчанию отказом считается любая ошибка, кроме отмены контекста вызывающим.
	IsFailure func(error) bool
}

// CircuitBreaker реализует паттерн Circuit Breaker
type CircuitBreaker struct {
	config Config
	labels prometheus.Labels

	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	halfOpenCalls   int
	lastStateChange time.Time
	openStartTime   time.Time
}

// NewCircuitBreaker создает новый экземпляр Circuit Breaker
func NewCircuitBreaker(config Config) *CircuitBreaker {
	if config.PodName == "" {
		config.PodName = os.Getenv("HOSTNAME")
	}
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return !errors.Is(err, context.Canceled)
		}
	}

	cb := &CircuitBreaker{
		config: config,
		labels: prometheus.Labels{
			"name":      config.Name,
			"pod_name":  config.PodName,
			"namespace": config.Namespace,
		},
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
	circuitBreakerState.With(cb.labels).Set(float64(StateClosed))
	return cb
}

// Execute выполняет функцию с учетом состояния Circuit Breaker
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !cb.allowRequest() {
		cb.count("rejected")
		return ErrCircuitOpen
	}

	err := fn(ctx)
	failed := err != nil && cb.config.IsFailure(err)
	cb.handleResult(failed)

	switch {
	case err == nil:
		cb.count("success")
	case failed:
		cb.count("failure")
	default:
		cb.count("ignored")
	}
	return err
}

func (cb *CircuitBreaker) count(status string) {
	circuitBreakerRequests.WithLabelValues(cb.config.Name, cb.config.PodName, cb.config.Namespace, status).Inc()
}

func (cb *CircuitBreaker) allowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.lastStateChange) < cb.config.ResetTimeout {
			return false
		}
		cb.setState(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenCalls >= cb.config.HalfOpenMaxCalls {
			return false
		}
		cb.halfOpenCalls++
		return true
	}
	return false
}

func (cb *CircuitBreaker) handleResult(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if failed {
		circuitBreakerFailures.With(cb.labels).Inc()
		switch cb.state {
		case StateClosed:
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.setState(StateOpen)
			}
		case StateHalfOpen:
			cb.setState(StateOpen)
		}
		return
	}

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
	}
}

// setState вызывается под мьютексом
func (cb *CircuitBreaker) setState(state State) {
	prev := cb.state
	cb.state = state
	cb.lastStateChange = time.Now()
	cb.failures = 0
	cb.successes = 0
	cb.halfOpenCalls = 0

	switch state {
	case StateOpen:
		if prev != StateHalfOpen || cb.openStartTime.IsZero() {
			cb.openStartTime = cb.lastStateChange
		}
	case StateClosed:
		if !cb.openStartTime.IsZero() {
			circuitBreakerRecoveryTime.With(cb.labels).Observe(time.Since(cb.openStartTime).Seconds())
			cb.openStartTime = time.Time{}
		}
	}

	circuitBreakerState.With(cb.labels).Set(float64(state))
	logger.Log.Info("circuit breaker state changed",
		zap.String("name", cb.config.Name),
		zap.String("from", prev.String()),
		zap.String("to", state.String()),
	)
}

// State возвращает текущее состояние
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsHealthy true, если запросы сейчас пропускаются
func (cb *CircuitBreaker) IsHealthy() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case StateClosed:
		return true
	case StateHalfOpen:
		return cb.halfOpenCalls < cb.config.HalfOpenMaxCalls
	}
	return false
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "Closed"
	case StateOpen:
		return "Open"
	case StateHalfOpen:
		return "HalfOpen"
	default:
		return "Unknown"
	}
}
