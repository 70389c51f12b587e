package gotenberg

import (
	"context"
	"errors"

	"certificate-service-go/internal/config"
	"certificate-service-go/internal/pkg/circuitbreaker"
	"certificate-service-go/internal/pkg/connpool"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/retry"
)

// ClientWithRetryAndCircuitBreaker комбинирует retry и circuit breaker механизмы.
// Повтор оборачивает предохранитель: при открытом предохранителе повторов нет.
// Пул ограничивает число одновременных запросов, слот держится на все попытки.
type ClientWithRetryAndCircuitBreaker struct {
	client  *Client
	cb      *circuitbreaker.CircuitBreaker
	retrier *retry.Retrier
	pool    *connpool.Pool
}

// NewClientWithRetryAndCircuitBreaker собирает клиента из конфигурации сервиса
func NewClientWithRetryAndCircuitBreaker(gc config.Gotenberg, cbc config.CircuitBreaker) *ClientWithRetryAndCircuitBreaker {
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		Name:             "gotenberg",
		FailureThreshold: cbc.FailureThreshold,
		ResetTimeout:     cbc.ResetTimeout,
		HalfOpenMaxCalls: cbc.HalfOpenMaxCalls,
		SuccessThreshold: cbc.SuccessThreshold,
		PodName:          cbc.PodName,
		Namespace:        cbc.Namespace,
		IsFailure:        isUpstreamFailure,
	})

	retrier := retry.New(
		"gotenberg",
		logger.Log,
		retry.WithMaxAttempts(gc.Retry.MaxAttempts),
		retry.WithInitialDelay(gc.Retry.InitialDelay),
		retry.WithMaxDelay(gc.Retry.MaxDelay),
		retry.WithBackoffFactor(gc.Retry.BackoffFactor),
		retry.WithClassifier(retry.ShouldRetry),
	)

	pool := connpool.NewPool(connpool.Config{
		Name:        "gotenberg",
		MaxConns:    gc.Pool.MaxConns,
		WaitTimeout: gc.Pool.WaitTimeout,
	}, logger.Log)

	return &ClientWithRetryAndCircuitBreaker{
		client:  NewClient(gc.URL, gc.Timeout),
		cb:      cb,
		retrier: retrier,
		pool:    pool,
	}
}

// isUpstreamFailure отказы зависимости. Ошибки в самом запросе и отмена вызывающим не в счет.
func isUpstreamFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return !retry.IsValidationError(err)
}

// Screenshot растеризует страницу с повторами и предохранителем
func (c *ClientWithRetryAndCircuitBreaker) Screenshot(ctx context.Context, html []byte, assets []Asset, opts ScreenshotOptions) ([]byte, error) {
	return c.call(ctx, func(ctx context.Context) ([]byte, error) {
		return c.client.Screenshot(ctx, html, assets, opts)
	})
}

// ConvertHTML печатает страницу в PDF с повторами и предохранителем
func (c *ClientWithRetryAndCircuitBreaker) ConvertHTML(ctx context.Context, html []byte, assets []Asset, opts PDFOptions) ([]byte, error) {
	return c.call(ctx, func(ctx context.Context) ([]byte, error) {
		return c.client.ConvertHTML(ctx, html, assets, opts)
	})
}

func (c *ClientWithRetryAndCircuitBreaker) call(ctx context.Context, fn func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	release, err := c.pool.Get(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var result []byte
	err = c.retrier.Do(ctx, func(ctx context.Context) error {
		return c.cb.Execute(ctx, func(ctx context.Context) error {
			var err error
			result, err = fn(ctx)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HealthCheck проверяет Gotenberg напрямую, минуя предохранитель
func (c *ClientWithRetryAndCircuitBreaker) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

// State возвращает текущее состояние Circuit Breaker
func (c *ClientWithRetryAndCircuitBreaker) State() circuitbreaker.State {
	return c.cb.State()
}

// IsHealthy возвращает true, если Circuit Breaker пропускает запросы
func (c *ClientWithRetryAndCircuitBreaker) IsHealthy() bool {
	return c.cb.IsHealthy()
}

// PoolStats занятость пула запросов к Gotenberg
func (c *ClientWithRetryAndCircuitBreaker) PoolStats() connpool.Stats {
	return c.pool.Stats()
}

// Close закрывает пул: ожидающие запросы завершаются с ошибкой
func (c *ClientWithRetryAndCircuitBreaker) Close() error {
	return c.pool.Close()
}

// SetHandler устанавливает обработчик статистики для базового клиента
func (c *ClientWithRetryAndCircuitBreaker) SetHandler(handler StatsHandler) {
	c.client.SetHandler(handler)
}
