package retry

import "time"

// Config содержит настройки для механизма retry
type Config struct {
	// MaxAttempts максимальное количество попыток включая первую
	MaxAttempts int
	// InitialDelay начальная задержка между попытками
	InitialDelay time.Duration
	// MaxDelay максимальная задержка между попытками
	MaxDelay time.Duration
	// BackoffFactor множитель для экспоненциальной задержки
	BackoffFactor float64
	// RetryableErrors список ошибок, для которых нужно выполнять retry
	RetryableErrors []error
	// Classifier решает, повторять ли операцию; имеет приоритет над RetryableErrors
	Classifier func(error) bool
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Option функциональные опции для конфигурации
type Option func(*Config)

func WithMaxAttempts(attempts int) Option {
	return func(c *Config) {
		if attempts > 0 {
			c.MaxAttempts = attempts
		}
	}
}

func WithInitialDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = delay
	}
}

func WithMaxDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = delay
	}
}

func WithBackoffFactor(factor float64) Option {
	return func(c *Config) {
		if factor >= 1 {
			c.BackoffFactor = factor
		}
	}
}

// WithRetryableErrors ограничивает повторы перечисленными ошибками
func WithRetryableErrors(errors []error) Option {
	return func(c *Config) {
		c.RetryableErrors = errors
	}
}

// WithClassifier задает функцию, которая решает, нужен ли повтор
func WithClassifier(fn func(error) bool) Option {
	return func(c *Config) {
		c.Classifier = fn
	}
}
