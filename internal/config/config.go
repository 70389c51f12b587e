package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// Config конфигурация сервиса сертификатов
type Config struct {
	LogLevel       string         `env:"LOG_LEVEL"`
	Server         Server         `envPrefix:"SERVER_"`
	Gotenberg      Gotenberg      `envPrefix:"GOTENBERG_"`
	CircuitBreaker CircuitBreaker `envPrefix:"CIRCUIT_BREAKER_"`
	Render         Render         `envPrefix:"RENDER_"`
	StatsDB        StatsDB        `envPrefix:"STATS_DB_"`
	Tracing        Tracing        `envPrefix:"OTEL_"`
}

// Server настройки HTTP-сервера
type Server struct {
	Address        string        `env:"ADDRESS"`
	ReadTimeout    time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Gotenberg адрес и таймауты растеризатора
type Gotenberg struct {
	URL     string        `env:"API_URL"`
	Timeout time.Duration `env:"TIMEOUT"`
	Retry   Retry         `envPrefix:"RETRY_"`
	Pool    Pool          `envPrefix:"POOL_"`
}

// Pool ограничение одновременных запросов к Gotenberg
type Pool struct {
	MaxConns    int           `env:"MAX_CONNS"`
	WaitTimeout time.Duration `env:"WAIT_TIMEOUT"`
}

// Retry настройки повторов запросов к Gotenberg
type Retry struct {
	MaxAttempts   int           `env:"MAX_ATTEMPTS"`
	InitialDelay  time.Duration `env:"INITIAL_DELAY"`
	MaxDelay      time.Duration `env:"MAX_DELAY"`
	BackoffFactor float64       `env:"BACKOFF_FACTOR"`
}

// CircuitBreaker настройки предохранителя
type CircuitBreaker struct {
	FailureThreshold int           `env:"FAILURE_THRESHOLD"`
	ResetTimeout     time.Duration `env:"RESET_TIMEOUT"`
	HalfOpenMaxCalls int           `env:"HALF_OPEN_MAX_CALLS"`
	SuccessThreshold int           `env:"SUCCESS_THRESHOLD"`
	PodName          string        `env:"POD_NAME"`
	Namespace        string        `env:"POD_NAMESPACE"`
}

// Render настройки отрисовки сертификатов
type Render struct {
	// Scale множитель разрешения растра
	Scale     float64       `env:"SCALE"`
	CacheTTL  time.Duration `env:"CACHE_TTL"`
	AssetsDir string        `env:"ASSETS_DIR"`
}

// StatsDB подключение к PostgreSQL для статистики.
// Пустой Host отключает хранение.
type StatsDB struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Name     string `env:"NAME"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	SSLMode  string `env:"SSLMODE"`
}

func (db StatsDB) Enabled() bool {
	return db.Host != ""
}

// Tracing настройки OpenTelemetry
type Tracing struct {
	Enabled      bool    `env:"ENABLED"`
	ServiceName  string  `env:"SERVICE_NAME"`
	Endpoint     string  `env:"EXPORTER_OTLP_ENDPOINT"`
	Environment  string  `env:"ENVIRONMENT"`
	SamplingRate float64 `env:"SAMPLING_RATE"`
}

// Defaults значения по умолчанию
func Defaults() Config {
	return Config{
		LogLevel: "info",
		Server: Server{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			RequestTimeout: 45 * time.Second,
		},
		Gotenberg: Gotenberg{
			URL:     "http://gotenberg:3000",
			Timeout: 30 * time.Second,
			Retry: Retry{
				MaxAttempts:   3,
				InitialDelay:  100 * time.Millisecond,
				MaxDelay:      2 * time.Second,
				BackoffFactor: 2,
			},
			Pool: Pool{
				MaxConns:    8,
				WaitTimeout: 30 * time.Second,
			},
		},
		CircuitBreaker: CircuitBreaker{
			FailureThreshold: 5,
			ResetTimeout:     10 * time.Second,
			HalfOpenMaxCalls: 2,
			SuccessThreshold: 2,
		},
		Render: Render{
			Scale:    4,
			CacheTTL: 10 * time.Minute,
		},
		StatsDB: StatsDB{
			Port:    "5432",
			Name:    "certificates",
			SSLMode: "disable",
		},
		Tracing: Tracing{
			ServiceName:  "certificate-service",
			Endpoint:     "localhost:4317",
			Environment:  "development",
			SamplingRate: 1,
		},
	}
}

// Load читает конфигурацию из окружения и дополняет ее значениями по умолчанию
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := new(Config)
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse env config: %w", err)
	}
	if err := mergo.Merge(cfg, Defaults()); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.Gotenberg.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid GOTENBERG_API_URL %q", c.Gotenberg.URL))
	}
	if c.Gotenberg.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("GOTENBERG_RETRY_MAX_ATTEMPTS must be positive"))
	}
	if c.Gotenberg.Pool.MaxConns < 1 {
		errs = append(errs, errors.New("GOTENBERG_POOL_MAX_CONNS must be positive"))
	}
	if c.Render.Scale <= 0 || c.Render.Scale > 8 {
		errs = append(errs, fmt.Errorf("RENDER_SCALE must be in (0, 8], got %v", c.Render.Scale))
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_SAMPLING_RATE must be in [0, 1], got %v", c.Tracing.SamplingRate))
	}
	return errors.Join(errs...)
}

// DSN строка подключения для lib/pq
func (db StatsDB) DSN() string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		db.Host, db.Port, db.Name, db.User, db.Password, db.SSLMode)
}
