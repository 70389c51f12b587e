package statistics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS request_logs (
	id SERIAL PRIMARY KEY,
	timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
	path TEXT NOT NULL,
	method TEXT NOT NULL,
	duration_ns BIGINT NOT NULL,
	success BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS render_logs (
	id SERIAL PRIMARY KEY,
	timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
	format TEXT NOT NULL,
	theme TEXT NOT NULL,
	duration_ns BIGINT NOT NULL,
	size_bytes BIGINT NOT NULL,
	has_error BOOLEAN NOT NULL
);

CREATE TABLE IF NOT EXISTS gotenberg_logs (
	id SERIAL PRIMARY KEY,
	timestamp TIMESTAMP WITH TIME ZONE NOT NULL,
	duration_ns BIGINT NOT NULL,
	has_error BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_render_logs_timestamp ON render_logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_gotenberg_logs_timestamp ON gotenberg_logs(timestamp);
`

// PostgresStore хранит события статистики в PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore подключается к базе и создает схему
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewPostgresStoreFromDB(db)
	if err := store.InitSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewPostgresStoreFromDB оборачивает уже открытое соединение
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema создает таблицы, если их нет
func (p *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LogRequest записывает информацию о запросе
func (p *PostgresStore) LogRequest(ctx context.Context, e RequestEvent) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO request_logs (timestamp, path, method, duration_ns, success) VALUES ($1, $2, $3, $4, $5)",
		e.Timestamp.UTC(), e.Path, e.Method, e.Duration.Nanoseconds(), e.Success,
	)
	if err != nil {
		return fmt.Errorf("failed to log request: %w", err)
	}
	return nil
}

// LogRender записывает информацию об отрисовке
func (p *PostgresStore) LogRender(ctx context.Context, e RenderEvent) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO render_logs (timestamp, format, theme, duration_ns, size_bytes, has_error) VALUES ($1, $2, $3, $4, $5, $6)",
		e.Timestamp.UTC(), e.Format, e.Theme, e.Duration.Nanoseconds(), e.Size, e.HasError,
	)
	if err != nil {
		return fmt.Errorf("failed to log render: %w", err)
	}
	return nil
}

// LogGotenberg записывает информацию о запросе к Gotenberg
func (p *PostgresStore) LogGotenberg(ctx context.Context, e GotenbergEvent) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO gotenberg_logs (timestamp, duration_ns, has_error) VALUES ($1, $2, $3)",
		e.Timestamp.UTC(), e.Duration.Nanoseconds(), e.HasError,
	)
	if err != nil {
		return fmt.Errorf("failed to log gotenberg request: %w", err)
	}
	return nil
}

// Summary возвращает агрегаты за период
func (p *PostgresStore) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	since = since.UTC()
	s := &Summary{Since: since, RendersByFormat: make(map[string]uint64)}

	err := p.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT success) FROM request_logs WHERE timestamp >= $1",
		since,
	).Scan(&s.Requests, &s.FailedRequests)
	if err != nil {
		return nil, fmt.Errorf("failed to query request stats: %w", err)
	}

	var avgNs sql.NullFloat64
	err = p.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE has_error), AVG(duration_ns) FROM render_logs WHERE timestamp >= $1",
		since,
	).Scan(&s.Renders, &s.FailedRenders, &avgNs)
	if err != nil {
		return nil, fmt.Errorf("failed to query render stats: %w", err)
	}
	s.AverageRenderTime = time.Duration(avgNs.Float64).String()

	rows, err := p.db.QueryContext(ctx,
		"SELECT format, COUNT(*) FROM render_logs WHERE timestamp >= $1 GROUP BY format",
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query renders by format: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var format string
		var count uint64
		if err := rows.Scan(&format, &count); err != nil {
			return nil, fmt.Errorf("failed to scan renders by format: %w", err)
		}
		s.RendersByFormat[format] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate renders by format: %w", err)
	}

	err = p.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(*) FILTER (WHERE has_error) FROM gotenberg_logs WHERE timestamp >= $1",
		since,
	).Scan(&s.GotenbergRequests, &s.GotenbergErrors)
	if err != nil {
		return nil, fmt.Errorf("failed to query gotenberg stats: %w", err)
	}

	return s, nil
}

// Close закрывает соединение с базой данных
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
