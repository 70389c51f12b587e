package statistics

import (
	"context"
	"time"
)

// Store долговременное хранилище событий статистики
type Store interface {
	LogRequest(ctx context.Context, e RequestEvent) error
	LogRender(ctx context.Context, e RenderEvent) error
	LogGotenberg(ctx context.Context, e GotenbergEvent) error
	// Summary агрегаты за период начиная с since
	Summary(ctx context.Context, since time.Time) (*Summary, error)
	Close() error
}
