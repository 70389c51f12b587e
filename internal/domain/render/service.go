package render

import (
	"context"
	"time"

	"certificate-service-go/internal/pkg/gotenberg"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_renderer.go -package=mocks

// Service отрисовка сертификатов
type Service interface {
	Preview(ctx context.Context, req Request) (*Preview, error)
	Render(ctx context.Context, req Request, format Format) (*Artifact, error)
}

// Renderer растеризует и печатает HTML-страницы
type Renderer interface {
	Screenshot(ctx context.Context, html []byte, assets []gotenberg.Asset, opts gotenberg.ScreenshotOptions) ([]byte, error)
	ConvertHTML(ctx context.Context, html []byte, assets []gotenberg.Asset, opts gotenberg.PDFOptions) ([]byte, error)
}

// StatsTracker получает сведения о каждой отрисовке
type StatsTracker interface {
	TrackRender(format, theme string, duration time.Duration, size int64, hasError bool)
}
