package api

import (
	"certificate-service-go/internal/api/handlers"
	"certificate-service-go/internal/domain/render"
)

// Handlers содержит все обработчики API
type Handlers struct {
	Certificate *handlers.CertificateHandler
	Templates   *handlers.TemplateHandler
	Statistics  *handlers.StatisticsHandler
	Health      *handlers.HealthHandler
}

// NewHandlers создает новые обработчики
func NewHandlers(service render.Service, stats handlers.StatisticsSource, renderer handlers.RendererHealth) *Handlers {
	return &Handlers{
		Certificate: handlers.NewCertificateHandler(service),
		Templates:   handlers.NewTemplateHandler(),
		Statistics:  handlers.NewStatisticsHandler(stats),
		Health:      handlers.NewHealthHandler(renderer),
	}
}
