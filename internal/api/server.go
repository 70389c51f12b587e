package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"certificate-service-go/internal/api/middleware"
	"certificate-service-go/internal/config"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	Router   *gin.Engine
	Handlers *Handlers
	cfg      config.Server
	server   *http.Server
}

func NewServer(handlers *Handlers, cfg config.Server, stats middleware.RequestTracker) *Server {
	router := gin.New()

	// Настройка лимитов
	router.MaxMultipartMemory = 8 << 20 // 8 MiB

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(tracing.GinMiddleware())
	router.Use(middleware.PrometheusMiddleware())
	router.Use(middleware.AccessLog())
	router.Use(middleware.StatisticsMiddleware(stats))

	// Таймаут на обработку запроса
	if cfg.RequestTimeout > 0 {
		router.Use(func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
			defer cancel()
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}

	return &Server{
		Router:   router,
		Handlers: handlers,
		cfg:      cfg,
	}
}

func (s *Server) SetupRoutes() {
	// Health check для k8s
	s.Router.GET("/health", s.Handlers.Health.Health)

	// Метрики Prometheus
	s.Router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.Router.Group("/api/v1")
	{
		v1.GET("/shortcodes", s.Handlers.Templates.Shortcodes)

		templates := v1.Group("/templates")
		templates.GET("/default", s.Handlers.Templates.Default)
		templates.POST("/normalize", s.Handlers.Templates.Normalize)
		templates.POST("/import", s.Handlers.Templates.Import)
		templates.POST("/export", s.Handlers.Templates.Export)
		templates.POST("/placeholders", s.Handlers.Templates.InsertPlaceholder)

		certificates := v1.Group("/certificates")
		certificates.POST("/preview", s.Handlers.Certificate.Preview)
		certificates.POST("/render", s.Handlers.Certificate.Render)

		v1.GET("/statistics", s.Handlers.Statistics.GetStatistics)
	}
}

// Start запускает сервер и блокируется до сигнала остановки или ошибки
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:           s.cfg.Address,
		Handler:        s.Router,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server", zap.String("address", s.cfg.Address))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("Received signal", zap.String("signal", sig.String()))
		return s.Stop()
	}
}

func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Shutting down server")
	if err := s.server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
