package tracing

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config содержит настройки для трейсинга
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	CollectorURL   string
	SamplingRate   float64 // 0.0 - 1.0
	BatchTimeout   time.Duration
	MaxExportBatch int
	MaxQueueSize   int
}

func (cfg *Config) setDefaults() {
	if cfg.SamplingRate == 0 {
		cfg.SamplingRate = 1.0
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 5 * time.Second
	}
	if cfg.MaxExportBatch == 0 {
		cfg.MaxExportBatch = 512
	}
	if cfg.MaxQueueSize == 0 {
		cfg.MaxQueueSize = 2048
	}
}

// InitTracer настраивает глобальный провайдер с OTLP/gRPC экспортером.
// Возвращает функцию завершения, которая сбрасывает накопленные спаны.
func InitTracer(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	cfg.setDefaults()

	client := otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.CollectorURL),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		otlptracegrpc.WithTimeout(10*time.Second),
		otlptracegrpc.WithRetry(otlptracegrpc.RetryConfig{
			Enabled:         true,
			InitialInterval: time.Second,
			MaxInterval:     5 * time.Second,
			MaxElapsedTime:  30 * time.Second,
		}),
	)
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	tp := NewProvider(cfg, newResource(cfg), sdktrace.WithBatcher(exporter,
		sdktrace.WithBatchTimeout(cfg.BatchTimeout),
		sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatch),
		sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
	))

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
		&jaegerPropagator{},
	))

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
		return nil
	}, nil
}

// NewProvider собирает провайдер с сэмплером из конфигурации.
// Экспортер передается опцией, в тестах это SpanRecorder.
func NewProvider(cfg Config, res *resource.Resource, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	cfg.setDefaults()
	opts = append(opts, sdktrace.WithSampler(sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(cfg.SamplingRate),
	)))
	if res != nil {
		opts = append(opts, sdktrace.WithResource(res))
	}
	return sdktrace.NewTracerProvider(opts...)
}

func newResource(cfg Config) *resource.Resource {
	hostname, _ := os.Hostname()
	podName := os.Getenv("KUBERNETES_POD_NAME")
	if podName == "" {
		podName = hostname
	}

	provider := "unknown"
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		provider = "kubernetes"
	}

	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.ServiceInstanceIDKey.String(podName),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		semconv.HostNameKey.String(hostname),
		attribute.String("runtime.version", runtime.Version()),
		attribute.String("k8s.pod.name", podName),
		attribute.String("k8s.namespace", os.Getenv("KUBERNETES_NAMESPACE")),
		attribute.String("cloud.provider", provider),
	)
}

// jaegerPropagator понимает заголовок uber-trace-id
type jaegerPropagator struct{}

func (p *jaegerPropagator) Inject(ctx context.Context, carrier propagation.TextMapCarrier) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	flags := "0"
	if sc.IsSampled() {
		flags = "1"
	}
	carrier.Set("uber-trace-id", fmt.Sprintf("%s:%s:0:%s", sc.TraceID(), sc.SpanID(), flags))
}

func (p *jaegerPropagator) Extract(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	h := carrier.Get("uber-trace-id")
	parts := strings.Split(h, ":")
	if len(parts) != 4 {
		return ctx
	}
	traceID, err := trace.TraceIDFromHex(parts[0])
	if err != nil {
		return ctx
	}
	spanID, err := trace.SpanIDFromHex(parts[1])
	if err != nil {
		return ctx
	}
	var flags trace.TraceFlags
	if parts[3] == "1" {
		flags = trace.FlagsSampled
	}
	return trace.ContextWithRemoteSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}))
}

func (p *jaegerPropagator) Fields() []string {
	return []string{"uber-trace-id"}
}
