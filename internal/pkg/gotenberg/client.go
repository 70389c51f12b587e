package gotenberg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"certificate-service-go/internal/pkg/metrics"
	"certificate-service-go/internal/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

const (
	routeScreenshot = "/forms/chromium/screenshot/html"
	routeConvert    = "/forms/chromium/convert/html"
	routeHealth     = "/health"

	// ограничение на тело ответа с ошибкой, попадающее в текст ошибки
	maxErrorBody = 512
)

// StatsHandler получает сведения о каждом запросе к Gotenberg
type StatsHandler interface {
	TrackGotenbergRequest(duration time.Duration, hasError bool, isHealthCheck bool)
}

// Asset файл, который отправляется вместе с index.html.
// Страница ссылается на него по имени.
type Asset struct {
	Name string
	Data []byte
}

// ScreenshotOptions параметры растеризации страницы
type ScreenshotOptions struct {
	Width   int
	Height  int
	Format  string // png или jpeg
	Quality int    // только для jpeg, 0..100
}

// PDFOptions параметры печати страницы в PDF. Размеры в дюймах.
type PDFOptions struct {
	PaperWidth      float64
	PaperHeight     float64
	Margin          float64
	Landscape       bool
	PrintBackground bool
}

// Client клиент Chromium-маршрутов Gotenberg
type Client struct {
	baseURL string
	client  *http.Client
	handler StatsHandler
}

// NewClient создает клиента. timeout ограничивает один HTTP-запрос.
func NewClient(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 50,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		WriteBufferSize:     64 * 1024,
		ReadBufferSize:      64 * 1024,
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// SetHandler устанавливает обработчик для сбора статистики
func (c *Client) SetHandler(handler StatsHandler) {
	c.handler = handler
}

// Screenshot растеризует страницу в PNG или JPEG
func (c *Client) Screenshot(ctx context.Context, html []byte, assets []Asset, opts ScreenshotOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = "png"
	}
	fields := map[string]string{
		"width":  strconv.Itoa(opts.Width),
		"height": strconv.Itoa(opts.Height),
		"format": format,
		"clip":   "true",
	}
	if format == "jpeg" && opts.Quality > 0 {
		fields["quality"] = strconv.Itoa(opts.Quality)
	}
	return c.post(ctx, "screenshot", routeScreenshot, html, assets, fields)
}

// ConvertHTML печатает страницу в PDF
func (c *Client) ConvertHTML(ctx context.Context, html []byte, assets []Asset, opts PDFOptions) ([]byte, error) {
	margin := strconv.FormatFloat(opts.Margin, 'f', -1, 64)
	fields := map[string]string{
		"paperWidth":      strconv.FormatFloat(opts.PaperWidth, 'f', -1, 64),
		"paperHeight":     strconv.FormatFloat(opts.PaperHeight, 'f', -1, 64),
		"marginTop":       margin,
		"marginBottom":    margin,
		"marginLeft":      margin,
		"marginRight":     margin,
		"landscape":       strconv.FormatBool(opts.Landscape),
		"printBackground": strconv.FormatBool(opts.PrintBackground),
	}
	return c.post(ctx, "convert", routeConvert, html, assets, fields)
}

func (c *Client) post(ctx context.Context, operation, route string, html []byte, assets []Asset, fields map[string]string) (result []byte, err error) {
	ctx, span := tracing.StartSpan(ctx, "Gotenberg."+operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("gotenberg.route", route),
		attribute.Int("gotenberg.html_size", len(html)),
		attribute.Int("gotenberg.assets", len(assets)),
	)

	start := time.Now()
	defer func() {
		c.observe(operation, time.Since(start), err, false)
		tracing.RecordError(ctx, err)
	}()

	body, contentType, err := buildForm(html, assets, fields)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	span.SetAttributes(attribute.Int("gotenberg.response_size", len(out)))
	return out, nil
}

func buildForm(html []byte, assets []Asset, fields map[string]string) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	files := append([]Asset{{Name: "index.html", Data: html}}, assets...)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %s: %w", f.Name, err)
		}
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// HealthCheck выполняет проверку здоровья сервиса Gotenberg
func (c *Client) HealthCheck(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.observe("health", time.Since(start), err, true) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+routeHealth, nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Operation: "health", StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) observe(operation string, d time.Duration, err error, health bool) {
	status := "success"
	if err != nil {
		status = "error"
		var se *StatusError
		if errors.As(err, &se) {
			status = strconv.Itoa(se.StatusCode)
		}
	}
	metrics.GotenbergRequestsTotal.WithLabelValues(operation, status).Inc()
	metrics.GotenbergRequestDuration.WithLabelValues(operation).Observe(d.Seconds())
	if c.handler != nil {
		c.handler.TrackGotenbergRequest(d, err != nil, health)
	}
}
