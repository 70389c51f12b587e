package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"time"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/pkg/cache"
	"certificate-service-go/internal/pkg/gotenberg"
	"certificate-service-go/internal/pkg/logger"
	"certificate-service-go/internal/pkg/metrics"
	"certificate-service-go/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	// DefaultScale множитель разрешения растра
	DefaultScale       = 4.0
	defaultJPEGQuality = 92
	pageRasterAsset    = "certificate.png"
	pointsPerInch      = 72.0
)

// Options зависимости и настройки сервиса
type Options struct {
	Scale       float64
	JPEGQuality int
	Assets      []gotenberg.Asset
	Cache       *cache.Cache // nil отключает кэш
	Stats       StatsTracker // может быть nil
}

type ServiceImpl struct {
	renderer Renderer
	opts     Options
}

// NewService создает сервис отрисовки
func NewService(renderer Renderer, opts Options) *ServiceImpl {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = defaultJPEGQuality
	}
	return &ServiceImpl{renderer: renderer, opts: opts}
}

// resolve достает документ из запроса, нормализует и проверяет оформление
func (s *ServiceImpl) resolve(req Request) (certificate.Document, error) {
	var doc certificate.Document
	switch {
	case len(req.Template) > 0:
		decoded, err := certificate.Decode(req.Template)
		if err != nil {
			metrics.TemplateDecodeTotal.WithLabelValues("error").Inc()
			return doc, err
		}
		metrics.TemplateDecodeTotal.WithLabelValues("ok").Inc()
		doc = decoded
	case req.Document != nil:
		doc = certificate.Encode(req.Document.Settings, req.Document.Theme, req.Document.Content)
	default:
		return doc, ErrNoDocument
	}

	if err := certificate.ValidateTheme(doc.Theme); err != nil {
		return doc, err
	}
	return doc, nil
}

// Preview подставляет данные и собирает HTML-страницу без обращения к растеризатору
func (s *ServiceImpl) Preview(ctx context.Context, req Request) (*Preview, error) {
	ctx, span := tracing.StartSpan(ctx, "Render.Preview")
	defer span.End()

	doc, err := s.resolve(req)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	filled := s.fill(ctx, doc, req.Data)

	page, err := BuildPage(filled, 1)
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, err
	}
	w, h := PageSize(filled.Settings.Orientation)
	return &Preview{
		Document:   filled,
		HTML:       string(page),
		Width:      w,
		Height:     h,
		Unresolved: certificate.UnresolvedPlaceholders(filled.Content),
	}, nil
}

func (s *ServiceImpl) fill(ctx context.Context, doc certificate.Document, data certificate.PlaceholderData) certificate.Document {
	doc.Content = certificate.Substitute(doc.Content, data)
	if missing := certificate.UnresolvedPlaceholders(doc.Content); len(missing) > 0 {
		metrics.PlaceholderMissesTotal.Add(float64(len(missing)))
		logger.FromContext(ctx).Debug("placeholders left unresolved", zap.Strings("placeholders", missing))
	}
	return doc
}

// Render готовит файл сертификата в заданном формате
func (s *ServiceImpl) Render(ctx context.Context, req Request, format Format) (art *Artifact, err error) {
	ctx, span := tracing.StartSpan(ctx, "Render.Render")
	defer span.End()
	span.SetAttributes(attribute.String("certificate.format", string(format)))

	log := logger.FromContext(ctx).With(zap.String("format", string(format)))
	start := time.Now()
	theme := ""

	defer func() {
		d := time.Since(start)
		status := "success"
		var size int64
		if err != nil {
			status = "error"
			tracing.RecordError(ctx, err)
			log.Warn("certificate render failed", zap.Error(err), zap.Duration("duration", d))
		} else {
			size = int64(len(art.Data))
			metrics.CertificateFileSizeBytes.WithLabelValues(string(format)).Observe(float64(size))
			log.Info("certificate rendered",
				zap.String("theme", theme),
				zap.Int64("size_bytes", size),
				zap.Bool("cached", art.Cached),
				zap.Duration("duration", d),
			)
		}
		metrics.CertificateRenderTotal.WithLabelValues(string(format), status).Inc()
		metrics.CertificateRenderDuration.WithLabelValues(string(format), theme).Observe(d.Seconds())
		if s.opts.Stats != nil {
			s.opts.Stats.TrackRender(string(format), theme, d, size, err != nil)
		}
	}()

	parsed, perr := ParseFormat(string(format))
	if perr != nil || format == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	format = parsed

	doc, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	theme = string(doc.Theme.Name)
	span.SetAttributes(attribute.String("certificate.theme", theme))

	if format == FormatJSON {
		data, err := certificate.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode template: %w", err)
		}
		return newArtifact(format, data), nil
	}

	filled := s.fill(ctx, doc, req.Data)
	key, err := s.cacheKey(filled, format)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.fromCache(ctx, key, format); ok {
		span.SetAttributes(attribute.Bool("certificate.cached", true))
		return cached, nil
	}

	page, err := BuildPage(filled, s.opts.Scale)
	if err != nil {
		return nil, err
	}

	var out []byte
	switch format {
	case FormatPNG, FormatJPEG:
		out, err = s.rasterize(ctx, page, filled.Settings.Orientation, format)
	case FormatPDF:
		out, err = s.printPDF(ctx, page, filled.Settings.Orientation)
	}
	if err != nil {
		return nil, err
	}

	art = newArtifact(format, out)
	if format != FormatPDF {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			return nil, fmt.Errorf("renderer returned an unreadable image: %w", err)
		}
		art.Width, art.Height = cfg.Width, cfg.Height
	}
	if s.opts.Cache != nil {
		s.opts.Cache.Set(ctx, key, out)
	}
	return art, nil
}

func (s *ServiceImpl) rasterize(ctx context.Context, page []byte, o certificate.Orientation, format Format) ([]byte, error) {
	w, h := PageSize(o)
	opts := gotenberg.ScreenshotOptions{
		Width:  int(float64(w) * s.opts.Scale),
		Height: int(float64(h) * s.opts.Scale),
		Format: string(format),
	}
	if format == FormatJPEG {
		opts.Quality = s.opts.JPEGQuality
	}
	out, err := s.renderer.Screenshot(ctx, page, s.opts.Assets, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to rasterize certificate: %w", err)
	}
	return out, nil
}

// printPDF растеризует страницу и кладет растр на лист letter:
// ориентация по размерам растра, вписывание с сохранением пропорций, по центру
func (s *ServiceImpl) printPDF(ctx context.Context, page []byte, o certificate.Orientation) ([]byte, error) {
	raster, err := s.rasterize(ctx, page, o, FormatPNG)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raster))
	if err != nil {
		return nil, fmt.Errorf("renderer returned an unreadable image: %w", err)
	}

	placement := certificate.FitToPage(cfg.Width, cfg.Height)
	sheet := PDFPage(placement, pageRasterAsset)

	out, err := s.renderer.ConvertHTML(ctx, sheet, []gotenberg.Asset{{Name: pageRasterAsset, Data: raster}}, gotenberg.PDFOptions{
		PaperWidth:      placement.PageWidth / pointsPerInch,
		PaperHeight:     placement.PageHeight / pointsPerInch,
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print certificate: %w", err)
	}
	return out, nil
}

// PDFPage HTML листа, на котором растр расположен согласно placement.
// Размеры в пунктах.
func PDFPage(p certificate.Placement, asset string) []byte {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) + "pt" }
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<style>\n")
	b.WriteString("@page { size: " + f(p.PageWidth) + " " + f(p.PageHeight) + "; margin: 0; }\n")
	b.WriteString("html, body { margin: 0; padding: 0; width: " + f(p.PageWidth) + "; height: " + f(p.PageHeight) + "; }\n")
	b.WriteString("img { position: absolute; left: " + f(p.X) + "; top: " + f(p.Y) + "; width: " + f(p.Width) + "; height: " + f(p.Height) + "; }\n")
	b.WriteString("</style>\n</head>\n<body>\n<img src=\"" + asset + "\" alt=\"\">\n</body>\n</html>\n")
	return b.Bytes()
}

func (s *ServiceImpl) cacheKey(doc certificate.Document, format Format) (string, error) {
	if s.opts.Cache == nil {
		return "", nil
	}
	data, err := certificate.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint document: %w", err)
	}
	return cache.Fingerprint(
		[]byte(format),
		data,
		[]byte(strconv.FormatFloat(s.opts.Scale, 'f', -1, 64)),
		[]byte(strconv.Itoa(s.opts.JPEGQuality)),
	), nil
}

func (s *ServiceImpl) fromCache(ctx context.Context, key string, format Format) (*Artifact, bool) {
	if s.opts.Cache == nil {
		return nil, false
	}
	data, err := s.opts.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrExpired) {
			logger.FromContext(ctx).Warn("render cache lookup failed", zap.Error(err))
		}
		return nil, false
	}
	art := newArtifact(format, data)
	art.Cached = true
	if format != FormatPDF {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			art.Width, art.Height = cfg.Width, cfg.Height
		}
	}
	return art, true
}

func newArtifact(format Format, data []byte) *Artifact {
	return &Artifact{
		Format:      format,
		ContentType: format.ContentType(),
		FileName:    format.FileName(),
		Data:        data,
	}
}

// compile-time check
var _ Service = (*ServiceImpl)(nil)

// PlaceholderDataFromJSON разбирает значения плейсхолдеров: либо объект
// с произвольными ключами, либо запись студента с ключами NAME, SUBJECT, DATE, DURATION, ID
func PlaceholderDataFromJSON(raw []byte) (certificate.PlaceholderData, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return certificate.PlaceholderData{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("invalid placeholder data: %w", err)
	}
	data, err := PlaceholderDataFromValues(m)
	if err != nil {
		return nil, fmt.Errorf("invalid placeholder data: %w", err)
	}
	return data, nil
}

// PlaceholderDataFromValues приводит разобранные JSON-значения к строкам.
// null считается отсутствующим ключом, объекты и массивы не принимаются.
func PlaceholderDataFromValues(in map[string]any) (certificate.PlaceholderData, error) {
	m := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			m[k] = val
		case json.Number:
			m[k] = val.String()
		case float64:
			m[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			m[k] = strconv.FormatBool(val)
		default:
			return nil, fmt.Errorf("data.%s must be a string", k)
		}
	}
	return PlaceholderDataFromMap(m), nil
}

// PlaceholderDataFromMap принимает ключи записи студента и идентификаторы
// плейсхолдеров. Идентификатор плейсхолдера важнее поля записи.
func PlaceholderDataFromMap(m map[string]string) certificate.PlaceholderData {
	record := certificate.StudentRecord{
		Name:     m["NAME"],
		Subject:  m["SUBJECT"],
		Date:     m["DATE"],
		Duration: m["DURATION"],
		ID:       m["ID"],
	}
	data := certificate.PlaceholderData{}
	for k, v := range record.Placeholders() {
		if v != "" {
			data[k] = v
		}
	}
	for k, v := range m {
		switch k {
		case "NAME", "SUBJECT", "DATE", "DURATION", "ID":
			continue
		}
		data[k] = v
	}
	return data
}
