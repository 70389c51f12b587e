package render_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/domain/render"
	"certificate-service-go/internal/domain/render/mocks"
	"certificate-service-go/internal/pkg/cache"
	"certificate-service-go/internal/pkg/gotenberg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func templateFile(t *testing.T) []byte {
	t.Helper()
	raw, err := certificate.Marshal(certificate.DefaultDocument())
	require.NoError(t, err)
	return raw
}

var studentData = certificate.PlaceholderData{
	certificate.PlaceholderName:     "Alice",
	certificate.PlaceholderSubject:  "Go",
	certificate.PlaceholderDate:     "2024-05-01",
	certificate.PlaceholderDuration: "10h",
	certificate.PlaceholderID:       "42",
}

func TestService_RenderPNG(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	stats := mocks.NewMockStatsTracker(ctrl)
	assets := []gotenberg.Asset{{Name: "logo.png", Data: []byte("L")}}

	raster := testPNG(t, 40, 30)
	renderer.EXPECT().
		Screenshot(gomock.Any(), gomock.Any(), assets, gotenberg.ScreenshotOptions{Width: 4492, Height: 3176, Format: "png"}).
		DoAndReturn(func(_ context.Context, page []byte, _ []gotenberg.Asset, _ gotenberg.ScreenshotOptions) ([]byte, error) {
			html := string(page)
			assert.Contains(t, html, "Alice")
			assert.NotContains(t, html, "[certificate-name]")
			assert.Contains(t, html, "transform: scale(4)")
			return raster, nil
		})
	stats.EXPECT().TrackRender("png", "borderWithoutSideImage", gomock.Any(), int64(len(raster)), false)

	svc := render.NewService(renderer, render.Options{Assets: assets, Stats: stats})
	art, err := svc.Render(context.Background(), render.Request{Template: templateFile(t), Data: studentData}, render.FormatPNG)
	require.NoError(t, err)

	assert.Equal(t, render.FormatPNG, art.Format)
	assert.Equal(t, "image/png", art.ContentType)
	assert.Equal(t, "certificate.png", art.FileName)
	assert.Equal(t, raster, art.Data)
	assert.Equal(t, 40, art.Width)
	assert.Equal(t, 30, art.Height)
	assert.False(t, art.Cached)
}

func TestService_RenderJPEGUsesQuality(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	doc := certificate.DefaultDocument()
	doc.Settings.Orientation = certificate.OrientationVertical

	renderer.EXPECT().
		Screenshot(gomock.Any(), gomock.Any(), gomock.Any(), gotenberg.ScreenshotOptions{Width: 1588, Height: 2246, Format: "jpeg", Quality: 80}).
		Return(testPNG(t, 20, 30), nil)

	svc := render.NewService(renderer, render.Options{Scale: 2, JPEGQuality: 80})
	art, err := svc.Render(context.Background(), render.Request{Document: &doc}, "jpg")
	require.NoError(t, err)
	assert.Equal(t, render.FormatJPEG, art.Format)
	assert.Equal(t, 20, art.Width)
}

func TestService_RenderPDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	raster := testPNG(t, 400, 200)
	pdf := []byte("%PDF-1.7")

	gomock.InOrder(
		renderer.EXPECT().
			Screenshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(raster, nil),
		renderer.EXPECT().
			ConvertHTML(gomock.Any(), gomock.Any(), []gotenberg.Asset{{Name: "certificate.png", Data: raster}}, gotenberg.PDFOptions{
				PaperWidth:      11,
				PaperHeight:     8.5,
				PrintBackground: true,
			}).
			DoAndReturn(func(_ context.Context, sheet []byte, _ []gotenberg.Asset, _ gotenberg.PDFOptions) ([]byte, error) {
				assert.Contains(t, string(sheet), "@page { size: 792.00pt 612.00pt; margin: 0; }")
				assert.Contains(t, string(sheet), "top: 108.00pt;")
				return pdf, nil
			}),
	)

	svc := render.NewService(renderer, render.Options{})
	art, err := svc.Render(context.Background(), render.Request{Template: templateFile(t)}, render.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, pdf, art.Data)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.Zero(t, art.Width)
}

func TestService_RenderJSONKeepsPlaceholders(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)

	svc := render.NewService(renderer, render.Options{})
	art, err := svc.Render(context.Background(), render.Request{Template: templateFile(t), Data: studentData}, render.FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "application/json", art.ContentType)
	assert.Contains(t, string(art.Data), "[certificate-name]")
	assert.NotContains(t, string(art.Data), "Alice")

	doc, err := certificate.Decode(art.Data)
	require.NoError(t, err)
	assert.Equal(t, certificate.DefaultDocument().Theme, doc.Theme)
}

func TestService_RenderUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	c := cache.NewCache(time.Minute)
	t.Cleanup(c.Close)

	raster := testPNG(t, 16, 12)
	renderer.EXPECT().Screenshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(raster, nil).Times(1)

	svc := render.NewService(renderer, render.Options{Cache: c})
	req := render.Request{Template: templateFile(t), Data: studentData}

	first, err := svc.Render(context.Background(), req, render.FormatPNG)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Render(context.Background(), req, render.FormatPNG)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, raster, second.Data)
	assert.Equal(t, 16, second.Width)

	// другие данные дают другой ключ
	renderer.EXPECT().Screenshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(raster, nil).Times(1)
	other := render.Request{Template: req.Template, Data: certificate.PlaceholderData{certificate.PlaceholderName: "Bob"}}
	third, err := svc.Render(context.Background(), other, render.FormatPNG)
	require.NoError(t, err)
	assert.False(t, third.Cached)
}

func TestService_RenderErrors(t *testing.T) {
	missingSide := certificate.DefaultDocument()
	missingSide.Theme = certificate.Theme{Name: certificate.ThemeBorderWithSideImage, BorderColor: "#000000"}

	tests := []struct {
		name   string
		req    render.Request
		format render.Format
		target error
	}{
		{
			name:   "side image missing",
			req:    render.Request{Document: &missingSide},
			format: render.FormatPNG,
			target: certificate.ErrRequiredImageMissing,
		},
		{
			name:   "template is not json",
			req:    render.Request{Template: []byte("not json")},
			format: render.FormatPDF,
			target: certificate.ErrMalformedDocument,
		},
		{
			name:   "template without content",
			req:    render.Request{Template: []byte(`{"settings":{},"theme":{}}`)},
			format: render.FormatPDF,
			target: certificate.ErrMissingKey,
		},
		{
			name:   "nothing to render",
			req:    render.Request{},
			format: render.FormatPNG,
			target: render.ErrNoDocument,
		},
		{
			name:   "unsupported format",
			req:    render.Request{Document: &missingSide},
			format: "gif",
			target: render.ErrUnsupportedFormat,
		},
		{
			name:   "empty format",
			req:    render.Request{Template: []byte("{}")},
			format: "",
			target: render.ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			renderer := mocks.NewMockRenderer(ctrl)
			stats := mocks.NewMockStatsTracker(ctrl)
			stats.EXPECT().TrackRender(gomock.Any(), gomock.Any(), gomock.Any(), int64(0), true)

			svc := render.NewService(renderer, render.Options{Stats: stats})
			art, err := svc.Render(context.Background(), tt.req, tt.format)
			assert.Nil(t, art)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestService_RenderRendererFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	upstream := &gotenberg.StatusError{Operation: "screenshot", StatusCode: 503}
	renderer.EXPECT().Screenshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, upstream)

	svc := render.NewService(renderer, render.Options{})
	_, err := svc.Render(context.Background(), render.Request{Template: templateFile(t)}, render.FormatPDF)
	require.Error(t, err)

	var se *gotenberg.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 503, se.StatusCode)
}

func TestService_RenderUnreadableRaster(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	renderer.EXPECT().Screenshot(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("garbage"), nil)

	svc := render.NewService(renderer, render.Options{})
	_, err := svc.Render(context.Background(), render.Request{Template: templateFile(t)}, render.FormatPNG)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable image")
}

func TestService_Preview(t *testing.T) {
	ctrl := gomock.NewController(t)
	renderer := mocks.NewMockRenderer(ctrl)
	svc := render.NewService(renderer, render.Options{})

	p, err := svc.Preview(context.Background(), render.Request{
		Template: templateFile(t),
		Data:     certificate.PlaceholderData{certificate.PlaceholderName: "Alice", certificate.PlaceholderID: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 1123, p.Width)
	assert.Equal(t, 794, p.Height)
	assert.Contains(t, p.HTML, "Alice")
	assert.Contains(t, p.HTML, "transform: scale(1)")
	assert.False(t, strings.Contains(p.HTML, "[certificate-id]"))
	assert.Equal(t, []string{
		certificate.PlaceholderSubject,
		certificate.PlaceholderDate,
		certificate.PlaceholderDuration,
	}, p.Unresolved)
}

func TestService_PreviewInvalidTheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := render.NewService(mocks.NewMockRenderer(ctrl), render.Options{})

	doc := certificate.DefaultDocument()
	doc.Theme.Name = "fancy"
	_, err := svc.Preview(context.Background(), render.Request{Document: &doc})
	assert.ErrorIs(t, err, certificate.ErrUnknownTheme)
}
