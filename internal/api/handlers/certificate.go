package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/domain/render"

	"github.com/gin-gonic/gin"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// CertificateHandler отрисовка и предпросмотр сертификатов
type CertificateHandler struct {
	service render.Service
}

func NewCertificateHandler(service render.Service) *CertificateHandler {
	return &CertificateHandler{service: service}
}

// PreviewResponse ответ предпросмотра
type PreviewResponse struct {
	Template   json.RawMessage `json:"template"`
	HTML       string          `json:"html"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Unresolved []string        `json:"unresolved"`
}

// Preview подставляет данные в шаблон и возвращает HTML страницы
func (h *CertificateHandler) Preview(c *gin.Context) {
	body, err := bindCertificateRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}
	req, err := body.renderRequest()
	if err != nil {
		writeError(c, err)
		return
	}

	p, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	file, err := certificate.Marshal(p.Document)
	if err != nil {
		writeError(c, err)
		return
	}

	unresolved := p.Unresolved
	if unresolved == nil {
		unresolved = []string{}
	}
	c.JSON(http.StatusOK, PreviewResponse{
		Template:   file,
		HTML:       p.HTML,
		Width:      p.Width,
		Height:     p.Height,
		Unresolved: unresolved,
	})
}

// Render отдает файл сертификата; формат берется из параметра format
func (h *CertificateHandler) Render(c *gin.Context) {
	format, err := render.ParseFormat(c.Query("format"))
	if err != nil {
		writeError(c, err)
		return
	}
	body, err := bindCertificateRequest(c)
	if err != nil {
		writeError(c, err)
		return
	}
	req, err := body.renderRequest()
	if err != nil {
		writeError(c, err)
		return
	}

	art, err := h.service.Render(c.Request.Context(), req, format)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": downloadName(body.Filename, art),
	}))
	c.Header("X-Render-Cached", strconv.FormatBool(art.Cached))
	if art.Width > 0 {
		c.Header("X-Certificate-Width", strconv.Itoa(art.Width))
		c.Header("X-Certificate-Height", strconv.Itoa(art.Height))
	}
	c.Data(http.StatusOK, art.ContentType, art.Data)
}

// downloadName имя файла для скачивания: имя из запроса без пути и
// расширения плюс расширение формата
func downloadName(requested string, art *render.Artifact) string {
	name := filepath.Base(strings.ReplaceAll(requested, `\`, "/"))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return art.FileName
	}
	return name + filepath.Ext(art.FileName)
}
