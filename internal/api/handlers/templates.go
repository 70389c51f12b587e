package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"certificate-service-go/internal/domain/certificate"

	"github.com/gin-gonic/gin"
)

// maxTemplateSize ограничение на размер загружаемого шаблона
const maxTemplateSize = 8 << 20

// TemplateHandler операции с файлами шаблонов. Состояние редактора
// создается на каждый запрос, сервер ничего не хранит.
type TemplateHandler struct{}

func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// Shortcodes словарь плейсхолдеров для кнопок редактора
func (h *TemplateHandler) Shortcodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shortcodes": certificate.Shortcodes})
}

// Default шаблон по умолчанию; параметр lang выбирает язык подписей
func (h *TemplateHandler) Default(c *gin.Context) {
	doc := certificate.DefaultDocument()
	if lang := strings.ToUpper(c.Query("lang")); lang != "" {
		doc.Settings.Language = certificate.Language(lang)
		doc.Content = certificate.DefaultContentFor(doc.Settings.Language)
	}
	h.writeTemplate(c, doc, "")
}

// NormalizeResponse тема после нормализации и результат проверки
type NormalizeResponse struct {
	Theme certificate.Theme `json:"theme"`
	Valid bool              `json:"valid"`
	Error string            `json:"error,omitempty"`
	Field string            `json:"field,omitempty"`
}

// Normalize нормализует присланную тему и проверяет ее
func (h *TemplateHandler) Normalize(c *gin.Context) {
	var theme certificate.Theme
	if err := c.ShouldBindJSON(&theme); err != nil {
		writeError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	resp := NormalizeResponse{Theme: certificate.Normalize(theme), Valid: true}
	if err := certificate.ValidateTheme(resp.Theme); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
		var ve *certificate.ValidationError
		if errors.As(err, &ve) {
			resp.Field = ve.Field
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Import разбирает файл шаблона из тела запроса и возвращает его
// в нормализованном виде
func (h *TemplateHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxTemplateSize))
	if err != nil {
		writeError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	doc, err := certificate.Decode(raw)
	if err != nil {
		writeError(c, err)
		return
	}

	// пустое состояние: незаполненные поля файла не подменяются значениями по умолчанию
	session := new(certificate.SessionState)
	if err := session.ApplyTemplate(doc); err != nil {
		writeError(c, err)
		return
	}
	h.writeTemplate(c, session.Document(), "")
}

// Export собирает шаблон из значений формы настроек
func (h *TemplateHandler) Export(c *gin.Context) {
	var form certificate.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		writeError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	session := certificate.NewSessionState()
	if err := session.ApplyForm(form); err != nil {
		writeError(c, err)
		return
	}
	h.writeTemplate(c, session.Document(), "certificate-template.json")
}

// InsertPlaceholderRequest вставка плейсхолдера в позицию курсора
type InsertPlaceholderRequest struct {
	Content  certificate.Content `json:"content"`
	Position int                 `json:"position"`
	Code     string              `json:"code" binding:"required"`
}

// InsertPlaceholder вставляет [code] в содержимое и возвращает новую позицию курсора
func (h *TemplateHandler) InsertPlaceholder(c *gin.Context) {
	var req InsertPlaceholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	session := certificate.NewSessionState()
	session.SetContent(req.Content)
	cursor := session.InsertPlaceholder(req.Position, req.Code)
	c.JSON(http.StatusOK, gin.H{
		"content": session.Document().Content,
		"cursor":  cursor,
		"known":   certificate.IsKnownPlaceholder(req.Code),
	})
}

func (h *TemplateHandler) writeTemplate(c *gin.Context, doc certificate.Document, attachment string) {
	file, err := certificate.Marshal(doc)
	if err != nil {
		writeError(c, err)
		return
	}
	if attachment != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": attachment}))
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", file)
}
