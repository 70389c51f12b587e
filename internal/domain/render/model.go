package render

import (
	"errors"
	"fmt"
	"strings"

	"certificate-service-go/internal/domain/certificate"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNoDocument        = errors.New("request carries neither a template file nor a document")
)

// Format формат экспорта
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatJSON Format = "json"
)

// Formats все поддерживаемые форматы
var Formats = []Format{FormatPDF, FormatPNG, FormatJPEG, FormatJSON}

// ParseFormat разбирает формат без учета регистра; jpg считается jpeg
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatPNG, FormatJPEG, FormatJSON:
		return f, nil
	case "jpg":
		return FormatJPEG, nil
	case "":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// FileName предлагаемое имя файла
func (f Format) FileName() string {
	return "certificate." + string(f)
}

// Request что отрисовать и чем заполнить.
// Template имеет приоритет над Document.
type Request struct {
	Template []byte
	Document *certificate.Document
	Data     certificate.PlaceholderData
}

// Preview документ после подстановки и HTML-страница сертификата
type Preview struct {
	Document   certificate.Document
	HTML       string
	Width      int
	Height     int
	Unresolved []string
}

// Artifact готовый файл
type Artifact struct {
	Format      Format
	ContentType string
	FileName    string
	Data        []byte
	// Width и Height размер растра в пикселях; для json нули
	Width  int
	Height int
	Cached bool
}
