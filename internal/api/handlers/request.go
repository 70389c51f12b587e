package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/domain/render"

	"github.com/gin-gonic/gin"
)

// CertificateRequest тело запросов preview и render.
// template принимается как объект шаблона или как строка с его содержимым;
// без template используется шаблон по умолчанию.
type CertificateRequest struct {
	Template json.RawMessage `json:"template"`
	Data     map[string]any  `json:"data"`
	Filename string          `json:"filename"`
}

func bindCertificateRequest(c *gin.Context) (CertificateRequest, error) {
	var req CertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return req, nil
}

// renderRequest переводит тело запроса в запрос сервиса отрисовки
func (r CertificateRequest) renderRequest() (render.Request, error) {
	data, err := placeholderData(r.Data)
	if err != nil {
		return render.Request{}, err
	}
	out := render.Request{Data: data}

	raw := bytes.TrimSpace(r.Template)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		doc := certificate.DefaultDocument()
		out.Document = &doc
	case raw[0] == '"':
		var file string
		if err := json.Unmarshal(raw, &file); err != nil {
			return render.Request{}, fmt.Errorf("%w: template: %v", ErrInvalidRequest, err)
		}
		out.Template = []byte(file)
	default:
		out.Template = raw
	}
	return out, nil
}

// placeholderData приводит значения к строкам. null считается отсутствующим ключом.
func placeholderData(in map[string]any) (certificate.PlaceholderData, error) {
	data, err := render.PlaceholderDataFromValues(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return data, nil
}
