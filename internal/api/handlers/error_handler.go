package handlers

import (
	"context"
	"errors"
	"net/http"

	"certificate-service-go/internal/domain/certificate"
	"certificate-service-go/internal/domain/render"
	"certificate-service-go/internal/pkg/circuitbreaker"
	"certificate-service-go/internal/pkg/connpool"
	"certificate-service-go/internal/pkg/errortracker"
	"certificate-service-go/internal/pkg/gotenberg"
	"certificate-service-go/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrInvalidRequest тело запроса не разобрано
var ErrInvalidRequest = errors.New("invalid request")

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Field     string `json:"field,omitempty"`
	Key       string `json:"key,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// determineErrorStatus сопоставляет ошибку с HTTP-статусом
func determineErrorStatus(err error) int {
	var decodeErr *certificate.DecodeError
	var validationErr *certificate.ValidationError
	var statusErr *gotenberg.StatusError

	switch {
	case errors.As(err, &decodeErr),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, render.ErrUnsupportedFormat),
		errors.Is(err, render.ErrNoDocument):
		return http.StatusBadRequest
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, connpool.ErrPoolExhausted):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorResponse(ctx context.Context, err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error(), RequestID: logger.RequestID(ctx)}

	var decodeErr *certificate.DecodeError
	var validationErr *certificate.ValidationError
	switch {
	case errors.As(err, &decodeErr):
		resp.Kind = decodeErr.Kind.Error()
		resp.Key = decodeErr.Key
	case errors.As(err, &validationErr):
		resp.Kind = validationErr.Kind.Error()
		resp.Field = validationErr.Field
	}
	return resp
}

// writeError пишет ошибку в ответ. Серверные ошибки логируются как error,
// ошибки клиента как warn.
func writeError(c *gin.Context, err error) {
	status := determineErrorStatus(err)
	log := logger.FromContext(c.Request.Context()).With(
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
		errortracker.TrackError(c.Request.Context(), err,
			errortracker.WithHTTPStatus(status),
			errortracker.WithHTTPPath(c.FullPath()),
		)
	} else {
		log.Warn("request rejected")
	}
	_ = c.Error(err)
	c.JSON(status, errorResponse(c.Request.Context(), err))
}
