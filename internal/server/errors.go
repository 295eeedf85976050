package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/riverfjs/docmark-go"
	"github.com/riverfjs/docmark-go/internal/imageutil"
	"github.com/riverfjs/docmark-go/internal/ocr"
	"github.com/riverfjs/docmark-go/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor 把领域错误映射为 HTTP 状态码
func statusFor(err error) int {
	var apiErr *ocr.APIError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, docmark.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, docmark.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, ocr.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ocr.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, imageutil.ErrInvalidDataURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
