package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// PageResponse is the envelope of paged lists.
type PageResponse[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NewPage builds a PageResponse, mapping items with fn.
func NewPage[S, T any](items []S, params PageParams, total int64, fn func(S) T) PageResponse[T] {
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return PageResponse[T]{Items: out, Page: params.Page, Limit: params.Limit, Total: total}
}

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Warn("encode response", zap.Error(err))
	}
}

// WriteMessage writes {"error": message} with status.
func WriteMessage(logger *zap.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, ErrorResponse{Error: message})
}

// WriteError maps err to a status and a safe message. Unexpected errors are
// logged and reported as 500 without detail.
func WriteError(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *domain.ValidationError
		fields     *FieldErrors
	)
	switch {
	case errors.As(err, &fields):
		WriteJSON(logger, w, http.StatusBadRequest, ErrorResponse{Error: "request validation failed", Fields: fields.Fields})
	case errors.As(err, &validation):
		resp := ErrorResponse{Error: validation.Error()}
		if validation.Field != "" {
			resp.Fields = map[string]string{validation.Field: validation.Message}
		}
		WriteJSON(logger, w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrUnauthorized):
		WriteMessage(logger, w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		WriteMessage(logger, w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		WriteMessage(logger, w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrCapacityExceeded):
		WriteMessage(logger, w, http.StatusConflict, domain.ErrCapacityExceeded.Error())
	case errors.Is(err, domain.ErrConflict):
		WriteMessage(logger, w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrInvalidTransition):
		WriteMessage(logger, w, http.StatusUnprocessableEntity, domain.ErrInvalidTransition.Error())
	default:
		if logger != nil {
			logger.Error("request failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err))
		}
		WriteMessage(logger, w, http.StatusInternalServerError, "internal server error")
	}
}
