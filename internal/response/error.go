package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/registry"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *responseHandler) WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Code:    code,
		Message: message,
	}); err != nil {
		// Use context logger if encoding fails
		log := logger.FromContext(r.Context())
		log.Error("failed to encode error response", "error", err, "status", status, "code", code)
	}
}

func (h *responseHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var (
		notFound   *errs.NotFoundError
		exists     *errs.AlreadyExistsError
		validation *errs.ValidationError
		database   *errs.DatabaseError
	)

	switch {
	case errors.As(err, &notFound):
		log.Warn("resource not found", "error", notFound.Message)
		h.WriteError(w, r, http.StatusNotFound, "not_found", notFound.Message)

	case errors.As(err, &exists):
		log.Warn("resource already exists", "error", exists.Message)
		h.WriteError(w, r, http.StatusConflict, "already_exists", exists.Message)

	case errors.As(err, &validation):
		log.Warn("validation failed", "error", validation.Message)
		h.WriteError(w, r, http.StatusBadRequest, "invalid_input", validation.Message)

	case errors.As(err, &database):
		log.Error("database error",
			"operation", database.Operation,
			"error", database.Message,
			"cause", database.Err)
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An error occurred")

	case errors.Is(err, registry.ErrClosed):
		log.Warn("dashboard registry unavailable")
		h.WriteError(w, r, http.StatusServiceUnavailable, "service_unavailable",
			"Service temporarily unavailable")

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Info("request ended before completion", "error", err)
		h.WriteError(w, r, http.StatusRequestTimeout, "request_timeout",
			"The request was cancelled")

	default:
		log.Error("unexpected error",
			"error", err,
			"type", fmt.Sprintf("%T", err))
		h.WriteError(w, r, http.StatusInternalServerError, "internal_error",
			"An unexpected error occurred")
	}
}
