package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/registry"
	"github.com/GregMSThompson/investor-portal/pkg/helpers"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

func newTestHandler() *responseHandler {
	return New(slog.New(logger.NewTestHandler(slog.LevelInfo)))
}

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", errs.NewNotFoundError("widget not found"), http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("delete: %w", errs.NewNotFoundError("widget not found")), http.StatusNotFound, "not_found"},
		{"already exists", errs.NewAlreadyExistsError("exists"), http.StatusConflict, "already_exists"},
		{"validation", errs.NewValidationError("bad"), http.StatusBadRequest, "invalid_input"},
		{"database", errs.NewDatabaseError("read", "failed", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		{"registry closed", registry.ErrClosed, http.StatusServiceUnavailable, "service_unavailable"},
		{"cancelled", context.Canceled, http.StatusRequestTimeout, "request_timeout"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(helpers.TestCtx())
			rr := httptest.NewRecorder()
			newTestHandler().HandleError(rr, req, tt.err)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Fatalf("code: got %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteSuccess_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	newTestHandler().WriteSuccess(rr, req, http.StatusCreated, map[string]string{"id": "w1"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data["id"] != "w1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}
