package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
	InsightsSvc     InsightsService
	ChatSvc         ChatService
	DocumentSvc     DocumentService
	CalendarSvc     CalendarService
	FundSvc         FundService
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into v. Malformed bodies are reported as
// validation errors so they surface as 400s.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.NewValidationError("request body is required")
		}
		return errs.NewValidationError("invalid request body: " + err.Error())
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.NewValidationError(key + " must be a non-negative integer")
	}
	return n, nil
}
