package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/internal/response"
)

// The library routes serve read-only portal content: documents, calendar events and funds.

type DocumentService interface {
	List(ctx context.Context, filter dto.DocumentFilter) []models.Document
	Search(ctx context.Context, query string) ([]dto.DocumentSearchResult, error)
}

type CalendarService interface {
	Upcoming(ctx context.Context, limit int) []models.CalendarEvent
	Search(ctx context.Context, query string) ([]models.CalendarEvent, error)
}

type FundService interface {
	List(ctx context.Context) []models.Fund
	Get(ctx context.Context, fundID string) (models.Fund, error)
}

type libraryHandlers struct {
	ResponseHandler response.ResponseHandler
	DocumentSvc     DocumentService
	CalendarSvc     CalendarService
	FundSvc         FundService
}

func NewLibraryHandlers(deps *Deps) *libraryHandlers {
	return &libraryHandlers{
		ResponseHandler: deps.ResponseHandler,
		DocumentSvc:     deps.DocumentSvc,
		CalendarSvc:     deps.CalendarSvc,
		FundSvc:         deps.FundSvc,
	}
}

func (h *libraryHandlers) DocumentRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListDocuments)
	r.Get("/search", h.SearchDocuments)
	return r
}

func (h *libraryHandlers) CalendarRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/events/upcoming", h.UpcomingEvents)
	r.Get("/events/search", h.SearchEvents)
	return r
}

func (h *libraryHandlers) FundRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListFunds)
	r.Get("/{fundId}", h.GetFund)
	return r
}

func (h *libraryHandlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	docs := h.DocumentSvc.List(r.Context(), dto.DocumentFilter{
		Category: q.Get("category"),
		Type:     q.Get("type"),
	})
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, docs)
}

func (h *libraryHandlers) SearchDocuments(w http.ResponseWriter, r *http.Request) {
	results, err := h.DocumentSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, results)
}

func (h *libraryHandlers) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.CalendarSvc.Upcoming(r.Context(), limit))
}

func (h *libraryHandlers) SearchEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.CalendarSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, events)
}

func (h *libraryHandlers) ListFunds(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.FundSvc.List(r.Context()))
}

func (h *libraryHandlers) GetFund(w http.ResponseWriter, r *http.Request) {
	fund, err := h.FundSvc.Get(r.Context(), chi.URLParam(r, "fundId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, fund)
}
