package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/investor-portal/internal/catalog"
	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/middleware"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/internal/response"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, uid string) ([]models.Widget, error)
	AddWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest) (models.Widget, error)
	UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) (models.Widget, error)
	UpdateLayout(ctx context.Context, uid string, req dto.UpdateLayoutRequest) ([]models.Widget, error)
	DeleteWidget(ctx context.Context, uid, widgetID string) error
	ResetDashboard(ctx context.Context, uid string) ([]models.Widget, error)
	WidgetTypes() []catalog.Entry
}

type InsightsService interface {
	GetInsights(ctx context.Context, uid string) ([]dto.Insight, error)
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
	InsightsSvc     InsightsService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
		InsightsSvc:     deps.InsightsSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Post("/widgets", h.AddWidget)
	r.Put("/widgets/{widgetId}", h.UpdateWidget)
	r.Delete("/widgets/{widgetId}", h.DeleteWidget)
	r.Put("/layout", h.UpdateLayout)
	r.Post("/reset", h.ResetDashboard)
	r.Get("/widget-types", h.GetWidgetTypes)
	r.Get("/insights", h.GetInsights)
	return r
}

func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	widgets, err := h.DashboardSvc.GetDashboard(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.DashboardResponse{Widgets: widgets})
}

func (h *dashboardHandlers) AddWidget(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateWidgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.AddWidget(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, widget)
}

func (h *dashboardHandlers) UpdateWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	var req dto.UpdateWidgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widget, err := h.DashboardSvc.UpdateWidget(r.Context(), uid, widgetID, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, widget)
}

func (h *dashboardHandlers) UpdateLayout(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateLayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	widgets, err := h.DashboardSvc.UpdateLayout(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.DashboardResponse{Widgets: widgets})
}

func (h *dashboardHandlers) DeleteWidget(w http.ResponseWriter, r *http.Request) {
	widgetID := chi.URLParam(r, "widgetId")
	uid := middleware.UID(r.Context())
	if err := h.DashboardSvc.DeleteWidget(r.Context(), uid, widgetID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *dashboardHandlers) ResetDashboard(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	widgets, err := h.DashboardSvc.ResetDashboard(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.DashboardResponse{Widgets: widgets})
}

// GetWidgetTypes returns the widget catalog that backs the "Add Widget" picker.
func (h *dashboardHandlers) GetWidgetTypes(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.DashboardSvc.WidgetTypes())
}

func (h *dashboardHandlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	insights, err := h.InsightsSvc.GetInsights(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, insights)
}
