package services

import (
	"context"
	"fmt"

	"github.com/GregMSThompson/investor-portal/internal/catalog"
	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/internal/registry"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

// widgetRegistry is the single-writer owner of every dashboard.
type widgetRegistry interface {
	List(ctx context.Context, uid string) ([]models.Widget, error)
	Get(ctx context.Context, uid, widgetID string) (models.Widget, bool, error)
	Add(ctx context.Context, uid string, w models.Widget) (models.Widget, error)
	Update(ctx context.Context, uid, widgetID string, patch models.WidgetPatch) (models.Widget, bool, error)
	Remove(ctx context.Context, uid, widgetID string) (bool, error)
	UpdateLayout(ctx context.Context, uid string, items []dto.LayoutItem) ([]models.Widget, error)
	Reset(ctx context.Context, uid string) ([]models.Widget, error)
	Apply(ctx context.Context, uid string, action dto.WidgetAction) (registry.Outcome, error)
}

// templateSource supplies the starter payload of a new widget.
type templateSource interface {
	Template(t models.WidgetType) map[string]any
}

type dashboardService struct {
	registry  widgetRegistry
	templates templateSource
}

func NewDashboardService(reg widgetRegistry, templates templateSource) *dashboardService {
	return &dashboardService{registry: reg, templates: templates}
}

// --- Public service methods ---

func (s *dashboardService) GetDashboard(ctx context.Context, uid string) ([]models.Widget, error) {
	return s.registry.List(ctx, uid)
}

func (s *dashboardService) WidgetTypes() []catalog.Entry {
	return catalog.All()
}

// AddWidget creates a widget from the picker. Missing size, title and format
// come from the catalog; the payload comes from the type's template.
func (s *dashboardService) AddWidget(ctx context.Context, uid string, req dto.CreateWidgetRequest) (models.Widget, error) {
	entry, ok := catalog.Lookup(req.Type)
	if !ok {
		return models.Widget{}, errs.NewValidationError("unknown widget type: " + string(req.Type))
	}
	w := models.Widget{
		Type:                req.Type,
		Title:               req.Title,
		W:                   req.W,
		H:                   req.H,
		VisualizationFormat: req.VisualizationFormat,
		Data:                s.templates.Template(req.Type),
	}
	if w.Title == "" {
		w.Title = entry.Title
	}
	if w.W == 0 {
		w.W = entry.W
	}
	if w.H == 0 {
		w.H = entry.H
	}
	if w.VisualizationFormat == "" {
		w.VisualizationFormat = entry.DefaultFormat
	}
	if err := validateSize(w.W, w.H); err != nil {
		return models.Widget{}, err
	}
	if err := validateFormat(w.Type, w.VisualizationFormat); err != nil {
		return models.Widget{}, err
	}

	added, err := s.registry.Add(ctx, uid, w)
	if err != nil {
		return models.Widget{}, err
	}
	logger.FromContext(ctx).Info("widget added", "widget_id", added.WidgetID, "type", added.Type)
	return added, nil
}

// UpdateWidget merges a partial update after checking that the merged widget
// still fits the grid and renders in a compatible format.
func (s *dashboardService) UpdateWidget(ctx context.Context, uid, widgetID string, req dto.UpdateWidgetRequest) (models.Widget, error) {
	current, found, err := s.registry.Get(ctx, uid, widgetID)
	if err != nil {
		return models.Widget{}, err
	}
	if !found {
		return models.Widget{}, errs.NewNotFoundError("widget not found")
	}

	merged := current
	req.WidgetPatch.Apply(&merged)
	if req.Title != nil && *req.Title == "" {
		return models.Widget{}, errs.NewValidationError("title must not be empty")
	}
	if err := validateRect(merged.X, merged.Y, merged.W, merged.H); err != nil {
		return models.Widget{}, err
	}
	if req.VisualizationFormat != nil {
		if err := validateFormat(merged.Type, merged.VisualizationFormat); err != nil {
			return models.Widget{}, err
		}
	}

	updated, found, err := s.registry.Update(ctx, uid, widgetID, req.WidgetPatch)
	if err != nil {
		return models.Widget{}, err
	}
	if !found {
		return models.Widget{}, errs.NewNotFoundError("widget not found")
	}
	return updated, nil
}

// UpdateLayout stores drag/resize results. Each rectangle must lie on the
// grid; overlap between widgets is allowed.
func (s *dashboardService) UpdateLayout(ctx context.Context, uid string, req dto.UpdateLayoutRequest) ([]models.Widget, error) {
	if len(req.Items) == 0 {
		return nil, errs.NewValidationError("items must not be empty")
	}
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if item.WidgetID == "" {
			return nil, errs.NewValidationError("widgetId is required")
		}
		if seen[item.WidgetID] {
			return nil, errs.NewValidationError("duplicate widgetId: " + item.WidgetID)
		}
		seen[item.WidgetID] = true
		if err := validateRect(item.X, item.Y, item.W, item.H); err != nil {
			return nil, err
		}
	}
	return s.registry.UpdateLayout(ctx, uid, req.Items)
}

func (s *dashboardService) DeleteWidget(ctx context.Context, uid, widgetID string) error {
	found, err := s.registry.Remove(ctx, uid, widgetID)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewNotFoundError("widget not found")
	}
	return nil
}

func (s *dashboardService) ResetDashboard(ctx context.Context, uid string) ([]models.Widget, error) {
	widgets, err := s.registry.Reset(ctx, uid)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("dashboard reset", "widgets", len(widgets))
	return widgets, nil
}

// --- Validation ---

func validateSize(w, h int) error {
	if w < 1 || w > registry.GridColumns {
		return errs.NewValidationError(fmt.Sprintf("w must be between 1 and %d", registry.GridColumns))
	}
	if h < 1 {
		return errs.NewValidationError("h must be at least 1")
	}
	return nil
}

func validateRect(x, y, w, h int) error {
	if err := validateSize(w, h); err != nil {
		return err
	}
	if x < 0 || y < 0 {
		return errs.NewValidationError("x and y must not be negative")
	}
	if x+w > registry.GridColumns {
		return errs.NewValidationError(fmt.Sprintf("widget extends past column %d", registry.GridColumns))
	}
	return nil
}

func validateFormat(t models.WidgetType, f models.VisualizationFormat) error {
	if catalog.IsCompatible(t, f) {
		return nil
	}
	return errs.NewValidationError(fmt.Sprintf("visualization format %q is not valid for widget type %q (use one of: %s)", f, t, catalog.FormatList(t)))
}
