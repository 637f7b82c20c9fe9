package services

import (
	"context"
	"errors"
	"testing"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/internal/registry"
	"github.com/GregMSThompson/investor-portal/pkg/helpers"
)

// --- Fakes ---

type fakeRegistry struct {
	widgets     []models.Widget
	nextID      int
	listErr     error
	addErr      error
	applyErr    error
	lastAdded   models.Widget
	lastLayout  []dto.LayoutItem
	lastPatch   models.WidgetPatch
	applied     []dto.WidgetAction
	resetCalled bool
}

func (f *fakeRegistry) index(id string) int {
	for i, w := range f.widgets {
		if w.WidgetID == id {
			return i
		}
	}
	return -1
}

func (f *fakeRegistry) List(_ context.Context, _ string) ([]models.Widget, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Widget, len(f.widgets))
	copy(out, f.widgets)
	return out, nil
}

func (f *fakeRegistry) Get(_ context.Context, _, widgetID string) (models.Widget, bool, error) {
	if i := f.index(widgetID); i >= 0 {
		return f.widgets[i], true, nil
	}
	return models.Widget{}, false, nil
}

func (f *fakeRegistry) Add(_ context.Context, _ string, w models.Widget) (models.Widget, error) {
	if f.addErr != nil {
		return models.Widget{}, f.addErr
	}
	f.nextID++
	w.WidgetID = "w-" + string(rune('0'+f.nextID))
	f.lastAdded = w
	f.widgets = append(f.widgets, w)
	return w, nil
}

func (f *fakeRegistry) Update(_ context.Context, _, widgetID string, patch models.WidgetPatch) (models.Widget, bool, error) {
	f.lastPatch = patch
	i := f.index(widgetID)
	if i < 0 {
		return models.Widget{}, false, nil
	}
	patch.Apply(&f.widgets[i])
	return f.widgets[i], true, nil
}

func (f *fakeRegistry) Remove(_ context.Context, _, widgetID string) (bool, error) {
	i := f.index(widgetID)
	if i < 0 {
		return false, nil
	}
	f.widgets = append(f.widgets[:i], f.widgets[i+1:]...)
	return true, nil
}

func (f *fakeRegistry) UpdateLayout(_ context.Context, _ string, items []dto.LayoutItem) ([]models.Widget, error) {
	f.lastLayout = items
	return f.widgets, nil
}

func (f *fakeRegistry) Reset(_ context.Context, _ string) ([]models.Widget, error) {
	f.resetCalled = true
	f.widgets = nil
	return f.widgets, nil
}

func (f *fakeRegistry) Apply(_ context.Context, _ string, action dto.WidgetAction) (registry.Outcome, error) {
	if f.applyErr != nil {
		return registry.Outcome{}, f.applyErr
	}
	f.applied = append(f.applied, action)
	switch action.Type {
	case dto.ActionAdd:
		w := *action.Widget
		f.nextID++
		w.WidgetID = "w-" + string(rune('0'+f.nextID))
		f.widgets = append(f.widgets, w)
		return registry.Outcome{Widget: w, Changed: true}, nil
	case dto.ActionRemove:
		i := f.index(action.WidgetID)
		if i < 0 {
			return registry.Outcome{}, nil
		}
		w := f.widgets[i]
		f.widgets = append(f.widgets[:i], f.widgets[i+1:]...)
		return registry.Outcome{Widget: w, Changed: true}, nil
	default:
		i := f.index(action.WidgetID)
		if i < 0 {
			return registry.Outcome{}, nil
		}
		if action.Patch != nil {
			action.Patch.Apply(&f.widgets[i])
		}
		return registry.Outcome{Widget: f.widgets[i], Changed: true}, nil
	}
}

type fakeTemplates struct{}

func (fakeTemplates) Template(t models.WidgetType) map[string]any {
	return map[string]any{"template": string(t)}
}

func isValidation(err error) bool {
	var v *errs.ValidationError
	return errors.As(err, &v)
}

func isNotFound(err error) bool {
	var nf *errs.NotFoundError
	return errors.As(err, &nf)
}

// --- AddWidget ---

func TestAddWidget_AppliesCatalogDefaults(t *testing.T) {
	reg := &fakeRegistry{}
	svc := NewDashboardService(reg, fakeTemplates{})

	w, err := svc.AddWidget(helpers.TestCtx(), "u1", dto.CreateWidgetRequest{Type: models.WidgetMarketTrends})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.WidgetID == "" {
		t.Fatalf("expected id from registry")
	}
	if w.Title != "Market Trends" || w.W != 6 || w.H != 4 || w.VisualizationFormat != models.FormatBarChart {
		t.Fatalf("expected catalog defaults, got %+v", w)
	}
	if w.Data["template"] != "market-trends" {
		t.Fatalf("expected template payload, got %v", w.Data)
	}
}

func TestAddWidget_KeepsRequestedValues(t *testing.T) {
	reg := &fakeRegistry{}
	svc := NewDashboardService(reg, fakeTemplates{})

	w, err := svc.AddWidget(helpers.TestCtx(), "u1", dto.CreateWidgetRequest{
		Type:                models.WidgetCashFlow,
		Title:               "Quarterly Cash",
		W:                   12,
		H:                   2,
		VisualizationFormat: models.FormatAreaChart,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Title != "Quarterly Cash" || w.W != 12 || w.H != 2 || w.VisualizationFormat != models.FormatAreaChart {
		t.Fatalf("expected requested values, got %+v", w)
	}
}

func TestAddWidget_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateWidgetRequest
	}{
		{"unknown type", dto.CreateWidgetRequest{Type: "stock-ticker"}},
		{"incompatible format", dto.CreateWidgetRequest{Type: models.WidgetAssetAllocation, VisualizationFormat: models.FormatLineChart}},
		{"too wide", dto.CreateWidgetRequest{Type: models.WidgetNewsFeed, W: 13}},
		{"negative height", dto.CreateWidgetRequest{Type: models.WidgetNewsFeed, H: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &fakeRegistry{}
			svc := NewDashboardService(reg, fakeTemplates{})
			_, err := svc.AddWidget(helpers.TestCtx(), "u1", tt.req)
			if !isValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(reg.widgets) != 0 {
				t.Fatalf("registry must not change on invalid input")
			}
		})
	}
}

func TestAddWidget_RegistryError(t *testing.T) {
	reg := &fakeRegistry{addErr: errs.NewDatabaseError("create", "failed", errors.New("boom"))}
	svc := NewDashboardService(reg, fakeTemplates{})

	_, err := svc.AddWidget(helpers.TestCtx(), "u1", dto.CreateWidgetRequest{Type: models.WidgetNewsFeed})
	var dbErr *errs.DatabaseError
	if !errors.As(err, &dbErr) {
		t.Fatalf("expected database error, got %v", err)
	}
}

// --- UpdateWidget ---

func seededRegistry() *fakeRegistry {
	return &fakeRegistry{widgets: []models.Widget{
		{WidgetID: "allocation-1", Type: models.WidgetAssetAllocation, Title: "Asset Allocation", X: 0, Y: 4, W: 4, H: 3, VisualizationFormat: models.FormatPieChart},
		{WidgetID: "transactions-1", Type: models.WidgetRecentTransactions, Title: "Recent Transactions", X: 4, Y: 4, W: 8, H: 3, VisualizationFormat: models.FormatTable},
	}}
}

func TestUpdateWidget(t *testing.T) {
	reg := seededRegistry()
	svc := NewDashboardService(reg, fakeTemplates{})

	format := models.FormatDonutChart
	w, err := svc.UpdateWidget(helpers.TestCtx(), "u1", "allocation-1", dto.UpdateWidgetRequest{
		WidgetPatch: models.WidgetPatch{Title: helpers.Ptr("Mix"), VisualizationFormat: &format},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Title != "Mix" || w.VisualizationFormat != models.FormatDonutChart {
		t.Fatalf("expected merged widget, got %+v", w)
	}
}

func TestUpdateWidget_Validation(t *testing.T) {
	line := models.FormatLineChart
	tests := []struct {
		name  string
		patch models.WidgetPatch
	}{
		{"incompatible format", models.WidgetPatch{VisualizationFormat: &line}},
		{"past last column", models.WidgetPatch{X: helpers.Ptr(10)}},
		{"zero width", models.WidgetPatch{W: helpers.Ptr(0)}},
		{"negative y", models.WidgetPatch{Y: helpers.Ptr(-1)}},
		{"empty title", models.WidgetPatch{Title: helpers.Ptr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := seededRegistry()
			svc := NewDashboardService(reg, fakeTemplates{})
			_, err := svc.UpdateWidget(helpers.TestCtx(), "u1", "allocation-1", dto.UpdateWidgetRequest{WidgetPatch: tt.patch})
			if !isValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if reg.widgets[0].VisualizationFormat != models.FormatPieChart || reg.widgets[0].X != 0 {
				t.Fatalf("widget must not change on invalid input: %+v", reg.widgets[0])
			}
		})
	}
}

func TestUpdateWidget_NotFound(t *testing.T) {
	svc := NewDashboardService(seededRegistry(), fakeTemplates{})
	_, err := svc.UpdateWidget(helpers.TestCtx(), "u1", "missing", dto.UpdateWidgetRequest{})
	if !isNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// --- Layout, delete, reset ---

func TestUpdateLayout(t *testing.T) {
	reg := seededRegistry()
	svc := NewDashboardService(reg, fakeTemplates{})

	// overlapping rectangles are accepted as arranged
	items := []dto.LayoutItem{
		{WidgetID: "allocation-1", X: 0, Y: 0, W: 6, H: 3},
		{WidgetID: "transactions-1", X: 3, Y: 0, W: 6, H: 3},
	}
	if _, err := svc.UpdateLayout(helpers.TestCtx(), "u1", dto.UpdateLayoutRequest{Items: items}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.lastLayout) != 2 {
		t.Fatalf("expected layout forwarded, got %+v", reg.lastLayout)
	}
}

func TestUpdateLayout_Validation(t *testing.T) {
	tests := []struct {
		name  string
		items []dto.LayoutItem
	}{
		{"empty", nil},
		{"missing id", []dto.LayoutItem{{W: 2, H: 2}}},
		{"duplicate id", []dto.LayoutItem{{WidgetID: "a", W: 2, H: 2}, {WidgetID: "a", W: 2, H: 2}}},
		{"off grid", []dto.LayoutItem{{WidgetID: "a", X: 8, W: 6, H: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := seededRegistry()
			svc := NewDashboardService(reg, fakeTemplates{})
			_, err := svc.UpdateLayout(helpers.TestCtx(), "u1", dto.UpdateLayoutRequest{Items: tt.items})
			if !isValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if reg.lastLayout != nil {
				t.Fatalf("registry must not be called")
			}
		})
	}
}

func TestDeleteWidget(t *testing.T) {
	reg := seededRegistry()
	svc := NewDashboardService(reg, fakeTemplates{})

	if err := svc.DeleteWidget(helpers.TestCtx(), "u1", "allocation-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg.widgets) != 1 {
		t.Fatalf("expected widget removed")
	}
	if err := svc.DeleteWidget(helpers.TestCtx(), "u1", "allocation-1"); !isNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestResetDashboard(t *testing.T) {
	reg := seededRegistry()
	svc := NewDashboardService(reg, fakeTemplates{})

	if _, err := svc.ResetDashboard(helpers.TestCtx(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reg.resetCalled {
		t.Fatalf("expected registry reset")
	}
}

func TestWidgetTypes(t *testing.T) {
	svc := NewDashboardService(&fakeRegistry{}, fakeTemplates{})
	types := svc.WidgetTypes()
	if len(types) != len(models.WidgetTypes) {
		t.Fatalf("expected %d catalog entries, got %d", len(models.WidgetTypes), len(types))
	}
}
