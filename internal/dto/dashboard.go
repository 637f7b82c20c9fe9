package dto

import (
	"github.com/GregMSThompson/investor-portal/internal/models"
)

// --- Request types ---

// CreateWidgetRequest is sent by the "Add Widget" picker. Only Type is required; the rest
// falls back to the catalog defaults.
type CreateWidgetRequest struct {
	Type                models.WidgetType          `json:"type"`
	Title               string                     `json:"title,omitempty"`
	W                   int                        `json:"w,omitempty"`
	H                   int                        `json:"h,omitempty"`
	VisualizationFormat models.VisualizationFormat `json:"visualizationFormat,omitempty"`
}

type UpdateWidgetRequest struct {
	models.WidgetPatch
}

type LayoutItem struct {
	WidgetID string `json:"widgetId"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	W        int    `json:"w"`
	H        int    `json:"h"`
}

// UpdateLayoutRequest carries drag/resize results for any number of widgets.
type UpdateLayoutRequest struct {
	Items []LayoutItem `json:"items"`
}

// --- Response types ---

type DashboardResponse struct {
	Widgets []models.Widget `json:"widgets"`
}
