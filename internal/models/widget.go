package models

import (
	"time"

	"github.com/GregMSThompson/investor-portal/pkg/helpers"
)

type WidgetType string

const (
	WidgetPortfolioOverview  WidgetType = "portfolio-overview"
	WidgetPerformanceChart   WidgetType = "performance-chart"
	WidgetAssetAllocation    WidgetType = "asset-allocation"
	WidgetRecentTransactions WidgetType = "recent-transactions"
	WidgetNewsFeed           WidgetType = "news-feed"
	WidgetMarketTrends       WidgetType = "market-trends"
	WidgetRiskAnalysis       WidgetType = "risk-analysis"
	WidgetCashFlow           WidgetType = "cash-flow"
	WidgetUpcomingEvents     WidgetType = "upcoming-events"
)

// WidgetTypes lists every widget type in catalog order.
var WidgetTypes = []WidgetType{
	WidgetPortfolioOverview,
	WidgetPerformanceChart,
	WidgetAssetAllocation,
	WidgetRecentTransactions,
	WidgetNewsFeed,
	WidgetMarketTrends,
	WidgetRiskAnalysis,
	WidgetCashFlow,
	WidgetUpcomingEvents,
}

type VisualizationFormat string

const (
	FormatBarChart   VisualizationFormat = "bar-chart"
	FormatLineChart  VisualizationFormat = "line-chart"
	FormatPieChart   VisualizationFormat = "pie-chart"
	FormatDonutChart VisualizationFormat = "donut-chart"
	FormatAreaChart  VisualizationFormat = "area-chart"
	FormatTable      VisualizationFormat = "table"
	FormatCards      VisualizationFormat = "cards"
	FormatList       VisualizationFormat = "list"
)

// Widget is a positioned panel on a user's 12-column dashboard grid.
type Widget struct {
	WidgetID            string              `firestore:"widgetId" json:"id"`
	Type                WidgetType          `firestore:"type" json:"type"`
	Title               string              `firestore:"title" json:"title"`
	X                   int                 `firestore:"x" json:"x"`
	Y                   int                 `firestore:"y" json:"y"`
	W                   int                 `firestore:"w" json:"w"`
	H                   int                 `firestore:"h" json:"h"`
	VisualizationFormat VisualizationFormat `firestore:"visualizationFormat,omitempty" json:"visualizationFormat,omitempty"`
	FormatOptions       *FormatOptions      `firestore:"formatOptions,omitempty" json:"customFormatOptions,omitempty"`
	Data                map[string]any      `firestore:"data,omitempty" json:"data,omitempty"`
	Position            int                 `firestore:"position" json:"-"` // registry order
	CreatedAt           time.Time           `firestore:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `firestore:"updatedAt" json:"updatedAt"`
}

type FormatOptions struct {
	ShowLegend  *bool    `firestore:"showLegend,omitempty" json:"showLegend,omitempty"`
	Colors      []string `firestore:"colors,omitempty" json:"colors,omitempty"`
	ShowLabels  *bool    `firestore:"showLabels,omitempty" json:"showLabels,omitempty"`
	CompactView *bool    `firestore:"compactView,omitempty" json:"compactView,omitempty"`
	ShowTrends  *bool    `firestore:"showTrends,omitempty" json:"showTrends,omitempty"`
}

// WidgetPatch carries a partial widget update. Nil fields are left untouched.
type WidgetPatch struct {
	Title               *string              `json:"title,omitempty"`
	X                   *int                 `json:"x,omitempty"`
	Y                   *int                 `json:"y,omitempty"`
	W                   *int                 `json:"w,omitempty"`
	H                   *int                 `json:"h,omitempty"`
	VisualizationFormat *VisualizationFormat `json:"visualizationFormat,omitempty"`
	FormatOptions       *FormatOptions       `json:"customFormatOptions,omitempty"`
	Data                map[string]any       `json:"data,omitempty"`
}

// Apply merges the patch into w.
func (p WidgetPatch) Apply(w *Widget) {
	w.Title = helpers.ValueOr(p.Title, w.Title)
	w.X = helpers.ValueOr(p.X, w.X)
	w.Y = helpers.ValueOr(p.Y, w.Y)
	w.W = helpers.ValueOr(p.W, w.W)
	w.H = helpers.ValueOr(p.H, w.H)
	w.VisualizationFormat = helpers.ValueOr(p.VisualizationFormat, w.VisualizationFormat)
	if p.FormatOptions != nil {
		w.FormatOptions = p.FormatOptions
	}
	if p.Data != nil {
		w.Data = p.Data
	}
}

// Clone returns a copy that does not share the top-level data map.
func (w Widget) Clone() Widget {
	if w.Data != nil {
		data := make(map[string]any, len(w.Data))
		for k, v := range w.Data {
			data[k] = v
		}
		w.Data = data
	}
	return w
}
