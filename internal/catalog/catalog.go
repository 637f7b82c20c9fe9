// Package catalog is the single table of widget types: titles, default grid sizes and the
// visualization formats each type may render as.
package catalog

import (
	"strings"

	"github.com/GregMSThompson/investor-portal/internal/models"
)

type Entry struct {
	Type          models.WidgetType            `json:"type"`
	Title         string                       `json:"title"`
	Description   string                       `json:"description"`
	W             int                          `json:"w"`
	H             int                          `json:"h"`
	DefaultFormat models.VisualizationFormat   `json:"defaultFormat"`
	Formats       []models.VisualizationFormat `json:"formats"`
}

var entries = []Entry{
	{
		Type:          models.WidgetPortfolioOverview,
		Title:         "Portfolio Overview",
		Description:   "Total portfolio value, returns, and monthly performance",
		W:             6,
		H:             4,
		DefaultFormat: models.FormatCards,
		Formats:       []models.VisualizationFormat{models.FormatCards, models.FormatTable, models.FormatList, models.FormatBarChart},
	},
	{
		Type:          models.WidgetPerformanceChart,
		Title:         "Performance Chart",
		Description:   "Visual representation of portfolio growth over time",
		W:             6,
		H:             4,
		DefaultFormat: models.FormatLineChart,
		Formats:       []models.VisualizationFormat{models.FormatLineChart, models.FormatAreaChart, models.FormatBarChart, models.FormatTable},
	},
	{
		Type:          models.WidgetAssetAllocation,
		Title:         "Asset Allocation",
		Description:   "Breakdown by investment categories and percentages",
		W:             4,
		H:             3,
		DefaultFormat: models.FormatPieChart,
		Formats:       []models.VisualizationFormat{models.FormatPieChart, models.FormatDonutChart, models.FormatBarChart, models.FormatTable, models.FormatCards},
	},
	{
		Type:          models.WidgetRecentTransactions,
		Title:         "Recent Transactions",
		Description:   "Latest capital calls, distributions, and fund activities",
		W:             8,
		H:             3,
		DefaultFormat: models.FormatTable,
		Formats:       []models.VisualizationFormat{models.FormatTable, models.FormatList, models.FormatCards},
	},
	{
		Type:          models.WidgetNewsFeed,
		Title:         "Market News",
		Description:   "Latest investment news and market updates",
		W:             6,
		H:             4,
		DefaultFormat: models.FormatList,
		Formats:       []models.VisualizationFormat{models.FormatList, models.FormatCards},
	},
	{
		Type:          models.WidgetMarketTrends,
		Title:         "Market Trends",
		Description:   "Sector performance trends and market indicators",
		W:             6,
		H:             4,
		DefaultFormat: models.FormatBarChart,
		Formats:       []models.VisualizationFormat{models.FormatBarChart, models.FormatTable, models.FormatCards, models.FormatList},
	},
	{
		Type:          models.WidgetRiskAnalysis,
		Title:         "Risk Analysis",
		Description:   "Portfolio risk metrics including Beta and Sharpe Ratio",
		W:             4,
		H:             3,
		DefaultFormat: models.FormatCards,
		Formats:       []models.VisualizationFormat{models.FormatCards, models.FormatTable, models.FormatBarChart, models.FormatList},
	},
	{
		Type:          models.WidgetCashFlow,
		Title:         "Cash Flow",
		Description:   "Monthly cash inflows, outflows, and net positions",
		W:             6,
		H:             3,
		DefaultFormat: models.FormatBarChart,
		Formats:       []models.VisualizationFormat{models.FormatBarChart, models.FormatLineChart, models.FormatAreaChart, models.FormatTable},
	},
	{
		Type:          models.WidgetUpcomingEvents,
		Title:         "Upcoming Events",
		Description:   "Capital calls, distributions, meetings and deadlines from your calendar",
		W:             4,
		H:             4,
		DefaultFormat: models.FormatList,
		Formats:       []models.VisualizationFormat{models.FormatList, models.FormatTable, models.FormatCards},
	},
}

var byType = func() map[models.WidgetType]Entry {
	m := make(map[models.WidgetType]Entry, len(entries))
	for _, e := range entries {
		m[e.Type] = e
	}
	return m
}()

// All returns the catalog in display order.
func All() []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

func Lookup(t models.WidgetType) (Entry, bool) {
	e, ok := byType[t]
	return e, ok
}

func IsValidType(t models.WidgetType) bool {
	_, ok := byType[t]
	return ok
}

// Formats returns the compatible formats for t, or nil for an unknown type.
func Formats(t models.WidgetType) []models.VisualizationFormat {
	e, ok := byType[t]
	if !ok {
		return nil
	}
	out := make([]models.VisualizationFormat, len(e.Formats))
	copy(out, e.Formats)
	return out
}

func IsCompatible(t models.WidgetType, f models.VisualizationFormat) bool {
	for _, allowed := range byType[t].Formats {
		if allowed == f {
			return true
		}
	}
	return false
}

// FormatList renders the compatible formats of t as a comma separated list.
func FormatList(t models.WidgetType) string {
	formats := byType[t].Formats
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Title returns the display title for t, falling back to the type name.
func Title(t models.WidgetType) string {
	if e, ok := byType[t]; ok {
		return e.Title
	}
	return strings.ReplaceAll(string(t), "-", " ")
}

// AllFormats lists every visualization format.
var AllFormats = []models.VisualizationFormat{
	models.FormatBarChart,
	models.FormatLineChart,
	models.FormatPieChart,
	models.FormatDonutChart,
	models.FormatAreaChart,
	models.FormatTable,
	models.FormatCards,
	models.FormatList,
}

func IsValidFormat(f models.VisualizationFormat) bool {
	for _, known := range AllFormats {
		if known == f {
			return true
		}
	}
	return false
}
