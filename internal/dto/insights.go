package dto

type InsightKind string

const (
	InsightPositive InsightKind = "positive"
	InsightNegative InsightKind = "negative"
	InsightNeutral  InsightKind = "neutral"
	InsightAlert    InsightKind = "alert"
	InsightInfo     InsightKind = "info"
)

type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

type Insight struct {
	ID           string          `json:"id"`
	Kind         InsightKind     `json:"type"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	WidgetSource []string        `json:"widgetSource"`
	Priority     InsightPriority `json:"priority"`
}
