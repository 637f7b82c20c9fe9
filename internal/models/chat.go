package models

import "time"

type ChatContext string

const (
	ContextDashboard     ChatContext = "dashboard"
	ContextDocuments     ChatContext = "documents"
	ContextCommunication ChatContext = "communication"
	ContextCalendar      ChatContext = "calendar"
)

// ActionBadge annotates an assistant transcript entry with what happened to the dashboard.
type ActionBadge string

const (
	BadgeNone              ActionBadge = ""
	BadgeAdded             ActionBadge = "added"
	BadgeUpdated           ActionBadge = "updated"
	BadgeRemoved           ActionBadge = "removed"
	BadgePendingSuggestion ActionBadge = "pending-suggestion"
)

type ChatMessage struct {
	MessageID       string      `firestore:"messageId" json:"id"`
	Role            string      `firestore:"role" json:"role"` // "user" or "assistant"
	Content         string      `firestore:"content" json:"content"`
	Context         ChatContext `firestore:"context,omitempty" json:"context,omitempty"`
	Badge           ActionBadge `firestore:"badge,omitempty" json:"badge,omitempty"`
	SuggestedWidget WidgetType  `firestore:"suggestedWidget,omitempty" json:"suggestedWidget,omitempty"`
	WidgetID        string      `firestore:"widgetId,omitempty" json:"widgetId,omitempty"`
	CreatedAt       time.Time   `firestore:"createdAt" json:"createdAt"`
	ExpiresAt       time.Time   `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// ChatSession holds the state carried between chat turns: at most one pending widget suggestion.
type ChatSession struct {
	SessionID         string     `firestore:"sessionId" json:"sessionId"`
	PendingSuggestion WidgetType `firestore:"pendingSuggestion,omitempty" json:"pendingSuggestion,omitempty"`
	UpdatedAt         time.Time  `firestore:"updatedAt" json:"updatedAt"`
}
