package dto

import (
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type ActionType string

const (
	ActionAdd          ActionType = "add"
	ActionUpdate       ActionType = "update"
	ActionRemove       ActionType = "remove"
	ActionFormatChange ActionType = "format-change"
)

type UpdateType string

const (
	UpdateData    UpdateType = "data"
	UpdateTitle   UpdateType = "title"
	UpdateSize    UpdateType = "size"
	UpdateFormat  UpdateType = "format"
	UpdateOptions UpdateType = "options"
)

// WidgetAction is a structured dashboard mutation produced by the assistant.
// ID makes application idempotent: replaying the same action has no further effect.
type WidgetAction struct {
	ID         string                     `json:"id"`
	Type       ActionType                 `json:"type"`
	WidgetType models.WidgetType          `json:"widgetType,omitempty"`
	WidgetID   string                     `json:"widgetId,omitempty"`
	Widget     *models.Widget             `json:"widget,omitempty"`
	Patch      *models.WidgetPatch        `json:"patch,omitempty"`
	UpdateType UpdateType                 `json:"updateType,omitempty"`
	NewFormat  models.VisualizationFormat `json:"newFormat,omitempty"`
}

// CannedReply is a fixed reply chosen when any keyword appears in the message.
type CannedReply struct {
	Keywords []string `yaml:"keywords" toml:"keywords"`
	Reply    string   `yaml:"reply" toml:"reply"`
}

type ChatRequest struct {
	SessionID string             `json:"sessionId"`
	Message   string             `json:"message"`
	Context   models.ChatContext `json:"context,omitempty"`
}

type ChatResponse struct {
	MessageID       string             `json:"messageId"`
	Reply           string             `json:"reply"`
	Badge           models.ActionBadge `json:"badge,omitempty"`
	SuggestedWidget models.WidgetType  `json:"suggestedWidget,omitempty"`
	Action          *WidgetAction      `json:"action,omitempty"`
	Widgets         []models.Widget    `json:"widgets,omitempty"`
}
