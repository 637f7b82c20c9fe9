package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/intent"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"

	defaultHistoryLimit = 50
	maxMessageLength    = 2000
)

// Assistant turns one utterance into a reply and an optional dashboard
// mutation. The rule-based intent resolver implements it; a model-backed
// assistant can replace it without touching the chat flow.
type Assistant interface {
	Resolve(req intent.Request) intent.Result
}

type ChatStore interface {
	SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error
	ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error)
	GetSession(ctx context.Context, uid, sessionID string) (models.ChatSession, error)
	SaveSession(ctx context.Context, uid string, session models.ChatSession) error
}

type chatService struct {
	assistant  Assistant
	registry   widgetRegistry
	store      ChatStore
	thinkDelay time.Duration
	ttl        time.Duration
	clockNow   func() time.Time
	newID      func() string
}

func NewChatService(assistant Assistant, reg widgetRegistry, store ChatStore, thinkDelay, ttl time.Duration) *chatService {
	return &chatService{
		assistant:  assistant,
		registry:   reg,
		store:      store,
		thinkDelay: thinkDelay,
		ttl:        ttl,
		clockNow:   time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// Send records the user's message, resolves it after the think delay, applies
// any resulting mutation to the dashboard and records the assistant's reply.
// Once the user's message is stored the turn always completes, even if the
// caller goes away during the delay.
func (s *chatService) Send(ctx context.Context, uid string, req dto.ChatRequest) (dto.ChatResponse, error) {
	if err := validateChatRequest(&req); err != nil {
		return dto.ChatResponse{}, err
	}
	log, ctx := logger.With(ctx, "session_id", req.SessionID, "context", req.Context)

	if err := s.saveMessage(ctx, uid, req.SessionID, models.ChatMessage{
		Role:    roleUser,
		Content: req.Message,
		Context: req.Context,
	}); err != nil {
		return dto.ChatResponse{}, err
	}

	ctx = context.WithoutCancel(ctx)
	s.think()

	session, err := s.store.GetSession(ctx, uid, req.SessionID)
	if err != nil {
		return dto.ChatResponse{}, err
	}
	widgets, err := s.registry.List(ctx, uid)
	if err != nil {
		return dto.ChatResponse{}, err
	}

	res := s.assistant.Resolve(intent.Request{
		Message: req.Message,
		Context: req.Context,
		Widgets: widgets,
		Pending: session.PendingSuggestion,
	})
	log.Debug("message resolved", "action", res.Action, "detected_type", res.DetectedType, "confidence", res.Confidence)

	badge := res.Badge
	widgetID := ""
	if res.Mutation != nil {
		outcome, err := s.registry.Apply(ctx, uid, *res.Mutation)
		if err != nil {
			return dto.ChatResponse{}, err
		}
		widgetID = outcome.Widget.WidgetID
		if !outcome.Changed {
			// the target disappeared between resolve and apply
			log.Warn("mutation had no effect", "action_id", res.Mutation.ID, "widget_id", res.Mutation.WidgetID)
			badge = models.BadgeNone
		}
		if widgets, err = s.registry.List(ctx, uid); err != nil {
			return dto.ChatResponse{}, err
		}
	}

	session.SessionID = req.SessionID
	session.PendingSuggestion = res.Pending
	session.UpdatedAt = s.clockNow()
	if err := s.store.SaveSession(ctx, uid, session); err != nil {
		return dto.ChatResponse{}, err
	}

	reply := models.ChatMessage{
		MessageID:       s.newID(),
		Role:            roleAssistant,
		Content:         res.Reply,
		Context:         req.Context,
		Badge:           badge,
		SuggestedWidget: res.Pending,
		WidgetID:        widgetID,
	}
	if err := s.saveMessage(ctx, uid, req.SessionID, reply); err != nil {
		return dto.ChatResponse{}, err
	}

	log.Info("chat turn completed", "badge", badge)
	return dto.ChatResponse{
		MessageID:       reply.MessageID,
		Reply:           res.Reply,
		Badge:           badge,
		SuggestedWidget: res.Pending,
		Action:          res.Mutation,
		Widgets:         widgets,
	}, nil
}

// History returns the newest limit messages of a session, oldest first.
func (s *chatService) History(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errs.NewValidationError("sessionId is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.store.ListMessages(ctx, uid, sessionID, limit)
}

func (s *chatService) think() {
	if s.thinkDelay > 0 {
		time.Sleep(s.thinkDelay)
	}
}

func (s *chatService) saveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	now := s.clockNow()
	if msg.MessageID == "" {
		msg.MessageID = s.newID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = now
	}
	if s.ttl > 0 {
		msg.ExpiresAt = now.Add(s.ttl)
	}
	return s.store.SaveMessage(ctx, uid, sessionID, msg)
}

func validateChatRequest(req *dto.ChatRequest) error {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return errs.NewValidationError("message is required")
	}
	if len(req.Message) > maxMessageLength {
		return errs.NewValidationError("message is too long")
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return errs.NewValidationError("sessionId is required")
	}
	switch req.Context {
	case "":
		req.Context = models.ContextDashboard
	case models.ContextDashboard, models.ContextDocuments, models.ContextCommunication, models.ContextCalendar:
	default:
		return errs.NewValidationError("unknown chat context: " + string(req.Context))
	}
	return nil
}
