package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

// MemoryDashboardStore keeps dashboards in process memory. It backs local runs
// and the CLI, and loses everything on restart.
type MemoryDashboardStore struct {
	mu         sync.Mutex
	dashboards map[string]map[string]models.Widget
}

func NewMemoryDashboardStore() *MemoryDashboardStore {
	return &MemoryDashboardStore{dashboards: make(map[string]map[string]models.Widget)}
}

func (s *MemoryDashboardStore) Load(_ context.Context, uid string) ([]models.Widget, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.dashboards[uid]
	if !ok {
		return nil, false, nil
	}
	widgets := make([]models.Widget, 0, len(stored))
	for _, w := range stored {
		widgets = append(widgets, w.Clone())
	}
	sort.SliceStable(widgets, func(i, j int) bool { return widgets[i].Position < widgets[j].Position })
	return widgets, true, nil
}

func (s *MemoryDashboardStore) Init(_ context.Context, uid string, widgets []models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make(map[string]models.Widget, len(widgets))
	for _, w := range widgets {
		stored[w.WidgetID] = w.Clone()
	}
	s.dashboards[uid] = stored
	return nil
}

func (s *MemoryDashboardStore) Create(_ context.Context, uid string, w models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.dashboard(uid)
	if _, exists := stored[w.WidgetID]; exists {
		return errs.NewAlreadyExistsError("widget already exists")
	}
	stored[w.WidgetID] = w.Clone()
	return nil
}

func (s *MemoryDashboardStore) Update(_ context.Context, uid string, w models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dashboard(uid)[w.WidgetID] = w.Clone()
	return nil
}

func (s *MemoryDashboardStore) Delete(_ context.Context, uid, widgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dashboard(uid), widgetID)
	return nil
}

func (s *MemoryDashboardStore) UpdatePositions(_ context.Context, uid string, widgets []models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.dashboard(uid)
	for _, w := range widgets {
		cur, ok := stored[w.WidgetID]
		if !ok {
			return errs.NewNotFoundError("widget not found")
		}
		cur.X, cur.Y, cur.W, cur.H = w.X, w.Y, w.W, w.H
		cur.UpdatedAt = w.UpdatedAt
		stored[w.WidgetID] = cur
	}
	return nil
}

// dashboard must be called with mu held.
func (s *MemoryDashboardStore) dashboard(uid string) map[string]models.Widget {
	stored, ok := s.dashboards[uid]
	if !ok {
		stored = make(map[string]models.Widget)
		s.dashboards[uid] = stored
	}
	return stored
}

type memorySession struct {
	session  models.ChatSession
	messages []models.ChatMessage
}

// MemoryChatStore keeps chat transcripts in process memory. Messages whose
// ExpiresAt has passed are dropped when listed.
type MemoryChatStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	clockNow func() time.Time
}

func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{sessions: make(map[string]*memorySession), clockNow: time.Now}
}

func (s *MemoryChatStore) key(uid, sessionID string) string {
	return uid + "/" + sessionID
}

func (s *MemoryChatStore) get(uid, sessionID string) *memorySession {
	k := s.key(uid, sessionID)
	sess, ok := s.sessions[k]
	if !ok {
		sess = &memorySession{session: models.ChatSession{SessionID: sessionID}}
		s.sessions[k] = sess
	}
	return sess
}

func (s *MemoryChatStore) SaveMessage(_ context.Context, uid, sessionID string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = s.clockNow()
	}
	sess := s.get(uid, sessionID)
	sess.messages = append(sess.messages, msg)
	return nil
}

func (s *MemoryChatStore) ListMessages(_ context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[s.key(uid, sessionID)]
	if !ok {
		return nil, nil
	}
	now := s.clockNow()
	live := sess.messages[:0]
	for _, m := range sess.messages {
		if m.ExpiresAt.IsZero() || m.ExpiresAt.After(now) {
			live = append(live, m)
		}
	}
	sess.messages = live

	start := 0
	if limit > 0 && len(live) > limit {
		start = len(live) - limit
	}
	out := make([]models.ChatMessage, len(live)-start)
	copy(out, live[start:])
	return out, nil
}

func (s *MemoryChatStore) GetSession(_ context.Context, uid, sessionID string) (models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[s.key(uid, sessionID)]; ok {
		return sess.session, nil
	}
	return models.ChatSession{SessionID: sessionID}, nil
}

func (s *MemoryChatStore) SaveSession(_ context.Context, uid string, session models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = s.clockNow()
	}
	s.get(uid, session.SessionID).session = session
	return nil
}
