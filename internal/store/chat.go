package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type chatStore struct {
	client *firestore.Client
}

func NewChatStore(client *firestore.Client) *chatStore {
	return &chatStore{client: client}
}

func (s *chatStore) sessionDoc(uid, sessionID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("chat_sessions").Doc(sessionID)
}

func (s *chatStore) messagesCollection(uid, sessionID string) *firestore.CollectionRef {
	return s.sessionDoc(uid, sessionID).Collection("messages")
}

func (s *chatStore) SaveMessage(ctx context.Context, uid, sessionID string, msg models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	ref := s.messagesCollection(uid, sessionID).Doc(msg.MessageID)
	if msg.MessageID == "" {
		ref = s.messagesCollection(uid, sessionID).NewDoc()
		msg.MessageID = ref.ID
	}
	if _, err := ref.Set(ctx, msg); err != nil {
		return errs.NewDatabaseError("create", "failed to save chat message", err)
	}
	return nil
}

// ListMessages returns the newest limit messages, oldest first.
func (s *chatStore) ListMessages(ctx context.Context, uid, sessionID string, limit int) ([]models.ChatMessage, error) {
	query := s.messagesCollection(uid, sessionID).Query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []models.ChatMessage
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list chat messages", err)
		}
		var msg models.ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse chat message data", err)
		}
		out = append(out, msg)
	}

	reverseMessages(out)
	return out, nil
}

// GetSession returns an empty session when none was stored yet.
func (s *chatStore) GetSession(ctx context.Context, uid, sessionID string) (models.ChatSession, error) {
	snap, err := s.sessionDoc(uid, sessionID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return models.ChatSession{SessionID: sessionID}, nil
		}
		return models.ChatSession{}, errs.NewDatabaseError("read", "failed to get chat session", err)
	}
	var session models.ChatSession
	if err := snap.DataTo(&session); err != nil {
		return models.ChatSession{}, errs.NewDatabaseError("read", "failed to parse chat session data", err)
	}
	return session, nil
}

func (s *chatStore) SaveSession(ctx context.Context, uid string, session models.ChatSession) error {
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}
	if _, err := s.sessionDoc(uid, session.SessionID).Set(ctx, session); err != nil {
		return errs.NewDatabaseError("update", "failed to save chat session", err)
	}
	return nil
}

func reverseMessages(msgs []models.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
