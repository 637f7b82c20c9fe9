package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type stubChatService struct {
	resp         dto.ChatResponse
	sendErr      error
	history      []models.ChatMessage
	historyErr   error
	lastUID      string
	lastReq      dto.ChatRequest
	lastSession  string
	lastLimit    int
	historyCalls int
}

func (s *stubChatService) Send(_ context.Context, uid string, req dto.ChatRequest) (dto.ChatResponse, error) {
	s.lastUID = uid
	s.lastReq = req
	return s.resp, s.sendErr
}

func (s *stubChatService) History(_ context.Context, _, sessionID string, limit int) ([]models.ChatMessage, error) {
	s.historyCalls++
	s.lastSession = sessionID
	s.lastLimit = limit
	return s.history, s.historyErr
}

func TestSendMessage_OK(t *testing.T) {
	svc := &stubChatService{resp: dto.ChatResponse{Reply: "Added Market Trends.", Badge: models.BadgeAdded}}
	resp := &stubResponseHandler{}
	h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

	body := `{"sessionId":"s1","message":"show me market trends","context":"dashboard"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/messages", strings.NewReader(body))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastUID != "uid1" || svc.lastReq.SessionID != "s1" || svc.lastReq.Context != models.ContextDashboard {
		t.Errorf("unexpected request passed to service: uid=%q req=%+v", svc.lastUID, svc.lastReq)
	}
	if got := resp.writeSuccessData.(dto.ChatResponse); got.Badge != models.BadgeAdded {
		t.Errorf("expected added badge, got %q", got.Badge)
	}
}

func TestSendMessage_InvalidJSON(t *testing.T) {
	svc := &stubChatService{}
	resp := &stubResponseHandler{}
	h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/chat/messages", strings.NewReader("{"))
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on invalid JSON")
	}
	if svc.lastReq.Message != "" {
		t.Fatal("service must not be called on invalid JSON")
	}
}

func TestSendMessage_ServiceError(t *testing.T) {
	svc := &stubChatService{sendErr: errs.NewValidationError("message is required")}
	resp := &stubResponseHandler{}
	h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/chat/messages", strings.NewReader(`{"sessionId":"s1","message":""}`))
	rr := httptest.NewRecorder()
	h.SendMessage(rr, req)

	if !resp.handleErrorCalled || resp.writeSuccessCalled {
		t.Fatal("expected HandleError only")
	}
}

func TestGetHistory(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		svcErr    error
		wantOK    bool
		wantLimit int
		wantCalls int
	}{
		{name: "default limit", query: "", wantOK: true, wantLimit: 0, wantCalls: 1},
		{name: "explicit limit", query: "?limit=20", wantOK: true, wantLimit: 20, wantCalls: 1},
		{name: "bad limit", query: "?limit=abc", wantOK: false, wantCalls: 0},
		{name: "negative limit", query: "?limit=-1", wantOK: false, wantCalls: 0},
		{name: "service error", query: "", svcErr: errors.New("boom"), wantOK: false, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubChatService{
				history:    []models.ChatMessage{{MessageID: "m1", Role: "user", Content: "hi"}},
				historyErr: tt.svcErr,
			}
			resp := &stubResponseHandler{}
			h := NewChatHandlers(&Deps{ResponseHandler: resp, ChatSvc: svc})

			req := httptest.NewRequest(http.MethodGet, "/chat/sessions/s1/messages"+tt.query, nil)
			req = withUID(req, "uid1")
			req = withChiParam(req, "sessionId", "s1")
			rr := httptest.NewRecorder()
			h.GetHistory(rr, req)

			if resp.writeSuccessCalled != tt.wantOK {
				t.Fatalf("WriteSuccess called=%v, want %v (err=%v)", resp.writeSuccessCalled, tt.wantOK, resp.handleError)
			}
			if svc.historyCalls != tt.wantCalls {
				t.Fatalf("history calls=%d, want %d", svc.historyCalls, tt.wantCalls)
			}
			if tt.wantOK && (svc.lastLimit != tt.wantLimit || svc.lastSession != "s1") {
				t.Fatalf("unexpected args: session=%q limit=%d", svc.lastSession, svc.lastLimit)
			}
		})
	}
}
