package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

const defaultUpcomingLimit = 5

type eventSource interface {
	Events() []models.CalendarEvent
}

type calendarService struct {
	source   eventSource
	clockNow func() time.Time
}

func NewCalendarService(source eventSource) *calendarService {
	return &calendarService{source: source, clockNow: time.Now}
}

// Upcoming returns events starting after now, soonest first.
func (s *calendarService) Upcoming(_ context.Context, limit int) []models.CalendarEvent {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	now := s.clockNow()
	out := []models.CalendarEvent{}
	for _, ev := range s.source.Events() {
		if !ev.Date.After(now) {
			continue
		}
		out = append(out, ev)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Search matches the query against title, description, fund name, type and
// location.
func (s *calendarService) Search(_ context.Context, query string) ([]models.CalendarEvent, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, errs.NewValidationError("query is required")
	}
	out := []models.CalendarEvent{}
	for _, ev := range s.source.Events() {
		for _, field := range []string{ev.Title, ev.Description, ev.FundName, ev.Type, ev.Location} {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, ev)
				break
			}
		}
	}
	return out, nil
}
