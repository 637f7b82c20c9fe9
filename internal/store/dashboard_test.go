package store

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/investor-portal/internal/models"
)

func TestDashboardStoreWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	s := NewDashboardStore(client)
	uid := "user-" + time.Now().Format("150405.000000")

	if _, found, err := s.Load(ctx, uid); err != nil || found {
		t.Fatalf("expected unseeded dashboard, found=%v err=%v", found, err)
	}

	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	seed := []models.Widget{
		{WidgetID: "portfolio-1", Type: models.WidgetPortfolioOverview, W: 6, H: 4, Position: 0, CreatedAt: now, UpdatedAt: now},
		{WidgetID: "performance-1", Type: models.WidgetPerformanceChart, X: 6, W: 6, H: 4, Position: 1, CreatedAt: now, UpdatedAt: now},
	}
	if err := s.Init(ctx, uid, seed); err != nil {
		t.Fatalf("init error: %v", err)
	}
	if err := s.Create(ctx, uid, models.Widget{WidgetID: "news-1", Type: models.WidgetNewsFeed, Y: 4, W: 6, H: 4, Position: 2}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := s.UpdatePositions(ctx, uid, []models.Widget{{WidgetID: "news-1", X: 6, Y: 4, W: 6, H: 4, UpdatedAt: now}}); err != nil {
		t.Fatalf("update positions error: %v", err)
	}
	if err := s.Delete(ctx, uid, "portfolio-1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}

	widgets, found, err := s.Load(ctx, uid)
	if err != nil || !found {
		t.Fatalf("load error: found=%v err=%v", found, err)
	}
	if len(widgets) != 2 || widgets[0].WidgetID != "performance-1" || widgets[1].X != 6 {
		t.Fatalf("unexpected widgets: %+v", widgets)
	}

	// reset drops widgets that are not part of the new layout
	if err := s.Init(ctx, uid, seed[:1]); err != nil {
		t.Fatalf("reinit error: %v", err)
	}
	widgets, _, _ = s.Load(ctx, uid)
	if len(widgets) != 1 || widgets[0].WidgetID != "portfolio-1" {
		t.Fatalf("unexpected widgets after reset: %+v", widgets)
	}
}
