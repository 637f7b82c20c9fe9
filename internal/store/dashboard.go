package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

// dashboardMeta marks a dashboard as initialised so an emptied dashboard is
// not seeded again.
type dashboardMeta struct {
	Seeded    bool      `firestore:"seeded"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type dashboardStore struct {
	client *firestore.Client
}

func NewDashboardStore(client *firestore.Client) *dashboardStore {
	return &dashboardStore{client: client}
}

func (s *dashboardStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("dashboard_widgets")
}

func (s *dashboardStore) metaDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("dashboards").Doc("default")
}

func (s *dashboardStore) Load(ctx context.Context, uid string) ([]models.Widget, bool, error) {
	snap, err := s.metaDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, false, nil
		}
		return nil, false, errs.NewDatabaseError("read", "failed to get dashboard", err)
	}
	var meta dashboardMeta
	if err := snap.DataTo(&meta); err != nil {
		return nil, false, errs.NewDatabaseError("read", "failed to parse dashboard data", err)
	}
	if !meta.Seeded {
		return nil, false, nil
	}

	docs, err := s.collection(uid).OrderBy("position", firestore.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, false, errs.NewDatabaseError("read", "failed to list widgets", err)
	}
	widgets := make([]models.Widget, 0, len(docs))
	for _, d := range docs {
		var w models.Widget
		if err := d.DataTo(&w); err != nil {
			return nil, false, errs.NewDatabaseError("read", "failed to parse widget data", err)
		}
		widgets = append(widgets, w)
	}
	return widgets, true, nil
}

// Init replaces every stored widget with widgets and marks the dashboard as
// initialised.
func (s *dashboardStore) Init(ctx context.Context, uid string, widgets []models.Widget) error {
	log := logger.FromContext(ctx)
	existing, err := s.collection(uid).Documents(ctx).GetAll()
	if err != nil {
		return errs.NewDatabaseError("read", "failed to list widgets", err)
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]bulkJob, 0, len(existing)+len(widgets)+1)
	keep := make(map[string]bool, len(widgets))
	for _, w := range widgets {
		keep[w.WidgetID] = true
	}
	for _, doc := range existing {
		if keep[doc.Ref.ID] {
			continue
		}
		j, err := bw.Delete(doc.Ref)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to schedule widget delete", err)
		}
		jobs = append(jobs, bulkJob{widgetID: doc.Ref.ID, job: j})
	}
	for _, w := range widgets {
		j, err := bw.Set(s.collection(uid).Doc(w.WidgetID), w)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("create", "failed to schedule widget write", err)
		}
		jobs = append(jobs, bulkJob{widgetID: w.WidgetID, job: j})
	}
	j, err := bw.Set(s.metaDoc(uid), dashboardMeta{Seeded: true, UpdatedAt: time.Now()})
	if err != nil {
		bw.End()
		return errs.NewDatabaseError("create", "failed to schedule dashboard write", err)
	}
	jobs = append(jobs, bulkJob{widgetID: "", job: j})
	bw.End()

	for _, entry := range jobs {
		if _, err := entry.job.Results(); err != nil {
			log.Error("failed to initialise dashboard", "widget_id", entry.widgetID, "error", err)
			return errs.NewDatabaseError("create", "failed to initialise dashboard", err)
		}
	}
	return nil
}

func (s *dashboardStore) Create(ctx context.Context, uid string, w models.Widget) error {
	_, err := s.collection(uid).Doc(w.WidgetID).Create(ctx, w)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errs.NewAlreadyExistsError("widget already exists")
		}
		return errs.NewDatabaseError("create", "failed to create widget", err)
	}
	return nil
}

func (s *dashboardStore) Update(ctx context.Context, uid string, w models.Widget) error {
	_, err := s.collection(uid).Doc(w.WidgetID).Set(ctx, w)
	if err != nil {
		return errs.NewDatabaseError("update", "failed to update widget", err)
	}
	return nil
}

func (s *dashboardStore) Delete(ctx context.Context, uid, widgetID string) error {
	_, err := s.collection(uid).Doc(widgetID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete", "failed to delete widget", err)
	}
	return nil
}

type bulkJob struct {
	widgetID string
	job      *firestore.BulkWriterJob
}

// UpdatePositions writes the grid rectangle of every widget in one bulk batch.
func (s *dashboardStore) UpdatePositions(ctx context.Context, uid string, widgets []models.Widget) error {
	log := logger.FromContext(ctx)
	bw := s.client.BulkWriter(ctx)
	coll := s.collection(uid)

	jobs := make([]bulkJob, 0, len(widgets))
	for _, w := range widgets {
		j, err := bw.Update(coll.Doc(w.WidgetID), []firestore.Update{
			{Path: "x", Value: w.X},
			{Path: "y", Value: w.Y},
			{Path: "w", Value: w.W},
			{Path: "h", Value: w.H},
			{Path: "updatedAt", Value: w.UpdatedAt},
		})
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("update", "failed to schedule layout update", err)
		}
		jobs = append(jobs, bulkJob{widgetID: w.WidgetID, job: j})
	}
	bw.End()

	for _, entry := range jobs {
		if _, err := entry.job.Results(); err != nil {
			log.Error("failed to update widget layout", "widget_id", entry.widgetID, "error", err)
			return errs.NewDatabaseError("update", "failed to update widget layout", err)
		}
	}
	return nil
}
