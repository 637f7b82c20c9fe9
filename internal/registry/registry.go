package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/errs"
	"github.com/GregMSThompson/investor-portal/internal/models"
	"github.com/GregMSThompson/investor-portal/pkg/logger"
)

// ErrClosed is returned for calls made after Close or before Start.
var ErrClosed = errors.New("registry: not running")

// appliedHistory bounds how many action ids are remembered per dashboard.
const appliedHistory = 256

// Store persists one widget list per user. Load reports found=false for a
// dashboard that was never initialised so the registry can seed it.
type Store interface {
	Load(ctx context.Context, uid string) ([]models.Widget, bool, error)
	Init(ctx context.Context, uid string, widgets []models.Widget) error
	Create(ctx context.Context, uid string, w models.Widget) error
	Update(ctx context.Context, uid string, w models.Widget) error
	Delete(ctx context.Context, uid, widgetID string) error
	UpdatePositions(ctx context.Context, uid string, widgets []models.Widget) error
}

// Seeder supplies the layout a fresh dashboard starts with.
type Seeder interface {
	DefaultLayout() []models.Widget
}

// Outcome describes what Apply did.
type Outcome struct {
	Widget   models.Widget
	Changed  bool
	Replayed bool
}

type dashboard struct {
	widgets []models.Widget
	applied map[string]Outcome
	order   []string
}

func (d *dashboard) index(id string) int {
	for i, w := range d.widgets {
		if w.WidgetID == id {
			return i
		}
	}
	return -1
}

func (d *dashboard) remember(actionID string, out Outcome) {
	if actionID == "" {
		return
	}
	if _, ok := d.applied[actionID]; ok {
		return
	}
	d.applied[actionID] = out
	d.order = append(d.order, actionID)
	if len(d.order) > appliedHistory {
		delete(d.applied, d.order[0])
		d.order = d.order[1:]
	}
}

func (d *dashboard) nextPosition() int {
	pos := 0
	for _, w := range d.widgets {
		if w.Position >= pos {
			pos = w.Position + 1
		}
	}
	return pos
}

type request struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	reply chan error
}

// Registry owns every user's widget list. All reads and writes run on a single
// goroutine so mutations coming from concurrent chat turns and HTTP calls are
// applied one at a time.
type Registry struct {
	store    Store
	seed     Seeder
	clockNow func() time.Time
	newID    func() string

	reqs chan request
	quit chan struct{}
	wg   sync.WaitGroup
	mu   sync.Mutex
	run  bool

	// owned by the actor goroutine
	dashboards map[string]*dashboard
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.clockNow = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) { r.newID = gen }
}

func New(store Store, seed Seeder, opts ...Option) *Registry {
	r := &Registry{
		store:      store,
		seed:       seed,
		clockNow:   time.Now,
		newID:      func() string { return uuid.New().String() },
		reqs:       make(chan request),
		dashboards: make(map[string]*dashboard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the owner goroutine. It is safe to call more than once.
func (r *Registry) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run {
		return
	}
	r.run = true
	r.quit = make(chan struct{})
	r.wg.Add(1)
	go r.loop(r.quit)
}

// Close stops the owner goroutine after the request in flight finishes.
func (r *Registry) Close() {
	r.mu.Lock()
	if !r.run {
		r.mu.Unlock()
		return
	}
	r.run = false
	close(r.quit)
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Registry) loop(quit <-chan struct{}) {
	defer r.wg.Done()
	for {
		select {
		case <-quit:
			return
		case req := <-r.reqs:
			req.reply <- req.fn(context.WithoutCancel(req.ctx))
		}
	}
}

// do runs fn on the owner goroutine. A caller whose ctx ends while waiting for
// the result gets ctx.Err(); the queued mutation still completes.
func (r *Registry) do(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	running, quit := r.run, r.quit
	r.mu.Unlock()
	if !running {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	req := request{ctx: ctx, fn: fn, reply: make(chan error, 1)}
	select {
	case r.reqs <- req:
	case <-quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// load returns the cached dashboard, reading it from the store (and seeding it
// on first use) when it is not cached yet. Actor goroutine only.
func (r *Registry) load(ctx context.Context, uid string) (*dashboard, error) {
	if d, ok := r.dashboards[uid]; ok {
		return d, nil
	}
	widgets, found, err := r.store.Load(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !found {
		widgets = r.seedWidgets()
		if err := r.store.Init(ctx, uid, widgets); err != nil {
			return nil, err
		}
		logger.FromContext(ctx).Info("seeded dashboard", "uid", uid, "widgets", len(widgets))
	}
	d := &dashboard{widgets: widgets, applied: make(map[string]Outcome)}
	r.dashboards[uid] = d
	return d, nil
}

func (r *Registry) seedWidgets() []models.Widget {
	if r.seed == nil {
		return []models.Widget{}
	}
	now := r.clockNow()
	defaults := r.seed.DefaultLayout()
	widgets := make([]models.Widget, 0, len(defaults))
	for i, w := range defaults {
		w = w.Clone()
		if w.WidgetID == "" {
			w.WidgetID = r.newID()
		}
		w.Position = i
		w.CreatedAt = now
		w.UpdatedAt = now
		widgets = append(widgets, w)
	}
	return widgets
}

func cloneAll(widgets []models.Widget) []models.Widget {
	out := make([]models.Widget, len(widgets))
	for i, w := range widgets {
		out[i] = w.Clone()
	}
	return out
}

// List returns the user's widgets in registry order.
func (r *Registry) List(ctx context.Context, uid string) ([]models.Widget, error) {
	var out []models.Widget
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		out = cloneAll(d.widgets)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single widget; found is false when the id is unknown.
func (r *Registry) Get(ctx context.Context, uid, widgetID string) (models.Widget, bool, error) {
	var (
		out   models.Widget
		found bool
	)
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		if i := d.index(widgetID); i >= 0 {
			out, found = d.widgets[i].Clone(), true
		}
		return nil
	}); err != nil {
		return models.Widget{}, false, err
	}
	return out, found, nil
}

// Add assigns a fresh id, places w in the first free spot and appends it.
// Duplicate widget types are allowed.
func (r *Registry) Add(ctx context.Context, uid string, w models.Widget) (models.Widget, error) {
	var out models.Widget
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		out, err = r.add(ctx, uid, d, w)
		return err
	}); err != nil {
		return models.Widget{}, err
	}
	return out, nil
}

func (r *Registry) add(ctx context.Context, uid string, d *dashboard, w models.Widget) (models.Widget, error) {
	w = w.Clone()
	w.WidgetID = r.newID()
	w.W, w.H = clampSize(w.W, w.H)
	w.X, w.Y = FindNextPosition(d.widgets, w.W, w.H)
	w.Position = d.nextPosition()
	now := r.clockNow()
	w.CreatedAt = now
	w.UpdatedAt = now

	if err := r.store.Create(ctx, uid, w); err != nil {
		return models.Widget{}, err
	}
	d.widgets = append(d.widgets, w)
	logger.FromContext(ctx).Debug("widget added", "uid", uid, "widget_id", w.WidgetID, "type", w.Type, "x", w.X, "y", w.Y)
	return w.Clone(), nil
}

// Update merges patch into the widget. An unknown id is silently ignored and
// reported with found=false.
func (r *Registry) Update(ctx context.Context, uid, widgetID string, patch models.WidgetPatch) (models.Widget, bool, error) {
	var (
		out   models.Widget
		found bool
	)
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		out, found, err = r.update(ctx, uid, d, widgetID, patch)
		return err
	}); err != nil {
		return models.Widget{}, false, err
	}
	return out, found, nil
}

func (r *Registry) update(ctx context.Context, uid string, d *dashboard, widgetID string, patch models.WidgetPatch) (models.Widget, bool, error) {
	i := d.index(widgetID)
	if i < 0 {
		return models.Widget{}, false, nil
	}
	w := d.widgets[i].Clone()
	patch.Apply(&w)
	w.UpdatedAt = r.clockNow()
	if err := r.store.Update(ctx, uid, w); err != nil {
		return models.Widget{}, true, err
	}
	d.widgets[i] = w
	return w.Clone(), true, nil
}

// Remove deletes the widget. An unknown id is a no-op reported with found=false.
func (r *Registry) Remove(ctx context.Context, uid, widgetID string) (bool, error) {
	var found bool
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		_, found, err = r.remove(ctx, uid, d, widgetID)
		return err
	}); err != nil {
		return false, err
	}
	return found, nil
}

func (r *Registry) remove(ctx context.Context, uid string, d *dashboard, widgetID string) (models.Widget, bool, error) {
	i := d.index(widgetID)
	if i < 0 {
		return models.Widget{}, false, nil
	}
	removed := d.widgets[i]
	if err := r.store.Delete(ctx, uid, widgetID); err != nil {
		return models.Widget{}, true, err
	}
	d.widgets = append(d.widgets[:i:i], d.widgets[i+1:]...)
	return removed, true, nil
}

// UpdateLayout stores drag/resize results as given. Placement is not re-run, so
// a user-arranged layout may overlap. Unknown ids are ignored.
func (r *Registry) UpdateLayout(ctx context.Context, uid string, items []dto.LayoutItem) ([]models.Widget, error) {
	var out []models.Widget
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		now := r.clockNow()
		next := cloneAll(d.widgets)
		changed := make([]models.Widget, 0, len(items))
		for _, item := range items {
			i := d.index(item.WidgetID)
			if i < 0 {
				continue
			}
			next[i].X, next[i].Y = item.X, item.Y
			next[i].W, next[i].H = item.W, item.H
			next[i].UpdatedAt = now
			changed = append(changed, next[i])
		}
		if len(changed) > 0 {
			if err := r.store.UpdatePositions(ctx, uid, changed); err != nil {
				return err
			}
		}
		d.widgets = next
		out = cloneAll(next)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Reset replaces the dashboard with the default layout.
func (r *Registry) Reset(ctx context.Context, uid string) ([]models.Widget, error) {
	var out []models.Widget
	if err := r.do(ctx, func(ctx context.Context) error {
		widgets := r.seedWidgets()
		if err := r.store.Init(ctx, uid, widgets); err != nil {
			return err
		}
		r.dashboards[uid] = &dashboard{widgets: widgets, applied: make(map[string]Outcome)}
		out = cloneAll(widgets)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// Apply executes a mutation produced by the assistant. Replaying an action id
// that was already applied returns the first outcome without touching the
// dashboard again.
func (r *Registry) Apply(ctx context.Context, uid string, action dto.WidgetAction) (Outcome, error) {
	var out Outcome
	if err := r.do(ctx, func(ctx context.Context) error {
		d, err := r.load(ctx, uid)
		if err != nil {
			return err
		}
		if prev, ok := d.applied[action.ID]; ok && action.ID != "" {
			out = prev
			out.Replayed = true
			return nil
		}
		out, err = r.apply(ctx, uid, d, action)
		if err != nil {
			return err
		}
		d.remember(action.ID, out)
		return nil
	}); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

func (r *Registry) apply(ctx context.Context, uid string, d *dashboard, action dto.WidgetAction) (Outcome, error) {
	switch action.Type {
	case dto.ActionAdd:
		if action.Widget == nil {
			return Outcome{}, errs.NewValidationError("add action requires a widget")
		}
		w, err := r.add(ctx, uid, d, *action.Widget)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Widget: w, Changed: true}, nil

	case dto.ActionUpdate, dto.ActionFormatChange:
		patch := models.WidgetPatch{}
		if action.Patch != nil {
			patch = *action.Patch
		}
		if action.Type == dto.ActionFormatChange && patch.VisualizationFormat == nil && action.NewFormat != "" {
			format := action.NewFormat
			patch.VisualizationFormat = &format
		}
		w, found, err := r.update(ctx, uid, d, action.WidgetID, patch)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Widget: w, Changed: found}, nil

	case dto.ActionRemove:
		w, found, err := r.remove(ctx, uid, d, action.WidgetID)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Widget: w, Changed: found}, nil
	}
	return Outcome{}, errs.NewValidationError("unknown widget action: " + string(action.Type))
}
