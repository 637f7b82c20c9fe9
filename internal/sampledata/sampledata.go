// Package sampledata serves the demo portfolio behind the dashboard: widget
// templates, the default layout, canned facts and replies, documents, calendar
// events and funds. The data ships embedded as YAML and can be replaced by a
// directory holding files with the same names.
package sampledata

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/investor-portal/internal/catalog"
	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

//go:embed data/*.yaml
var embedded embed.FS

const (
	widgetsFile   = "widgets.yaml"
	repliesFile   = "replies.yaml"
	documentsFile = "documents.yaml"
	eventsFile    = "events.yaml"
	fundsFile     = "funds.yaml"
)

type layoutItem struct {
	ID     string                     `yaml:"id"`
	Type   models.WidgetType          `yaml:"type"`
	X      int                        `yaml:"x"`
	Y      int                        `yaml:"y"`
	W      int                        `yaml:"w"`
	H      int                        `yaml:"h"`
	Format models.VisualizationFormat `yaml:"format"`
}

type widgetsDoc struct {
	Templates    map[models.WidgetType]map[string]any `yaml:"templates"`
	Layout       []layoutItem                         `yaml:"layout"`
	Facts        map[models.WidgetType]string         `yaml:"facts"`
	RiskProfiles map[string]map[string]any            `yaml:"riskProfiles"`
}

type contextReplies struct {
	Fallback string            `yaml:"fallback"`
	Replies  []dto.CannedReply `yaml:"replies"`
}

// Provider is read-only after construction and safe for concurrent use.
type Provider struct {
	widgets   widgetsDoc
	replies   map[models.ChatContext]contextReplies
	documents []models.Document
	events    []models.CalendarEvent
	funds     []models.Fund
}

// Load returns the provider for the embedded data set.
func Load() (*Provider, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded sample data: %w", err)
	}
	return FromFS(sub)
}

// LoadDir reads the sample data from dir. An empty dir selects the embedded set.
func LoadDir(dir string) (*Provider, error) {
	if strings.TrimSpace(dir) == "" {
		return Load()
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("sample data dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sample data path %s is not a directory", dir)
	}
	return FromFS(os.DirFS(dir))
}

// FromFS decodes every sample data file found at the root of fsys.
func FromFS(fsys fs.FS) (*Provider, error) {
	p := &Provider{}
	if err := decode(fsys, widgetsFile, &p.widgets); err != nil {
		return nil, err
	}
	if err := decode(fsys, repliesFile, &p.replies); err != nil {
		return nil, err
	}
	if err := decode(fsys, documentsFile, &p.documents); err != nil {
		return nil, err
	}
	if err := decode(fsys, eventsFile, &p.events); err != nil {
		return nil, err
	}
	if err := decode(fsys, fundsFile, &p.funds); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func decode(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (p *Provider) validate() error {
	for t := range p.widgets.Templates {
		if !catalog.IsValidType(t) {
			return fmt.Errorf("widgets.yaml: unknown widget type %q in templates", t)
		}
	}
	for t := range p.widgets.Facts {
		if !catalog.IsValidType(t) {
			return fmt.Errorf("widgets.yaml: unknown widget type %q in facts", t)
		}
	}
	seen := make(map[string]bool, len(p.widgets.Layout))
	for _, item := range p.widgets.Layout {
		if item.ID == "" || seen[item.ID] {
			return fmt.Errorf("widgets.yaml: layout ids must be unique and non-empty (%q)", item.ID)
		}
		seen[item.ID] = true
		if !catalog.IsValidType(item.Type) {
			return fmt.Errorf("widgets.yaml: unknown widget type %q in layout", item.Type)
		}
		if item.Format != "" && !catalog.IsCompatible(item.Type, item.Format) {
			return fmt.Errorf("widgets.yaml: format %q is not compatible with %q", item.Format, item.Type)
		}
	}
	for c := range p.replies {
		switch c {
		case models.ContextDocuments, models.ContextCommunication, models.ContextCalendar:
		default:
			return fmt.Errorf("replies.yaml: unknown context %q", c)
		}
	}
	return nil
}

// Template returns a deep copy of the starter payload for t, or nil.
func (p *Provider) Template(t models.WidgetType) map[string]any {
	tmpl, ok := p.widgets.Templates[t]
	if !ok {
		return nil
	}
	return copyMap(tmpl)
}

func (p *Provider) Fact(t models.WidgetType) string {
	return strings.TrimSpace(p.widgets.Facts[t])
}

func (p *Provider) RiskProfile(name string) (map[string]any, bool) {
	profile, ok := p.widgets.RiskProfiles[name]
	if !ok {
		return nil, false
	}
	return copyMap(profile), true
}

func (p *Provider) ContextReplies(c models.ChatContext) ([]dto.CannedReply, string) {
	cr, ok := p.replies[c]
	if !ok {
		return nil, ""
	}
	out := make([]dto.CannedReply, len(cr.Replies))
	copy(out, cr.Replies)
	return out, strings.TrimSpace(cr.Fallback)
}

// DefaultLayout builds the seed dashboard. Titles, and formats when the file
// leaves them out, come from the catalog.
func (p *Provider) DefaultLayout() []models.Widget {
	out := make([]models.Widget, 0, len(p.widgets.Layout))
	for i, item := range p.widgets.Layout {
		entry, _ := catalog.Lookup(item.Type)
		format := item.Format
		if format == "" {
			format = entry.DefaultFormat
		}
		out = append(out, models.Widget{
			WidgetID:            item.ID,
			Type:                item.Type,
			Title:               entry.Title,
			X:                   item.X,
			Y:                   item.Y,
			W:                   item.W,
			H:                   item.H,
			VisualizationFormat: format,
			Data:                p.Template(item.Type),
			Position:            i,
		})
	}
	return out
}

func (p *Provider) Documents() []models.Document {
	out := make([]models.Document, len(p.documents))
	copy(out, p.documents)
	return out
}

// Events returns every calendar event sorted by start date.
func (p *Provider) Events() []models.CalendarEvent {
	out := make([]models.CalendarEvent, len(p.events))
	copy(out, p.events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (p *Provider) Funds() []models.Fund {
	out := make([]models.Fund, len(p.funds))
	copy(out, p.funds)
	return out
}

func copyMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
