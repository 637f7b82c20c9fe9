// Package intent turns chat utterances into replies and dashboard mutations.
// Resolution is rule based: keyword tables from a Lexicon are scored against
// the message, and canned data comes from a Knowledge provider.
package intent

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/GregMSThompson/investor-portal/internal/catalog"
	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type Action string

const (
	ActionAdd          Action = "add"
	ActionUpdate       Action = "update"
	ActionRemove       Action = "remove"
	ActionFormatChange Action = "format-change"
	ActionInfo         Action = "info"
)

// classification order; earlier entries win ties
var actionOrder = [4]Action{ActionAdd, ActionUpdate, ActionRemove, ActionInfo}

const (
	performanceBase      = 2200000
	performanceStep      = 50000
	performanceJitter    = 25000
	maxPerformanceMonths = 36
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Knowledge supplies the canned data the resolver quotes and inserts.
type Knowledge interface {
	// Template returns a fresh copy of the starter payload for t.
	Template(t models.WidgetType) map[string]any
	// Fact returns a one paragraph summary of the sample data behind t.
	Fact(t models.WidgetType) string
	// RiskProfile returns the risk widget payload for "conservative" or "aggressive".
	RiskProfile(name string) (map[string]any, bool)
	// ContextReplies returns the keyword replies and the fallback for a non-dashboard tab.
	ContextReplies(c models.ChatContext) ([]dto.CannedReply, string)
}

type Request struct {
	Message string
	Context models.ChatContext
	Widgets []models.Widget
	Pending models.WidgetType
}

type Result struct {
	Reply        string
	Action       Action
	DetectedType models.WidgetType
	Confidence   float64
	Format       models.VisualizationFormat
	Target       *models.Widget
	Mutation     *dto.WidgetAction
	// Pending is the suggestion to remember for the next turn; empty clears it.
	Pending models.WidgetType
	Badge   models.ActionBadge
}

type Resolver struct {
	lex    Lexicon
	m      *matcher
	know   Knowledge
	newID  func() string
	jitter func() float64
}

type Option func(*Resolver)

func WithIDGenerator(gen func() string) Option {
	return func(r *Resolver) { r.newID = gen }
}

// WithJitter replaces the random source for synthetic performance data. The
// function must return values in [-1, 1].
func WithJitter(fn func() float64) Option {
	return func(r *Resolver) { r.jitter = fn }
}

func NewResolver(lex Lexicon, know Knowledge, opts ...Option) *Resolver {
	r := &Resolver{
		lex:    lex,
		m:      compile(lex),
		know:   know,
		newID:  func() string { return uuid.New().String() },
		jitter: func() float64 { return rand.Float64()*2 - 1 },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Lexicon() Lexicon {
	return r.lex
}

// analysis is everything extracted from one dashboard utterance.
type analysis struct {
	action     Action
	show       bool
	format     models.VisualizationFormat
	hasFormat  bool
	detected   models.WidgetType
	score      int
	confidence float64
	target     *models.Widget
}

// Resolve never fails: every path ends in a reply.
func (r *Resolver) Resolve(req Request) Result {
	msg := normalize(req.Message)
	if strings.TrimSpace(msg) == "" {
		return r.help()
	}

	switch req.Context {
	case models.ContextDocuments, models.ContextCommunication, models.ContextCalendar:
		return r.contextReply(req.Context, msg)
	}

	if req.Pending != "" {
		if res, ok := r.followUp(req, msg); ok {
			return res
		}
	}

	a := r.analyze(msg, req.Widgets)
	res := r.dispatch(req, a)
	res.Action = a.action
	res.DetectedType = a.detected
	res.Confidence = a.confidence
	res.Format = a.format
	if res.Target == nil {
		res.Target = a.target
	}
	return res
}

func (r *Resolver) contextReply(c models.ChatContext, msg string) Result {
	replies, fallback := r.know.ContextReplies(c)
	for _, cr := range replies {
		for _, kw := range cr.Keywords {
			if kw = normalize(kw); kw != "" && strings.Contains(msg, kw) {
				return Result{Reply: cr.Reply, Action: ActionInfo}
			}
		}
	}
	return Result{Reply: fallback, Action: ActionInfo}
}

func (r *Resolver) followUp(req Request, msg string) (Result, bool) {
	pending := req.Pending
	title := catalog.Title(pending)
	switch {
	case anyMatch(msg, r.m.negative):
		return Result{
			Reply:        "No problem. Let me know if there's anything else you'd like to see on your dashboard.",
			Action:       ActionInfo,
			DetectedType: pending,
		}, true
	case anyMatch(msg, r.m.affirmative):
		if existing := firstOfType(req.Widgets, pending); existing != nil {
			return Result{
				Reply:        "You already have a " + title + " widget on your dashboard.",
				Action:       ActionInfo,
				DetectedType: pending,
				Target:       existing,
			}, true
		}
		action := r.addAction(pending, "")
		return Result{
			Reply:        "Great! I've added the " + title + " widget to your dashboard.",
			Action:       ActionAdd,
			DetectedType: pending,
			Confidence:   1,
			Mutation:     action,
			Badge:        models.BadgeAdded,
		}, true
	}
	return Result{}, false
}

func (r *Resolver) analyze(msg string, widgets []models.Widget) analysis {
	a := analysis{action: ActionInfo}

	bestScore := 0
	for i, list := range r.m.actions {
		if s := score(msg, list); s > bestScore {
			a.action, bestScore = actionOrder[i], s
		}
	}
	a.show = anyMatch(msg, r.m.show)
	if a.show && bestScore == 0 {
		a.action = ActionAdd
	}
	a.format, a.hasFormat = r.m.detectFormat(msg)
	if a.hasFormat && r.m.formatVerb.MatchString(msg) {
		a.action = ActionFormatChange
	}

	a.detected, a.score = r.m.detectType(msg)
	if a.score > 0 {
		a.confidence = math.Min(1, 0.4+0.2*float64(a.score))
	}
	a.target = r.findTarget(msg, widgets)
	return a
}

// findTarget returns the first widget, in registry order, whose title or type
// name appears in msg or whose type has a matching alias.
func (r *Resolver) findTarget(msg string, widgets []models.Widget) *models.Widget {
	for i := range widgets {
		w := widgets[i]
		title := strings.TrimSpace(normalize(w.Title))
		if title != "" && strings.Contains(msg, title) {
			return &w
		}
		if strings.Contains(msg, normalize(string(w.Type))) {
			return &w
		}
		if r.m.aliasMatches(msg, w.Type) {
			return &w
		}
	}
	return nil
}

func firstOfType(widgets []models.Widget, t models.WidgetType) *models.Widget {
	for i := range widgets {
		if widgets[i].Type == t {
			w := widgets[i]
			return &w
		}
	}
	return nil
}

func (r *Resolver) dispatch(req Request, a analysis) Result {
	switch {
	case a.action == ActionFormatChange:
		return r.formatChange(req, a)
	case a.action == ActionUpdate && a.target != nil:
		return r.update(req.Message, a)
	case a.action == ActionRemove && a.target != nil:
		return r.remove(*a.target)
	}

	if a.detected == "" {
		return r.help()
	}
	if a.action == ActionUpdate || a.action == ActionRemove {
		title := catalog.Title(a.detected)
		return Result{Reply: "I couldn't find a " + title + " widget on your dashboard. Say \"add " +
			strings.ToLower(title) + "\" if you'd like me to create one."}
	}
	if a.action == ActionAdd || a.show {
		return r.add(req.Widgets, a, "")
	}
	return r.inform(req.Widgets, a)
}

func (r *Resolver) formatChange(req Request, a analysis) Result {
	target := a.target
	if target == nil && a.detected != "" {
		target = firstOfType(req.Widgets, a.detected)
	}
	if target != nil {
		return r.setFormat(*target, a.format)
	}
	if a.detected == "" {
		return Result{Reply: "Which widget would you like to show as " + formatPhrase(a.format) + "?"}
	}
	if !catalog.IsCompatible(a.detected, a.format) {
		return declineFormat(a.detected, catalog.Title(a.detected), a.format)
	}
	if a.show || a.action == ActionAdd {
		return r.add(req.Widgets, a, a.format)
	}
	title := catalog.Title(a.detected)
	return Result{
		Reply: "You don't have a " + title + " widget yet. Would you like me to add one to your dashboard?",
		// the offer is picked up by a following "yes"
		Pending: a.detected,
		Badge:   models.BadgePendingSuggestion,
	}
}

func (r *Resolver) setFormat(target models.Widget, format models.VisualizationFormat) Result {
	if !catalog.IsCompatible(target.Type, format) {
		res := declineFormat(target.Type, target.Title, format)
		res.Target = &target
		return res
	}
	f := format
	return Result{
		Reply:  "Done! The " + target.Title + " widget is now displayed as " + formatPhrase(format) + ".",
		Target: &target,
		Mutation: &dto.WidgetAction{
			ID:         r.newID(),
			Type:       dto.ActionFormatChange,
			WidgetType: target.Type,
			WidgetID:   target.WidgetID,
			Patch:      &models.WidgetPatch{VisualizationFormat: &f},
			UpdateType: dto.UpdateFormat,
			NewFormat:  format,
		},
		Badge: models.BadgeUpdated,
	}
}

func declineFormat(t models.WidgetType, title string, format models.VisualizationFormat) Result {
	return Result{
		Reply: "The " + title + " widget can't be displayed as " + formatPhrase(format) +
			". Compatible formats are: " + catalog.FormatList(t) + ".",
	}
}

func (r *Resolver) update(original string, a analysis) Result {
	target := *a.target
	msg := normalize(original)

	if m := r.m.rename.FindStringSubmatch(original); m != nil {
		if title := cleanTitle(m[1]); title != "" {
			return r.patch(target, models.WidgetPatch{Title: &title}, dto.UpdateTitle,
				"I've renamed the "+target.Title+" widget to \""+title+"\".")
		}
	}
	if a.hasFormat {
		return r.setFormat(target, a.format)
	}

	switch target.Type {
	case models.WidgetPerformanceChart:
		if m := monthsRe.FindStringSubmatch(msg); m != nil {
			return r.regeneratePerformance(target, m[1])
		}
	case models.WidgetRiskAnalysis:
		profile := ""
		switch {
		case anyMatch(msg, r.m.conservative):
			profile = "conservative"
		case anyMatch(msg, r.m.aggressive):
			profile = "aggressive"
		}
		if profile != "" {
			if data, ok := r.know.RiskProfile(profile); ok {
				return r.patch(target, models.WidgetPatch{Data: data}, dto.UpdateData,
					"I've updated the "+target.Title+" widget with a "+profile+" risk profile.")
			}
		}
	}

	switch {
	case anyMatch(msg, r.m.bigger):
		w, h := min(target.W+2, 12), target.H+1
		return r.patch(target, models.WidgetPatch{W: &w, H: &h}, dto.UpdateSize,
			"I've made the "+target.Title+" widget bigger.")
	case anyMatch(msg, r.m.smaller):
		w, h := max(target.W-2, 2), max(target.H-1, 2)
		return r.patch(target, models.WidgetPatch{W: &w, H: &h}, dto.UpdateSize,
			"I've made the "+target.Title+" widget smaller.")
	}

	return Result{
		Reply: "What would you like to change about the " + target.Title + " widget? I can switch its format (" +
			catalog.FormatList(target.Type) + "), rename it, or make it bigger or smaller.",
		Target: &target,
	}
}

func (r *Resolver) patch(target models.Widget, p models.WidgetPatch, kind dto.UpdateType, reply string) Result {
	return Result{
		Reply:  reply,
		Target: &target,
		Mutation: &dto.WidgetAction{
			ID:         r.newID(),
			Type:       dto.ActionUpdate,
			WidgetType: target.Type,
			WidgetID:   target.WidgetID,
			Patch:      &p,
			UpdateType: kind,
		},
		Badge: models.BadgeUpdated,
	}
}

func (r *Resolver) regeneratePerformance(target models.Widget, digits string) Result {
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return Result{
			Reply:  "How many months of history would you like the " + target.Title + " to show?",
			Target: &target,
		}
	}
	n = min(n, maxPerformanceMonths)

	points := make([]any, n)
	for i := 0; i < n; i++ {
		value := performanceBase + performanceStep*i + int(math.Round(r.jitter()*performanceJitter))
		points[i] = map[string]any{"month": monthLabels[i%12], "value": value}
	}
	unit := "months"
	if n == 1 {
		unit = "month"
	}
	return r.patch(target, models.WidgetPatch{Data: map[string]any{"chartData": points}}, dto.UpdateData,
		"I've updated the "+target.Title+" to show "+strconv.Itoa(n)+" "+unit+" of performance data.")
}

func (r *Resolver) remove(target models.Widget) Result {
	return Result{
		Reply:  "I've removed the " + target.Title + " widget from your dashboard.",
		Target: &target,
		Mutation: &dto.WidgetAction{
			ID:         r.newID(),
			Type:       dto.ActionRemove,
			WidgetType: target.Type,
			WidgetID:   target.WidgetID,
		},
		Badge: models.BadgeRemoved,
	}
}

func (r *Resolver) add(widgets []models.Widget, a analysis, format models.VisualizationFormat) Result {
	title := catalog.Title(a.detected)
	if existing := firstOfType(widgets, a.detected); existing != nil {
		return Result{
			Reply:  "You already have a " + title + " widget on your dashboard. Would you like me to update it instead?",
			Target: existing,
		}
	}

	reply := "I've added the " + title + " widget to your dashboard."
	if entry, ok := catalog.Lookup(a.detected); ok && entry.Description != "" {
		reply = "I've added the " + title + " widget to your dashboard. It shows " + lowerFirst(entry.Description) + "."
	}
	if a.confidence < 0.6 {
		reply = "It sounds like you're interested in " + strings.ToLower(title) + ". " + reply
	}
	if format != "" {
		reply += " It's displayed as " + formatPhrase(format) + "."
	}
	return Result{
		Reply:    reply,
		Mutation: r.addAction(a.detected, format),
		Badge:    models.BadgeAdded,
	}
}

func (r *Resolver) addAction(t models.WidgetType, format models.VisualizationFormat) *dto.WidgetAction {
	entry, _ := catalog.Lookup(t)
	if format == "" {
		format = entry.DefaultFormat
	}
	return &dto.WidgetAction{
		ID:         r.newID(),
		Type:       dto.ActionAdd,
		WidgetType: t,
		Widget: &models.Widget{
			Type:                t,
			Title:               catalog.Title(t),
			W:                   entry.W,
			H:                   entry.H,
			VisualizationFormat: format,
			Data:                r.know.Template(t),
		},
	}
}

func (r *Resolver) inform(widgets []models.Widget, a analysis) Result {
	title := catalog.Title(a.detected)
	fact := r.know.Fact(a.detected)
	if fact == "" {
		if entry, ok := catalog.Lookup(a.detected); ok {
			fact = entry.Description + "."
		}
	}
	if existing := firstOfType(widgets, a.detected); existing != nil {
		return Result{
			Reply:  fact + " You can see the details in the " + existing.Title + " widget on your dashboard.",
			Target: existing,
		}
	}
	return Result{
		Reply:   fact + " Would you like me to add a " + title + " widget to your dashboard?",
		Pending: a.detected,
		Badge:   models.BadgePendingSuggestion,
	}
}

const helpReply = "I can help you customize your dashboard and answer questions about your investments. Try asking:\n" +
	"- \"Show me market trends\"\n" +
	"- \"Convert asset allocation to a donut chart\"\n" +
	"- \"Change performance chart to 6 months\"\n" +
	"- \"Make risk analysis conservative\"\n" +
	"- \"Remove the news widget\"\n" +
	"- \"What's my cash flow?\""

func (r *Resolver) help() Result {
	return Result{Reply: helpReply, Action: ActionInfo}
}

// formatPhrase renders a format for a sentence: "a line chart", "an area chart", "cards".
func formatPhrase(f models.VisualizationFormat) string {
	name := strings.ReplaceAll(string(f), "-", " ")
	switch {
	case f == models.FormatCards:
		return name
	case strings.HasPrefix(name, "a"):
		return "an " + name
	default:
		return "a " + name
	}
}

func cleanTitle(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'.!?")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
