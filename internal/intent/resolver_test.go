package intent

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GregMSThompson/investor-portal/internal/catalog"
	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type stubKnowledge struct{}

func (stubKnowledge) Template(t models.WidgetType) map[string]any {
	return map[string]any{"template": string(t)}
}

func (stubKnowledge) Fact(t models.WidgetType) string {
	return "Fact about " + string(t) + "."
}

func (stubKnowledge) RiskProfile(name string) (map[string]any, bool) {
	switch name {
	case "conservative", "aggressive":
		return map[string]any{"riskMetrics": []any{map[string]any{"metric": "Portfolio Beta", "profile": name}}}, true
	}
	return nil, false
}

func (stubKnowledge) ContextReplies(c models.ChatContext) ([]dto.CannedReply, string) {
	switch c {
	case models.ContextDocuments:
		return []dto.CannedReply{{Keywords: []string{"tax", "k-1"}, Reply: "Your K-1 tax documents are ready."}}, "I can search your documents."
	case models.ContextCalendar:
		return nil, "I can help with your calendar."
	}
	return nil, "I can help with your messages."
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	n := 0
	return NewResolver(DefaultLexicon(), stubKnowledge{},
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("act-%d", n)
		}),
		WithJitter(func() float64 { return 0 }),
	)
}

func widgetOf(t models.WidgetType, id string) models.Widget {
	e, _ := catalog.Lookup(t)
	return models.Widget{WidgetID: id, Type: t, Title: e.Title, W: e.W, H: e.H}
}

func TestShowMeMarketTrendsOnEmptyDashboard(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve(Request{Message: "show me market trends", Context: models.ContextDashboard})

	assert.Equal(t, ActionAdd, res.Action)
	assert.Equal(t, models.WidgetMarketTrends, res.DetectedType)
	require.NotNil(t, res.Mutation)
	assert.Equal(t, dto.ActionAdd, res.Mutation.Type)
	assert.Equal(t, models.WidgetMarketTrends, res.Mutation.WidgetType)
	require.NotNil(t, res.Mutation.Widget)
	assert.Equal(t, "Market Trends", res.Mutation.Widget.Title)
	assert.Equal(t, 6, res.Mutation.Widget.W)
	assert.Equal(t, 4, res.Mutation.Widget.H)
	assert.Equal(t, map[string]any{"template": "market-trends"}, res.Mutation.Widget.Data)
	assert.Contains(t, res.Reply, "added the Market Trends widget")
	assert.Equal(t, models.BadgeAdded, res.Badge)
	assert.Empty(t, res.Pending)
}

func TestAddDeclinesExistingType(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{widgetOf(models.WidgetMarketTrends, "mt")}

	res := r.Resolve(Request{Message: "add market trends", Widgets: widgets})

	assert.Equal(t, ActionAdd, res.Action)
	assert.Nil(t, res.Mutation)
	assert.Contains(t, res.Reply, "already have a Market Trends widget")
	assert.Contains(t, res.Reply, "update it instead")
}

func TestPerformanceMonthsRegeneratesData(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{
		widgetOf(models.WidgetPortfolioOverview, "p"),
		widgetOf(models.WidgetPerformanceChart, "perf"),
	}

	res := r.Resolve(Request{Message: "change performance chart to 3 months", Widgets: widgets})

	require.NotNil(t, res.Mutation)
	assert.Equal(t, dto.ActionUpdate, res.Mutation.Type)
	assert.Equal(t, dto.UpdateData, res.Mutation.UpdateType)
	assert.Equal(t, "perf", res.Mutation.WidgetID)
	require.NotNil(t, res.Mutation.Patch)
	points, ok := res.Mutation.Patch.Data["chartData"].([]any)
	require.True(t, ok)
	require.Len(t, points, 3)
	for i, want := range []string{"Jan", "Feb", "Mar"} {
		p := points[i].(map[string]any)
		assert.Equal(t, want, p["month"])
		assert.Equal(t, 2200000+50000*i, p["value"])
	}
	assert.Equal(t, models.BadgeUpdated, res.Badge)
}

func TestPerformanceMonthsWrapAndCap(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{widgetOf(models.WidgetPerformanceChart, "perf")}

	res := r.Resolve(Request{Message: "update performance to 100 months", Widgets: widgets})
	require.NotNil(t, res.Mutation)
	points := res.Mutation.Patch.Data["chartData"].([]any)
	assert.Len(t, points, maxPerformanceMonths)
	assert.Equal(t, "Jan", points[12].(map[string]any)["month"])

	res = r.Resolve(Request{Message: "update performance to 0 months", Widgets: widgets})
	assert.Nil(t, res.Mutation)
	assert.Contains(t, res.Reply, "How many months")
}

func TestPerformanceJitterIsBounded(t *testing.T) {
	r := NewResolver(DefaultLexicon(), stubKnowledge{})
	widgets := []models.Widget{widgetOf(models.WidgetPerformanceChart, "perf")}

	res := r.Resolve(Request{Message: "change performance chart to 12 months", Widgets: widgets})
	require.NotNil(t, res.Mutation)
	for i, raw := range res.Mutation.Patch.Data["chartData"].([]any) {
		v := raw.(map[string]any)["value"].(int)
		center := 2200000 + 50000*i
		assert.GreaterOrEqual(t, v, center-25000)
		assert.LessOrEqual(t, v, center+25000)
	}
}

func TestConvertAllocationToLineChartIsDeclined(t *testing.T) {
	r := newTestResolver(t)
	const allowed = "pie-chart, donut-chart, bar-chart, table, cards"

	for _, widgets := range [][]models.Widget{nil, {widgetOf(models.WidgetAssetAllocation, "alloc")}} {
		res := r.Resolve(Request{Message: "convert asset allocation to line chart", Widgets: widgets})
		assert.Equal(t, ActionFormatChange, res.Action)
		assert.Equal(t, models.FormatLineChart, res.Format)
		assert.Nil(t, res.Mutation)
		assert.Contains(t, res.Reply, allowed)
	}
}

func TestFormatChangeAcrossEveryTypeAndFormat(t *testing.T) {
	r := newTestResolver(t)
	for _, entry := range catalog.All() {
		for _, format := range catalog.AllFormats {
			name := fmt.Sprintf("%s/%s", entry.Type, format)
			t.Run(name, func(t *testing.T) {
				widgets := []models.Widget{widgetOf(entry.Type, "target")}
				msg := fmt.Sprintf("convert the %s to %s",
					strings.ReplaceAll(string(entry.Type), "-", " "),
					strings.ReplaceAll(string(format), "-", " "))

				res := r.Resolve(Request{Message: msg, Widgets: widgets})

				if !catalog.IsCompatible(entry.Type, format) {
					assert.Nil(t, res.Mutation)
					assert.Contains(t, res.Reply, "can't be displayed")
					return
				}
				require.NotNil(t, res.Mutation)
				assert.Equal(t, dto.ActionFormatChange, res.Mutation.Type)
				assert.Equal(t, "target", res.Mutation.WidgetID)
				assert.Equal(t, format, res.Mutation.NewFormat)
				require.NotNil(t, res.Mutation.Patch.VisualizationFormat)
				assert.Equal(t, format, *res.Mutation.Patch.VisualizationFormat)
			})
		}
	}
}

func TestFormatChangeForMissingWidget(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve(Request{Message: "show me cash flow as a table"})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, dto.ActionAdd, res.Mutation.Type)
	assert.Equal(t, models.FormatTable, res.Mutation.Widget.VisualizationFormat)

	res = r.Resolve(Request{Message: "switch cash flow to an area chart"})
	assert.Nil(t, res.Mutation)
	assert.Equal(t, models.WidgetCashFlow, res.Pending)

	res = r.Resolve(Request{Message: "convert it to a table"})
	assert.Nil(t, res.Mutation)
	assert.Contains(t, res.Reply, "Which widget")
}

func TestRemoveRiskAnalysis(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{
		widgetOf(models.WidgetPortfolioOverview, "p"),
		widgetOf(models.WidgetRiskAnalysis, "risk-1"),
	}

	res := r.Resolve(Request{Message: "remove the risk analysis widget", Widgets: widgets})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, dto.ActionRemove, res.Mutation.Type)
	assert.Equal(t, "risk-1", res.Mutation.WidgetID)
	assert.Contains(t, res.Reply, "Risk Analysis")
	assert.Equal(t, models.BadgeRemoved, res.Badge)

	res = r.Resolve(Request{Message: "remove the risk analysis widget", Widgets: widgets[:1]})
	assert.Nil(t, res.Mutation)
	assert.Empty(t, res.Pending)
	assert.NotEmpty(t, res.Reply)
}

func TestRemoveMissingWidgetWithShowPhrase(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{
		widgetOf(models.WidgetPortfolioOverview, "p"),
		widgetOf(models.WidgetPerformanceChart, "perf"),
	}
	tests := []struct {
		msg   string
		title string
	}{
		{"i want to remove the news widget", "Market News"},
		{"i want to delete the risk analysis widget", "Risk Analysis"},
		{"show me how to hide cash flow", "Cash Flow"},
	}
	for _, tt := range tests {
		res := r.Resolve(Request{Message: tt.msg, Widgets: widgets})
		assert.Nil(t, res.Mutation, tt.msg)
		assert.Equal(t, ActionRemove, res.Action, tt.msg)
		assert.Equal(t, models.BadgeNone, res.Badge, tt.msg)
		assert.Contains(t, res.Reply, "couldn't find a "+tt.title, tt.msg)
	}
}

func TestRiskProfiles(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{widgetOf(models.WidgetRiskAnalysis, "risk-1")}

	for _, tt := range []struct {
		msg, want string
	}{
		{"make risk analysis conservative", "conservative"},
		{"make my risk aggressive", "aggressive"},
		{"update risk to be conservative not aggressive", "conservative"},
	} {
		res := r.Resolve(Request{Message: tt.msg, Widgets: widgets})
		require.NotNil(t, res.Mutation, tt.msg)
		metrics := res.Mutation.Patch.Data["riskMetrics"].([]any)
		assert.Equal(t, tt.want, metrics[0].(map[string]any)["profile"], tt.msg)
	}
}

func TestUpdateWithoutSubPatternAsksForClarification(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{widgetOf(models.WidgetCashFlow, "cf")}

	res := r.Resolve(Request{Message: "update the cash flow", Widgets: widgets})
	assert.Nil(t, res.Mutation)
	assert.Contains(t, res.Reply, "What would you like to change")
	require.NotNil(t, res.Target)
	assert.Equal(t, "cf", res.Target.WidgetID)
}

func TestRenameAndResize(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{widgetOf(models.WidgetCashFlow, "cf")}

	res := r.Resolve(Request{Message: `rename cash flow to "Liquidity Table"`, Widgets: widgets})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, dto.UpdateTitle, res.Mutation.UpdateType)
	assert.Equal(t, "Liquidity Table", *res.Mutation.Patch.Title)

	res = r.Resolve(Request{Message: "make the cash flow bigger", Widgets: widgets})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, dto.UpdateSize, res.Mutation.UpdateType)
	assert.Equal(t, 8, *res.Mutation.Patch.W)
	assert.Equal(t, 4, *res.Mutation.Patch.H)
}

func TestInformationalSetsPendingSuggestion(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve(Request{Message: "what's my cash flow like?"})
	assert.Nil(t, res.Mutation)
	assert.Equal(t, models.WidgetCashFlow, res.Pending)
	assert.Equal(t, models.BadgePendingSuggestion, res.Badge)
	assert.True(t, strings.HasPrefix(res.Reply, "Fact about cash-flow."))
	assert.True(t, strings.HasSuffix(res.Reply, "?"))

	widgets := []models.Widget{widgetOf(models.WidgetCashFlow, "cf")}
	res = r.Resolve(Request{Message: "what's my cash flow like?", Widgets: widgets})
	assert.Empty(t, res.Pending)
	assert.Nil(t, res.Mutation)
}

func TestAffirmativeFollowUpAddsOnce(t *testing.T) {
	r := newTestResolver(t)

	first := r.Resolve(Request{Message: "tell me about my risk", Pending: ""})
	require.Equal(t, models.WidgetRiskAnalysis, first.Pending)

	second := r.Resolve(Request{Message: "yes", Pending: first.Pending})
	require.NotNil(t, second.Mutation)
	assert.Equal(t, dto.ActionAdd, second.Mutation.Type)
	assert.Equal(t, models.WidgetRiskAnalysis, second.Mutation.WidgetType)
	assert.Empty(t, second.Pending)

	third := r.Resolve(Request{Message: "yes", Pending: second.Pending})
	assert.Nil(t, third.Mutation)
}

func TestFollowUpBranches(t *testing.T) {
	r := newTestResolver(t)
	present := []models.Widget{widgetOf(models.WidgetNewsFeed, "news")}

	res := r.Resolve(Request{Message: "sure", Pending: models.WidgetNewsFeed, Widgets: present})
	assert.Nil(t, res.Mutation)
	assert.Contains(t, res.Reply, "already have")
	assert.Empty(t, res.Pending)

	res = r.Resolve(Request{Message: "no thanks", Pending: models.WidgetNewsFeed})
	assert.Nil(t, res.Mutation)
	assert.Empty(t, res.Pending)
	assert.Contains(t, res.Reply, "No problem")

	// "now" must not read as "no"
	res = r.Resolve(Request{Message: "show me market trends now", Pending: models.WidgetNewsFeed})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, models.WidgetMarketTrends, res.Mutation.WidgetType)
	assert.Empty(t, res.Pending)

	res = r.Resolve(Request{Message: "what about upcoming events?", Pending: models.WidgetNewsFeed})
	assert.Equal(t, models.WidgetUpcomingEvents, res.Pending)
}

func TestContextTabsNeverMutate(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve(Request{Message: "Where is my K-1 tax form?", Context: models.ContextDocuments})
	assert.Equal(t, "Your K-1 tax documents are ready.", res.Reply)
	assert.Nil(t, res.Mutation)

	res = r.Resolve(Request{Message: "add market trends", Context: models.ContextCalendar, Pending: models.WidgetNewsFeed})
	assert.Equal(t, "I can help with your calendar.", res.Reply)
	assert.Nil(t, res.Mutation)
	assert.Empty(t, res.Pending)
}

func TestUnrecognisedInputGetsHelp(t *testing.T) {
	r := newTestResolver(t)
	for _, msg := range []string{"", "   ", "asdf qwerty", "add something nice"} {
		res := r.Resolve(Request{Message: msg})
		assert.Equal(t, helpReply, res.Reply, msg)
		assert.Nil(t, res.Mutation, msg)
		assert.Empty(t, res.Pending, msg)
	}
}

func TestActionScoring(t *testing.T) {
	r := newTestResolver(t)
	tests := []struct {
		msg  string
		want Action
	}{
		{"add the news", ActionAdd},
		{"get rid of the news add", ActionRemove},
		{"add or remove news", ActionAdd},
		{"what is the news", ActionInfo},
		{"news", ActionInfo},
		{"change the news into a list", ActionFormatChange},
	}
	for _, tt := range tests {
		a := r.analyze(normalize(tt.msg), nil)
		assert.Equal(t, tt.want, a.action, tt.msg)
	}
}

func TestTargetResolutionUsesRegistryOrder(t *testing.T) {
	r := newTestResolver(t)
	widgets := []models.Widget{
		widgetOf(models.WidgetNewsFeed, "first-news"),
		widgetOf(models.WidgetNewsFeed, "second-news"),
	}
	widgets[1].Title = "Morning Headlines"

	res := r.Resolve(Request{Message: "delete morning headlines", Widgets: widgets})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, "second-news", res.Mutation.WidgetID)

	res = r.Resolve(Request{Message: "delete the news", Widgets: widgets})
	require.NotNil(t, res.Mutation)
	assert.Equal(t, "first-news", res.Mutation.WidgetID)
}
