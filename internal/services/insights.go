package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/GregMSThompson/investor-portal/internal/dto"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

type widgetLister interface {
	List(ctx context.Context, uid string) ([]models.Widget, error)
}

type insightsService struct {
	widgets widgetLister
}

func NewInsightsService(widgets widgetLister) *insightsService {
	return &insightsService{widgets: widgets}
}

// GetInsights reads the user's dashboard and derives observations from the
// payloads of the widgets on it.
func (s *insightsService) GetInsights(ctx context.Context, uid string) ([]dto.Insight, error) {
	widgets, err := s.widgets.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	return Insights(widgets), nil
}

// Insights is deterministic: the same widgets always give the same list,
// ordered by priority and then by rule order.
func Insights(widgets []models.Widget) []dto.Insight {
	var out []dto.Insight
	if w := findWidget(widgets, models.WidgetPortfolioOverview); w != nil {
		out = append(out, portfolioInsights(w)...)
	}
	if w := findWidget(widgets, models.WidgetAssetAllocation); w != nil {
		out = append(out, allocationInsights(w)...)
	}
	if w := findWidget(widgets, models.WidgetRecentTransactions); w != nil {
		out = append(out, transactionInsights(w)...)
	}
	if w := findWidget(widgets, models.WidgetMarketTrends); w != nil {
		out = append(out, trendInsights(w)...)
	}
	if w := findWidget(widgets, models.WidgetRiskAnalysis); w != nil {
		out = append(out, riskInsights(w)...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityRank(out[i].Priority) > priorityRank(out[j].Priority)
	})
	if out == nil {
		out = []dto.Insight{}
	}
	return out
}

func priorityRank(p dto.InsightPriority) int {
	switch p {
	case dto.PriorityHigh:
		return 3
	case dto.PriorityMedium:
		return 2
	default:
		return 1
	}
}

func findWidget(widgets []models.Widget, t models.WidgetType) *models.Widget {
	for i := range widgets {
		if widgets[i].Type == t && widgets[i].Data != nil {
			return &widgets[i]
		}
	}
	return nil
}

func insight(id string, kind dto.InsightKind, p dto.InsightPriority, w *models.Widget, title, desc string) dto.Insight {
	return dto.Insight{
		ID:           id,
		Kind:         kind,
		Title:        title,
		Description:  desc,
		WidgetSource: []string{w.Title},
		Priority:     p,
	}
}

func portfolioInsights(w *models.Widget) []dto.Insight {
	var out []dto.Insight
	if ret, ok := number(w.Data["totalReturn"]); ok && ret > 15 {
		out = append(out, insight("portfolio-performance", dto.InsightPositive, dto.PriorityHigh, w,
			"Strong Portfolio Performance",
			fmt.Sprintf("Your portfolio has returned %s%% in total, well ahead of typical market benchmarks across your fund holdings.", trimFloat(ret))))
	}
	if change, ok := number(w.Data["monthlyChange"]); ok {
		switch {
		case change > 2:
			out = append(out, insight("monthly-growth", dto.InsightPositive, dto.PriorityMedium, w,
				"Positive Monthly Momentum",
				fmt.Sprintf("Your portfolio gained %s%% this month, pointing to broad strength across your fund positions.", trimFloat(change))))
		case change < -2:
			out = append(out, insight("monthly-decline", dto.InsightNegative, dto.PriorityHigh, w,
				"Monthly Portfolio Decline",
				fmt.Sprintf("Your portfolio declined %s%% this month. Review the individual fund results and the market conditions behind them.", trimFloat(math.Abs(change)))))
		}
	}
	return out
}

func allocationInsights(w *models.Widget) []dto.Insight {
	rows := records(w.Data["allocations"])
	if len(rows) == 0 {
		return nil
	}
	var out []dto.Insight
	top := math.Inf(-1)
	for _, row := range rows {
		pct, _ := number(row["percentage"])
		if pct > top {
			top = pct
		}
		if row["category"] == "Private Equity" && pct >= 40 {
			value, _ := number(row["value"])
			out = append(out, insight("pe-concentration", dto.InsightInfo, dto.PriorityMedium, w,
				"Private Equity Focus",
				fmt.Sprintf("Private equity makes up %s%% of your portfolio (%s). The asset class offers higher return potential with lower liquidity.", trimFloat(pct), money(value))))
		}
	}
	if top > 50 {
		out = append(out, insight("concentration-risk", dto.InsightAlert, dto.PriorityHigh, w,
			"Portfolio Concentration Alert",
			fmt.Sprintf("Your largest allocation is %s%%. Spreading capital across more asset classes would reduce concentration risk.", trimFloat(top))))
	} else {
		out = append(out, insight("good-diversification", dto.InsightPositive, dto.PriorityLow, w,
			"Well-Diversified Portfolio",
			"Your capital is spread across several asset classes, which helps balance risk and return."))
	}
	return out
}

func transactionInsights(w *models.Widget) []dto.Insight {
	rows := records(w.Data["transactions"])
	if len(rows) == 0 {
		return nil
	}
	var distributions, calls float64
	for _, row := range rows {
		amount, _ := number(row["amount"])
		switch row["type"] {
		case "Distribution":
			distributions += amount
		case "Capital Call":
			calls += math.Abs(amount)
		}
	}
	switch {
	case distributions > calls:
		return []dto.Insight{insight("positive-cashflow", dto.InsightPositive, dto.PriorityMedium, w,
			"Positive Cash Flow Period",
			fmt.Sprintf("Recent distributions (%s) exceed capital calls (%s), so your funds are returning net cash.", money(distributions), money(calls)))}
	case calls > distributions*2:
		return []dto.Insight{insight("high-capital-calls", dto.InsightInfo, dto.PriorityMedium, w,
			"Active Investment Period",
			fmt.Sprintf("Capital calls (%s) far exceed distributions, so your funds are actively deploying capital.", money(calls)))}
	}
	return nil
}

func trendInsights(w *models.Widget) []dto.Insight {
	rows := records(w.Data["trends"])
	var up, down []map[string]any
	for _, row := range rows {
		switch row["trend"] {
		case "up":
			up = append(up, row)
		case "down":
			down = append(down, row)
		}
	}
	var out []dto.Insight
	if len(up) >= 3 {
		best := extreme(up, func(a, b float64) bool { return a > b })
		pct, _ := number(best["percentage"])
		out = append(out, insight("market-momentum", dto.InsightPositive, dto.PriorityMedium, w,
			"Favorable Market Conditions",
			fmt.Sprintf("Several sectors are trending up, led by %v at +%s%%.", best["sector"], trimFloat(pct))))
	}
	if len(down) > 0 {
		worst := extreme(down, func(a, b float64) bool { return a < b })
		pct, _ := number(worst["percentage"])
		out = append(out, insight("sector-headwinds", dto.InsightNeutral, dto.PriorityMedium, w,
			"Sector-Specific Headwinds",
			fmt.Sprintf("%v is down %s%%. Watch funds with significant exposure to the sector.", worst["sector"], trimFloat(math.Abs(pct)))))
	}
	return out
}

func riskInsights(w *models.Widget) []dto.Insight {
	metrics := make(map[string]float64)
	for _, row := range records(w.Data["riskMetrics"]) {
		name, _ := row["metric"].(string)
		if v, ok := number(row["value"]); ok {
			metrics[name] = v
		}
	}
	var out []dto.Insight
	if sharpe, ok := metrics["Sharpe Ratio"]; ok && sharpe > 1.3 {
		out = append(out, insight("excellent-risk-return", dto.InsightPositive, dto.PriorityHigh, w,
			"Excellent Risk-Adjusted Returns",
			fmt.Sprintf("A Sharpe ratio of %s means strong returns relative to the risk taken.", trimFloat(sharpe))))
	}
	if vol, ok := metrics["Volatility"]; ok && vol < 15 {
		out = append(out, insight("low-volatility", dto.InsightPositive, dto.PriorityLow, w,
			"Stable Portfolio Performance",
			fmt.Sprintf("Volatility of %s%% indicates steady performance suited to investors seeking consistent returns.", trimFloat(vol))))
	}
	return out
}

// extreme returns the first row whose percentage beats every other row under better.
func extreme(rows []map[string]any, better func(a, b float64) bool) map[string]any {
	pick := rows[0]
	pickPct, _ := number(pick["percentage"])
	for _, row := range rows[1:] {
		if pct, _ := number(row["percentage"]); better(pct, pickPct) {
			pick, pickPct = row, pct
		}
	}
	return pick
}

// records reads a payload list of objects as decoded from YAML, JSON or Firestore.
func records(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func trimFloat(f float64) string {
	return fmt.Sprintf("%g", f)
}

var moneyPrinter = message.NewPrinter(language.English)

// money renders whole dollars with thousands separators.
func money(f float64) string {
	return moneyPrinter.Sprintf("$%d", int64(math.Round(f)))
}
