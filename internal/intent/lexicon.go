package intent

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/GregMSThompson/investor-portal/internal/catalog"
	"github.com/GregMSThompson/investor-portal/internal/models"
)

// DefaultLexiconVersion identifies the compiled-in keyword tables.
const DefaultLexiconVersion = "2025.1"

// Lexicon holds every keyword table the resolver scores against. Phrases are
// matched on whole words, case-insensitively, with hyphens read as spaces.
// A trailing "s" or "es" on the message side is tolerated.
type Lexicon struct {
	Version string `toml:"version"`

	Affirmative []string `toml:"affirmative"`
	Negative    []string `toml:"negative"`

	Actions ActionWords `toml:"actions"`

	// A format change needs one of Verbs followed later by one of Links.
	FormatVerbs []string `toml:"format_verbs"`
	FormatLinks []string `toml:"format_links"`

	// ShowPhrases turn any detected widget type into an add request.
	ShowPhrases []string `toml:"show_phrases"`

	Formats map[string][]string `toml:"formats"`
	Types   map[string][]string `toml:"types"`
	Aliases map[string][]string `toml:"aliases"`

	Conservative []string `toml:"conservative"`
	Aggressive   []string `toml:"aggressive"`
	Bigger       []string `toml:"bigger"`
	Smaller      []string `toml:"smaller"`
	Rename       []string `toml:"rename"`
}

type ActionWords struct {
	Add    []string `toml:"add"`
	Update []string `toml:"update"`
	Remove []string `toml:"remove"`
	Info   []string `toml:"info"`
}

func DefaultLexicon() Lexicon {
	return Lexicon{
		Version: DefaultLexiconVersion,

		Affirmative: []string{"yes", "yeah", "yep", "yup", "sure", "ok", "okay", "go ahead", "do it", "add it", "sounds good", "absolutely", "of course", "y"},
		Negative:    []string{"no", "nope", "nah", "cancel", "not now", "no thanks", "don't", "do not", "skip", "never mind", "not really", "not sure", "n"},

		Actions: ActionWords{
			Add:    []string{"add", "create", "insert", "include", "put", "new widget", "give me", "set up", "pin"},
			Update: []string{"update", "change", "modify", "edit", "adjust", "refresh", "rename", "resize", "make", "switch", "convert", "set", "turn"},
			Remove: []string{"remove", "delete", "get rid of", "hide", "drop", "take off", "take away", "discard", "close"},
			Info:   []string{"what", "how", "why", "when", "which", "tell me", "explain", "describe", "details", "information", "how much", "how is", "what is"},
		},

		FormatVerbs: []string{"convert", "change", "switch", "turn", "transform", "make", "show", "display", "view", "render", "update", "set"},
		FormatLinks: []string{"to", "into", "as", "in"},

		ShowPhrases: []string{"show me", "i want", "display"},

		Formats: map[string][]string{
			string(models.FormatBarChart):   {"bar chart", "bar graph", "bar", "column chart", "histogram"},
			string(models.FormatLineChart):  {"line chart", "line graph", "line"},
			string(models.FormatPieChart):   {"pie chart", "pie"},
			string(models.FormatDonutChart): {"donut chart", "doughnut chart", "donut", "doughnut", "ring chart"},
			string(models.FormatAreaChart):  {"area chart", "area graph", "area"},
			string(models.FormatTable):      {"table", "tabular", "spreadsheet", "grid"},
			string(models.FormatCards):      {"cards", "card", "tiles", "tile"},
			string(models.FormatList):       {"list", "bullet points", "bullets"},
		},

		Types: map[string][]string{
			string(models.WidgetPortfolioOverview):  {"portfolio", "portfolio overview", "overview", "total value", "portfolio value", "net worth", "holdings", "total return"},
			string(models.WidgetPerformanceChart):   {"performance", "performance chart", "growth", "returns over time", "historical", "history", "monthly performance"},
			string(models.WidgetAssetAllocation):    {"allocation", "asset allocation", "diversification", "diversified", "asset mix", "asset class", "breakdown"},
			string(models.WidgetRecentTransactions): {"transaction", "recent transactions", "capital call", "distribution", "payment", "activity"},
			string(models.WidgetNewsFeed):           {"news", "market news", "news feed", "headline", "article"},
			string(models.WidgetMarketTrends):       {"trend", "market trends", "market", "sector", "sector performance", "indicator"},
			string(models.WidgetRiskAnalysis):       {"risk", "risk analysis", "risk metrics", "volatility", "beta", "sharpe", "sharpe ratio", "drawdown"},
			string(models.WidgetCashFlow):           {"cash flow", "cashflow", "inflow", "outflow", "liquidity", "net cash"},
			string(models.WidgetUpcomingEvents):     {"event", "upcoming events", "upcoming", "calendar", "meeting", "deadline", "schedule"},
		},

		Aliases: map[string][]string{
			string(models.WidgetPortfolioOverview):  {"portfolio"},
			string(models.WidgetPerformanceChart):   {"performance"},
			string(models.WidgetAssetAllocation):    {"allocation"},
			string(models.WidgetRecentTransactions): {"transaction"},
			string(models.WidgetNewsFeed):           {"news"},
			string(models.WidgetMarketTrends):       {"trend"},
			string(models.WidgetRiskAnalysis):       {"risk"},
			string(models.WidgetCashFlow):           {"cash flow", "cashflow"},
			string(models.WidgetUpcomingEvents):     {"event", "calendar"},
		},

		Conservative: []string{"conservative", "low risk", "safer", "defensive"},
		Aggressive:   []string{"aggressive", "high risk", "riskier", "growth oriented"},
		Bigger:       []string{"bigger", "larger", "wider", "expand", "enlarge"},
		Smaller:      []string{"smaller", "narrower", "shrink", "compact"},
		Rename:       []string{"rename", "retitle", "call it"},
	}
}

// LoadLexicon reads a TOML override file on top of the default tables. Lists
// present in the file replace the default list; map entries replace the
// default entry for that key only. An empty path returns the defaults.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()
	if strings.TrimSpace(path) == "" {
		return lex, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Lexicon{}, fmt.Errorf("lexicon file %s does not exist", path)
		}
		return Lexicon{}, fmt.Errorf("open lexicon: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}
	return ParseLexicon(bytes)
}

// ParseLexicon applies a TOML override document to the default tables.
func ParseLexicon(data []byte) (Lexicon, error) {
	var override Lexicon
	if err := toml.Unmarshal(data, &override); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}
	lex := DefaultLexicon().merge(override)
	if err := lex.Validate(); err != nil {
		return Lexicon{}, err
	}
	return lex, nil
}

func (l Lexicon) merge(o Lexicon) Lexicon {
	if o.Version != "" {
		l.Version = o.Version
	} else {
		l.Version += "+custom"
	}
	pick := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	pick(&l.Affirmative, o.Affirmative)
	pick(&l.Negative, o.Negative)
	pick(&l.Actions.Add, o.Actions.Add)
	pick(&l.Actions.Update, o.Actions.Update)
	pick(&l.Actions.Remove, o.Actions.Remove)
	pick(&l.Actions.Info, o.Actions.Info)
	pick(&l.FormatVerbs, o.FormatVerbs)
	pick(&l.FormatLinks, o.FormatLinks)
	pick(&l.ShowPhrases, o.ShowPhrases)
	pick(&l.Conservative, o.Conservative)
	pick(&l.Aggressive, o.Aggressive)
	pick(&l.Bigger, o.Bigger)
	pick(&l.Smaller, o.Smaller)
	pick(&l.Rename, o.Rename)

	l.Formats = mergeTable(l.Formats, o.Formats)
	l.Types = mergeTable(l.Types, o.Types)
	l.Aliases = mergeTable(l.Aliases, o.Aliases)
	return l
}

func mergeTable(base, override map[string][]string) map[string][]string {
	out := make(map[string][]string, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// Validate checks that every table key names a known widget type or format.
func (l Lexicon) Validate() error {
	for k := range l.Types {
		if !catalog.IsValidType(models.WidgetType(k)) {
			return fmt.Errorf("lexicon: unknown widget type %q in types", k)
		}
	}
	for k := range l.Aliases {
		if !catalog.IsValidType(models.WidgetType(k)) {
			return fmt.Errorf("lexicon: unknown widget type %q in aliases", k)
		}
	}
	for k := range l.Formats {
		if !catalog.IsValidFormat(models.VisualizationFormat(k)) {
			return fmt.Errorf("lexicon: unknown format %q in formats", k)
		}
	}
	if len(l.Affirmative) == 0 || len(l.Negative) == 0 {
		return errors.New("lexicon: affirmative and negative lists must not be empty")
	}
	return nil
}

// Encode renders the lexicon as TOML.
func (l Lexicon) Encode() ([]byte, error) {
	return toml.Marshal(l)
}
