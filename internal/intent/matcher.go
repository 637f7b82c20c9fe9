package intent

import (
	"regexp"
	"sort"
	"strings"

	"github.com/GregMSThompson/investor-portal/internal/models"
)

var (
	normalizer = strings.NewReplacer("-", " ", "_", " ", "’", "'", "‘", "'")
	monthsRe   = regexp.MustCompile(`\b(\d{1,4})\s*months?\b`)
)

func normalize(msg string) string {
	return strings.ToLower(normalizer.Replace(msg))
}

// phrase is one compiled keyword. Its weight is its word count.
type phrase struct {
	text   string
	weight int
	re     *regexp.Regexp
}

func compilePhrase(text string) phrase {
	words := strings.Fields(normalize(text))
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	pattern := `\b` + strings.Join(quoted, `\s+`) + `(?:s|es)?\b`
	return phrase{text: strings.Join(words, " "), weight: len(words), re: regexp.MustCompile(pattern)}
}

func compilePhrases(list []string) []phrase {
	out := make([]phrase, 0, len(list))
	for _, text := range list {
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, compilePhrase(text))
	}
	return out
}

func (p phrase) match(msg string) bool {
	return p.re.MatchString(msg)
}

// score sums the weight of every phrase found in msg.
func score(msg string, list []phrase) int {
	total := 0
	for _, p := range list {
		if p.match(msg) {
			total += p.weight
		}
	}
	return total
}

func anyMatch(msg string, list []phrase) bool {
	for _, p := range list {
		if p.match(msg) {
			return true
		}
	}
	return false
}

type formatEntry struct {
	format models.VisualizationFormat
	phrase
}

type typePhrases struct {
	widgetType models.WidgetType
	phrases    []phrase
}

// matcher is a Lexicon compiled to regular expressions.
type matcher struct {
	affirmative []phrase
	negative    []phrase
	actions     [4][]phrase
	show        []phrase
	formatVerb  *regexp.Regexp
	formats     []formatEntry
	types       []typePhrases
	aliases     []typePhrases

	conservative []phrase
	aggressive   []phrase
	bigger       []phrase
	smaller      []phrase
	rename       *regexp.Regexp
}

func alternation(list []string) string {
	parts := make([]string, 0, len(list))
	for _, text := range list {
		words := strings.Fields(normalize(text))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		parts = append(parts, strings.Join(words, `\s+`))
	}
	if len(parts) == 0 {
		// matches nothing
		return `[^\s\S]`
	}
	return `(?:` + strings.Join(parts, "|") + `)`
}

func compileTable(table map[string][]string) []typePhrases {
	out := make([]typePhrases, 0, len(table))
	for _, t := range models.WidgetTypes {
		if list, ok := table[string(t)]; ok {
			out = append(out, typePhrases{widgetType: t, phrases: compilePhrases(list)})
		}
	}
	return out
}

func compile(lex Lexicon) *matcher {
	m := &matcher{
		affirmative: compilePhrases(lex.Affirmative),
		negative:    compilePhrases(lex.Negative),
		actions: [4][]phrase{
			compilePhrases(lex.Actions.Add),
			compilePhrases(lex.Actions.Update),
			compilePhrases(lex.Actions.Remove),
			compilePhrases(lex.Actions.Info),
		},
		show:         compilePhrases(lex.ShowPhrases),
		formatVerb:   regexp.MustCompile(`\b` + alternation(lex.FormatVerbs) + `\b.*\b` + alternation(lex.FormatLinks) + `\b`),
		types:        compileTable(lex.Types),
		aliases:      compileTable(lex.Aliases),
		conservative: compilePhrases(lex.Conservative),
		aggressive:   compilePhrases(lex.Aggressive),
		bigger:       compilePhrases(lex.Bigger),
		smaller:      compilePhrases(lex.Smaller),
		rename:       regexp.MustCompile(`(?i)\b` + alternation(lex.Rename) + `\b(?:.*?\b(?:to|as)\b)?\s*(.+)$`),
	}
	for _, f := range orderedFormats(lex.Formats) {
		for _, text := range lex.Formats[string(f)] {
			if strings.TrimSpace(text) == "" {
				continue
			}
			m.formats = append(m.formats, formatEntry{format: f, phrase: compilePhrase(text)})
		}
	}
	// longest phrases first so "bar chart" wins over "bar" at the same offset
	sort.SliceStable(m.formats, func(i, j int) bool {
		return len(m.formats[i].text) > len(m.formats[j].text)
	})
	return m
}

func orderedFormats(table map[string][]string) []models.VisualizationFormat {
	out := make([]models.VisualizationFormat, 0, len(table))
	for f := range table {
		out = append(out, models.VisualizationFormat(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// detectFormat returns the format named last in msg. When several phrases
// start at the same offset the longest one wins.
func (m *matcher) detectFormat(msg string) (models.VisualizationFormat, bool) {
	var (
		best      models.VisualizationFormat
		bestStart = -1
		bestLen   = 0
	)
	for _, fp := range m.formats {
		for _, loc := range fp.re.FindAllStringIndex(msg, -1) {
			length := loc[1] - loc[0]
			if loc[0] > bestStart || (loc[0] == bestStart && length > bestLen) {
				best, bestStart, bestLen = fp.format, loc[0], length
			}
		}
	}
	return best, bestStart >= 0
}

// detectType scores every widget type and returns the best one. Ties go to
// the type listed first in the catalog.
func (m *matcher) detectType(msg string) (models.WidgetType, int) {
	var (
		best      models.WidgetType
		bestScore int
	)
	for _, tp := range m.types {
		if s := score(msg, tp.phrases); s > bestScore {
			best, bestScore = tp.widgetType, s
		}
	}
	return best, bestScore
}

func (m *matcher) aliasMatches(msg string, t models.WidgetType) bool {
	for _, tp := range m.aliases {
		if tp.widgetType == t {
			return anyMatch(msg, tp.phrases)
		}
	}
	return false
}
