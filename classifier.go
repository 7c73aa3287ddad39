package chatbot

import (
	"regexp"
	"strings"
)

// KeywordConfig holds the lexical keyword sets the classifier matches
// against. The sets are data so vocabulary can be extended per locale
// without touching control flow.
type KeywordConfig struct {
	// Visualization triggers detection of any chart or table request.
	Visualization []string `yaml:"visualization"`

	// Comparison, Timeline, Distribution and Table pick the chart
	// family, checked in that order. Anything else falls back to bar.
	Comparison   []string `yaml:"comparison"`
	Timeline     []string `yaml:"timeline"`
	Distribution []string `yaml:"distribution"`
	Table        []string `yaml:"table"`
}

// DefaultKeywords returns the built-in bilingual (Indonesian/English)
// keyword sets.
func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		Visualization: []string{
			"grafik", "chart", "plot", "visualisasi", "tabel", "table",
			"diagram", "statistik", "data", "perbandingan", "trend",
		},
		Comparison:   []string{"perbandingan", "compare", "vs"},
		Timeline:     []string{"trend", "waktu", "time", "tahun"},
		Distribution: []string{"distribusi", "percentage", "persen"},
		Table:        []string{"tabel", "table", "list"},
	}
}

// withDefaults fills empty keyword sets with the built-in ones.
func (k KeywordConfig) withDefaults() KeywordConfig {
	def := DefaultKeywords()
	if len(k.Visualization) == 0 {
		k.Visualization = def.Visualization
	}
	if len(k.Comparison) == 0 {
		k.Comparison = def.Comparison
	}
	if len(k.Timeline) == 0 {
		k.Timeline = def.Timeline
	}
	if len(k.Distribution) == 0 {
		k.Distribution = def.Distribution
	}
	if len(k.Table) == 0 {
		k.Table = def.Table
	}
	return k
}

// Intent is the classifier's verdict for one exchange.
type Intent struct {
	// WantsVisualization is true when the user's message contains a
	// visualization keyword.
	WantsVisualization bool

	// HasExtractableData is true when the assistant text contains at
	// least one numeral and at least one list marker.
	HasExtractableData bool

	// Family is the chart family chosen from the user's wording.
	Family ChartFamily
}

var (
	numeralPattern    = regexp.MustCompile(`\d`)
	listMarkerPattern = regexp.MustCompile(`(?m)^\s*(?:\d+\.|-)`)
)

// Classifier decides from free-form text whether a chart or table
// should accompany an answer. It is a total function over any pair of
// strings: pure lexical matching, deterministic, no I/O.
type Classifier struct {
	keywords KeywordConfig
}

// NewClassifier creates a classifier; empty keyword sets fall back to
// the built-in bilingual defaults.
func NewClassifier(keywords KeywordConfig) *Classifier {
	return &Classifier{keywords: keywords.withDefaults()}
}

// Classify inspects the user's wording for visualization intent and
// the assistant's text for structured data.
func (c *Classifier) Classify(userInput, assistantText string) Intent {
	userLower := strings.ToLower(userInput)

	return Intent{
		WantsVisualization: containsAny(userLower, c.keywords.Visualization),
		HasExtractableData: numeralPattern.MatchString(assistantText) &&
			listMarkerPattern.MatchString(assistantText),
		Family: c.family(userLower),
	}
}

// family picks the chart family by first match against the ordered
// keyword groups. Comparison intent deliberately outranks the generic
// bar default.
func (c *Classifier) family(userLower string) ChartFamily {
	switch {
	case containsAny(userLower, c.keywords.Comparison):
		return FamilyComparison
	case containsAny(userLower, c.keywords.Timeline):
		return FamilyTimeline
	case containsAny(userLower, c.keywords.Distribution):
		return FamilyPie
	case containsAny(userLower, c.keywords.Table):
		return FamilyTable
	default:
		return FamilyBar
	}
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
