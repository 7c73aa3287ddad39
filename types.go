package chatbot

import (
	"strings"
	"time"
)

// IdentityKind distinguishes anonymous visitors from authenticated accounts.
type IdentityKind string

const (
	// KindAnonymous marks an identity generated locally for the session.
	KindAnonymous IdentityKind = "anonymous"

	// KindAuthenticated marks an identity backed by an external account.
	KindAuthenticated IdentityKind = "authenticated"
)

// AnonymousKeyPrefix is prepended to generated anonymous owner keys.
const AnonymousKeyPrefix = "anon_"

// Identity is the stable key under which a user's history is stored.
// Addressing is by Key alone; Kind is metadata.
type Identity struct {
	Kind IdentityKind `json:"kind"`
	Key  string       `json:"key"`
}

// IsAnonymousKey reports whether an owner key was generated for an
// anonymous session rather than issued by the identity provider.
func IsAnonymousKey(key string) bool {
	return strings.HasPrefix(key, AnonymousKeyPrefix)
}

// ConversationTurn is one user input + assistant response pair, the
// atomic unit of the conversation log. Turns are immutable once appended.
type ConversationTurn struct {
	// ID is assigned by the store at append time. IDs increase with
	// insertion order within a store, which keeps pagination stable
	// when two turns share a timestamp.
	ID int64 `json:"id"`

	// OwnerKey is the partition key the turn is stored under.
	OwnerKey string `json:"ownerKey"`

	// UserInput is the raw user message.
	UserInput string `json:"input"`

	// AssistantResponse is the raw assistant text. Visualization
	// content is never persisted; it is recomputed from this text.
	AssistantResponse string `json:"response"`

	// CreatedAt is the wall-clock time of the append call.
	CreatedAt time.Time `json:"timestamp"`

	// IsAnonymousOwner records whether the owner key was anonymous
	// at the time of writing.
	IsAnonymousOwner bool `json:"isAnonymous"`
}

// ExtractedRecord is a single (label, value, description) datum pulled
// out of free-form assistant text. Records are transient and never persisted.
type ExtractedRecord struct {
	Label       string  `json:"label"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// ChartFamily is the visualization shape chosen for a response.
type ChartFamily string

const (
	FamilyNone       ChartFamily = ""
	FamilyBar        ChartFamily = "bar"
	FamilyPie        ChartFamily = "pie"
	FamilyComparison ChartFamily = "comparison"
	FamilyTimeline   ChartFamily = "timeline"
	FamilyTable      ChartFamily = "table"
)

// SeriesPoint is one chart datum. One extracted record maps to exactly
// one point; duplicate labels are kept as distinct points.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// StyleHints carries renderer-agnostic presentation defaults.
type StyleHints struct {
	// AxisLabelAngle rotates x-axis labels, in degrees.
	AxisLabelAngle int `json:"axisLabelAngle,omitempty"`

	// GradientByValue colors bars on a continuous scale by value.
	GradientByValue bool `json:"gradientByValue,omitempty"`

	// CategoricalPalette assigns each label its own color.
	CategoricalPalette bool `json:"categoricalPalette,omitempty"`

	// SplineSmoothing connects timeline points with a smoothed line.
	SplineSmoothing bool `json:"splineSmoothing,omitempty"`

	// ShowMarkers draws point markers on timeline charts.
	ShowMarkers bool `json:"showMarkers,omitempty"`

	// ProportionSlices renders values as proportional pie slices.
	ProportionSlices bool `json:"proportionSlices,omitempty"`
}

// ChartSpec is a renderer-agnostic chart description.
type ChartSpec struct {
	Kind   ChartFamily   `json:"kind"`
	Title  string        `json:"title"`
	Series []SeriesPoint `json:"series"`
	Style  StyleHints    `json:"style"`
}

// TableSpec is a renderer-agnostic tabular description. The consumer
// renders rows as a grid without further transformation.
type TableSpec struct {
	Title string            `json:"title"`
	Rows  []ExtractedRecord `json:"rows"`
}

// VisualizationResult is the pipeline output accompanying a response:
// text alone, text with a chart, or text with a table.
type VisualizationResult struct {
	Text    string            `json:"text"`
	Family  ChartFamily       `json:"family,omitempty"`
	Records []ExtractedRecord `json:"records,omitempty"`
	Chart   *ChartSpec        `json:"chart,omitempty"`
	Table   *TableSpec        `json:"table,omitempty"`
}

// Page is one page of a conversation history read, newest first.
type Page struct {
	Items      []ConversationTurn `json:"items"`
	PageNumber int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalItems int                `json:"totalItems"`
	TotalPages int                `json:"totalPages"`
}

// TotalPages computes ceil(totalItems / pageSize).
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
