package chatbot

// DefaultChartTitle is used when the caller does not supply one.
const DefaultChartTitle = "Academic Data Visualization"

// DefaultTableTitle is used for tabular output.
const DefaultTableTitle = "Data Table"

// VisualizationPipeline orchestrates classification, extraction and
// chart building into one call. It is a pure function of its two
// string inputs: no I/O, no shared state, safe to invoke concurrently.
type VisualizationPipeline struct {
	classifier *Classifier
	chartTitle string
	tableTitle string
}

// NewVisualizationPipeline builds a pipeline around the given classifier.
func NewVisualizationPipeline(classifier *Classifier) *VisualizationPipeline {
	return &VisualizationPipeline{
		classifier: classifier,
		chartTitle: DefaultChartTitle,
		tableTitle: DefaultTableTitle,
	}
}

// Process augments an assistant response with a chart or table when
// the user asked for one and the response carries extractable data.
// In every other case the text passes through untouched with
// Family == FamilyNone.
//
// Detection is tied to the user's keywords while data comes from the
// assistant's text: an assistant that volunteers numbers without the
// user asking produces no chart.
func (p *VisualizationPipeline) Process(userInput, assistantText string) VisualizationResult {
	plain := VisualizationResult{Text: assistantText, Family: FamilyNone}

	intent := p.classifier.Classify(userInput, assistantText)
	if !intent.WantsVisualization || !intent.HasExtractableData {
		return plain
	}

	records := ExtractRecords(assistantText)
	if len(records) == 0 {
		return plain
	}

	title := p.chartTitle
	if intent.Family == FamilyTable {
		title = p.tableTitle
	}

	chart, table := BuildChartSpec(records, intent.Family, title)
	return VisualizationResult{
		Text:    assistantText,
		Family:  intent.Family,
		Records: records,
		Chart:   chart,
		Table:   table,
	}
}
