package chatbot

// BuildChartSpec turns extracted records and a chart family into a
// chart or table description. Empty records yield (nil, nil) regardless
// of family. The builder performs no aggregation: one record maps to
// one datum and duplicate labels stay distinct, in source order.
func BuildChartSpec(records []ExtractedRecord, family ChartFamily, title string) (*ChartSpec, *TableSpec) {
	if len(records) == 0 {
		return nil, nil
	}

	if family == FamilyTable {
		return nil, &TableSpec{Title: title, Rows: records}
	}

	series := make([]SeriesPoint, len(records))
	for i, r := range records {
		series[i] = SeriesPoint{Label: r.Label, Value: r.Value}
	}

	return &ChartSpec{
		Kind:   family,
		Title:  title,
		Series: series,
		Style:  styleFor(family),
	}, nil
}

// styleFor returns presentation defaults per chart family.
func styleFor(family ChartFamily) StyleHints {
	switch family {
	case FamilyBar:
		return StyleHints{AxisLabelAngle: -45, GradientByValue: true}
	case FamilyComparison:
		return StyleHints{AxisLabelAngle: -45, CategoricalPalette: true}
	case FamilyTimeline:
		return StyleHints{SplineSmoothing: true, ShowMarkers: true}
	case FamilyPie:
		return StyleHints{ProportionSlices: true}
	default:
		return StyleHints{}
	}
}
