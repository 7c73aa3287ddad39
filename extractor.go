package chatbot

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// labeledLinePattern matches "label: value" lines with an optional
	// ordinal ("3. ") or bullet ("- ") marker in front.
	labeledLinePattern = regexp.MustCompile(`^\s*(?:\d+\.\s*|-\s*)?([^:]+):\s*(.+)$`)

	// firstNumberPattern finds the first integer or decimal numeral.
	firstNumberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ExtractRecords parses assistant text into (label, value, description)
// records, one per matching line, in source order. Lines without a
// colon-delimited label or without a numeral in the value segment are
// skipped; a partially unparseable line never aborts extraction. Empty
// input yields nil, which downstream consumers treat as "no chart".
func ExtractRecords(assistantText string) []ExtractedRecord {
	var records []ExtractedRecord

	for _, line := range strings.Split(assistantText, "\n") {
		m := labeledLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		valueText := strings.TrimSpace(m[2])
		numeral := firstNumberPattern.FindString(valueText)
		if numeral == "" {
			continue
		}

		value, err := strconv.ParseFloat(numeral, 64)
		if err != nil {
			continue
		}

		records = append(records, ExtractedRecord{
			Label:       strings.TrimSpace(m[1]),
			Value:       value,
			Description: valueText,
		})
	}

	return records
}
