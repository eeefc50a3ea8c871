package cleaner

import (
	"strconv"
	"strings"
	"time"

	"salescli/internal/dataset"
)

// dateLayouts are tried in order when coercing text cells to dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"02-Jan-2006",
}

// defaultFillDate is the fixed date used when a date column has no non-null
// cell to forward-fill from.
var defaultFillDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// parseNumber extracts a float from a number cell or numeric-looking text.
// Currency prefixes and thousands separators are tolerated because raw sales
// exports routinely carry them.
func parseNumber(v dataset.Value) (float64, bool) {
	if f, ok := v.Float(); ok {
		return f, true
	}
	s, ok := v.TextValue()
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseDate extracts a calendar date from a date cell or parseable text.
func parseDate(v dataset.Value) (time.Time, bool) {
	if ts, ok := v.Time(); ok {
		return ts, true
	}
	s, ok := v.TextValue()
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
