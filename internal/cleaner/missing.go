package cleaner

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// categoricalFillSentinel replaces nulls in a categorical column that has no
// mode to borrow from.
const categoricalFillSentinel = "Unknown"

// fillColumns implements StrategyFill: numeric columns take the column mean,
// categorical columns take the mode (sentinel when there is none), and date
// columns forward-fill with the nearest earlier value, falling back to the
// nearest later value and finally to a fixed default date.
func fillColumns(t *dataset.Table, columns []dataset.Column, rep *Report) *dataset.Table {
	out := t.Clone()
	for _, col := range columns {
		idx, ok := out.ColumnIndex(col)
		if !ok {
			continue
		}
		switch {
		case col.IsNumeric():
			rep.addImputed(col, fillNumeric(out, idx))
		case col.IsDate():
			rep.addImputed(col, fillDate(out, idx))
		default:
			rep.addImputed(col, fillCategorical(out, idx))
		}
	}
	return out
}

// fillNumeric replaces nulls with the mean of the column's parseable values.
// Columns with no parseable value are left untouched.
func fillNumeric(t *dataset.Table, idx int) int {
	var values []float64
	var nulls []int
	for i := 0; i < t.NumRows(); i++ {
		cell := t.Row(i)[idx]
		if cell.IsNull() {
			nulls = append(nulls, i)
			continue
		}
		if f, ok := parseNumber(cell); ok {
			values = append(values, f)
		}
	}
	if len(values) == 0 || len(nulls) == 0 {
		return 0
	}
	mean := stat.Mean(values, nil)
	setCells(t, idx, nulls, dataset.Number(mean))
	return len(nulls)
}

// fillCategorical replaces nulls with the most frequent value. Frequency
// ties break toward the lexicographically smaller value so repeated runs are
// deterministic.
func fillCategorical(t *dataset.Table, idx int) int {
	counts := make(map[string]int)
	var nulls []int
	for i := 0; i < t.NumRows(); i++ {
		cell := t.Row(i)[idx]
		if cell.IsNull() {
			nulls = append(nulls, i)
			continue
		}
		if s, ok := cell.TextValue(); ok {
			counts[s]++
		}
	}
	if len(nulls) == 0 {
		return 0
	}

	mode := categoricalFillSentinel
	best := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > best {
			best = counts[k]
			mode = k
		}
	}
	setCells(t, idx, nulls, dataset.Text(mode))
	return len(nulls)
}

// fillDate forward-fills nulls with the nearest earlier value; a null before
// the first value takes the nearest later value, and a fully null column
// takes the fixed default date.
func fillDate(t *dataset.Table, idx int) int {
	n := t.NumRows()
	prev := make([]int, n) // index of the nearest earlier non-null, -1 if none
	last := -1
	filled := 0
	for i := 0; i < n; i++ {
		if !t.Row(i)[idx].IsNull() {
			last = i
		}
		prev[i] = last
	}
	next := -1
	for i := n - 1; i >= 0; i-- {
		if !t.Row(i)[idx].IsNull() {
			next = i
		}
		if t.Row(i)[idx].IsNull() {
			var fill dataset.Value
			switch {
			case prev[i] >= 0:
				fill = t.Row(prev[i])[idx]
			case next >= 0:
				fill = t.Row(next)[idx]
			default:
				fill = dataset.Timestamp(defaultFillDate)
			}
			setCells(t, idx, []int{i}, fill)
			filled++
		}
	}
	return filled
}

// dropNullRows implements StrategyDrop: any row with a null in a targeted
// column is removed.
func dropNullRows(t *dataset.Table, columns []dataset.Column, rep *Report) *dataset.Table {
	indices := make([]int, 0, len(columns))
	for _, col := range columns {
		if idx, ok := t.ColumnIndex(col); ok {
			indices = append(indices, idx)
		}
	}
	out := t.Select(func(_ int, row []dataset.Value) bool {
		for _, idx := range indices {
			if row[idx].IsNull() {
				return false
			}
		}
		return true
	})
	rep.RowsDropped += t.NumRows() - out.NumRows()
	return out
}

// interpolateColumns implements StrategyInterpolate for numeric and date
// columns. Categorical columns are skipped when the caller targeted all
// columns and rejected with INVALID_COLUMN when named explicitly; the full
// pipeline repairs the skipped nulls with the fill policy afterwards. Nulls
// at the table boundary with a neighbor on only one side take that neighbor's
// value; columns with no parseable value are left untouched.
func interpolateColumns(t *dataset.Table, columns []dataset.Column, explicit bool, rep *Report) (*dataset.Table, error) {
	out := t.Clone()
	for _, col := range columns {
		if !col.IsNumeric() && !col.IsDate() {
			if explicit {
				return nil, errors.NewInvalidColumnError(string(col), "interpolation requires a numeric or date column")
			}
			continue
		}
		idx, ok := out.ColumnIndex(col)
		if !ok {
			continue
		}
		if col.IsDate() {
			rep.addImputed(col, interpolateSeries(out, idx, timeToFloat, floatToTime))
		} else {
			rep.addImputed(col, interpolateSeries(out, idx, numberToFloat, floatToNumber))
		}
	}
	return out, nil
}

// interpolateSeries linearly interpolates the nulls of one column. decode
// extracts a float from a parseable cell; encode turns the interpolated
// float back into a cell.
func interpolateSeries(t *dataset.Table, idx int, decode func(dataset.Value) (float64, bool), encode func(float64) dataset.Value) int {
	n := t.NumRows()
	known := make([]bool, n)
	value := make([]float64, n)
	for i := 0; i < n; i++ {
		if f, ok := decode(t.Row(i)[idx]); ok {
			known[i] = true
			value[i] = f
		}
	}

	filled := 0
	for i := 0; i < n; i++ {
		if !t.Row(i)[idx].IsNull() {
			continue
		}
		lo, hi := -1, -1
		for j := i - 1; j >= 0; j-- {
			if known[j] {
				lo = j
				break
			}
		}
		for j := i + 1; j < n; j++ {
			if known[j] {
				hi = j
				break
			}
		}

		var f float64
		switch {
		case lo >= 0 && hi >= 0:
			span := float64(hi - lo)
			f = value[lo] + (value[hi]-value[lo])*float64(i-lo)/span
		case lo >= 0:
			f = value[lo]
		case hi >= 0:
			f = value[hi]
		default:
			continue
		}
		setCells(t, idx, []int{i}, encode(f))
		filled++
	}
	return filled
}

func numberToFloat(v dataset.Value) (float64, bool) {
	return parseNumber(v)
}

func floatToNumber(f float64) dataset.Value {
	return dataset.Number(f)
}

func timeToFloat(v dataset.Value) (float64, bool) {
	ts, ok := parseDate(v)
	if !ok {
		return 0, false
	}
	return float64(ts.Unix()), true
}

func floatToTime(f float64) dataset.Value {
	return dataset.Timestamp(time.Unix(int64(f), 0).UTC())
}

// setCells overwrites the given rows of one column in place. The table must
// be a private clone owned by the caller.
func setCells(t *dataset.Table, idx int, rows []int, v dataset.Value) {
	for _, i := range rows {
		row := t.Row(i)
		row[idx] = v
		t.SetRow(i, row)
	}
}
