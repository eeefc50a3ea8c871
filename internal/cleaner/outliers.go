package cleaner

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// zScoreThreshold is the |z| above which a value counts as an outlier.
const zScoreThreshold = 3.0

// iqrMultiplier widens the interquartile range to the Tukey fences.
const iqrMultiplier = 1.5

// RemoveOutliers drops rows whose value in the given numeric column lies
// outside the bounds of the chosen method. Rows whose cell is null or not
// yet numeric are never treated as outliers. A column that is absent or not
// numeric in the schema fails with INVALID_COLUMN. A column with zero
// standard deviation, or a zero interquartile range under MethodIQR, removes
// nothing, which also makes the step a no-op when reapplied to an
// already-filtered distribution.
func (c *Cleaner) RemoveOutliers(t *dataset.Table, column dataset.Column, method OutlierMethod, rep *Report) (*dataset.Table, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyInputError("removeOutliers")
	}
	if !method.IsValid() {
		return nil, errors.NewInvalidArgumentError("unknown outlier method " + string(method))
	}
	if !t.HasColumn(column) {
		return nil, errors.NewInvalidColumnError(string(column), "not present in table")
	}
	if !column.IsNumeric() {
		return nil, errors.NewInvalidColumnError(string(column), "outlier removal requires a numeric column")
	}
	if rep == nil {
		rep = NewReport()
	}

	values := t.FloatColumn(column)
	if len(values) < 2 || stat.StdDev(values, nil) == 0 {
		return t.Clone(), nil
	}

	var lower, upper float64
	switch method {
	case MethodIQR:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		// A tie-heavy sample can collapse the interquartile range even when
		// the variance is nonzero; degenerate fences would drop ordinary
		// values, so the step backs off instead.
		if iqr == 0 {
			return t.Clone(), nil
		}
		lower = q1 - iqrMultiplier*iqr
		upper = q3 + iqrMultiplier*iqr
	case MethodZScore:
		mean := stat.Mean(values, nil)
		std := stat.StdDev(values, nil)
		lower = mean - zScoreThreshold*std
		upper = mean + zScoreThreshold*std
	}

	idx, _ := t.ColumnIndex(column)
	out := t.Select(func(_ int, row []dataset.Value) bool {
		f, ok := row[idx].Float()
		if !ok {
			return true
		}
		return f >= lower && f <= upper
	})

	removed := t.NumRows() - out.NumRows()
	rep.addOutliers(column, removed)
	c.logger.Debug("removed outliers",
		slog.String("column", string(column)),
		slog.String("method", string(method)),
		slog.Int("removed", removed))
	return out, nil
}

// quantile computes the p-quantile of a sorted sample with linear
// interpolation between the two nearest order statistics (the estimator
// numpy calls "linear"). The sample must be non-empty and sorted ascending.
func quantile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
