package cleaner

import (
	"log/slog"
	"strings"
	"time"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// Cleaner applies the repair steps to raw sales tables. It holds no state
// between calls; reapplying any step to already-clean data is a no-op.
type Cleaner struct {
	logger *slog.Logger
}

// New creates a cleaner. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// RemoveDuplicates drops rows that are exact duplicates across all fields,
// keeping the first occurrence and preserving order otherwise. The number of
// dropped rows is added to rep, which may be nil.
func (c *Cleaner) RemoveDuplicates(t *dataset.Table, rep *Report) (*dataset.Table, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyInputError("removeDuplicates")
	}
	if rep == nil {
		rep = NewReport()
	}

	seen := make(map[string]struct{}, t.NumRows())
	out := t.Select(func(i int, _ []dataset.Value) bool {
		key := t.Fingerprint(i)
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
		return true
	})

	removed := t.NumRows() - out.NumRows()
	rep.DuplicatesRemoved += removed
	c.logger.Debug("removed duplicate rows", slog.Int("removed", removed))
	return out, nil
}

// HandleMissingValues repairs nulls in the targeted columns using the given
// strategy. When columns is empty the strategy applies to every column.
// Unknown strategies fail with UNSUPPORTED_STRATEGY; unknown columns fail
// with MISSING_COLUMN; an empty table fails with EMPTY_INPUT.
func (c *Cleaner) HandleMissingValues(t *dataset.Table, strategy Strategy, rep *Report, columns ...dataset.Column) (*dataset.Table, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyInputError("handleMissingValues")
	}
	if !strategy.IsValid() {
		return nil, errors.NewUnsupportedStrategyError(string(strategy))
	}
	if rep == nil {
		rep = NewReport()
	}

	explicit := len(columns) > 0
	if !explicit {
		columns = t.Columns()
	}
	for _, col := range columns {
		if !t.HasColumn(col) {
			return nil, errors.NewMissingColumnError(string(col))
		}
	}

	var (
		out *dataset.Table
		err error
	)
	switch strategy {
	case StrategyFill:
		out = fillColumns(t, columns, rep)
	case StrategyDrop:
		out = dropNullRows(t, columns, rep)
	case StrategyInterpolate:
		out, err = interpolateColumns(t, columns, explicit, rep)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("handled missing values",
		slog.String("strategy", string(strategy)),
		slog.Int("columns", len(columns)))
	return out, nil
}

// FixDataTypes coerces every column to its schema type: dates are parsed
// (rows with unparseable or null dates are dropped and counted), revenue,
// quantity and cost become numbers (rows with non-numeric cells are dropped
// when this step runs standalone), and product/region are normalized to
// trimmed, case-preserved strings.
func (c *Cleaner) FixDataTypes(t *dataset.Table, rep *Report) (*dataset.Table, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyInputError("fixDataTypes")
	}
	if rep == nil {
		rep = NewReport()
	}
	return c.fixTypes(t, rep, true), nil
}

// fixTypes implements FixDataTypes. When dropNonNumeric is false, cells that
// fail numeric coercion become nulls for the surrounding pipeline to repair
// with its missing-value policy instead of dropping the row.
func (c *Cleaner) fixTypes(t *dataset.Table, rep *Report, dropNonNumeric bool) *dataset.Table {
	cols := t.Columns()

	out := t.Select(func(i int, row []dataset.Value) bool {
		if idx, ok := t.ColumnIndex(dataset.ColDate); ok {
			if _, parsed := parseDate(row[idx]); !parsed {
				rep.BadDatesDropped++
				return false
			}
		}
		if dropNonNumeric {
			for j, col := range cols {
				if !col.IsNumeric() || row[j].IsNull() {
					continue
				}
				if f, ok := parseNumber(row[j]); !ok || f < 0 {
					rep.NonNumericDropped++
					return false
				}
			}
		}
		return true
	})

	coerced := out.Map(func(_ int, row []dataset.Value) []dataset.Value {
		for j, col := range cols {
			switch {
			case col.IsDate():
				if ts, ok := parseDate(row[j]); ok {
					row[j] = dataset.Timestamp(ts)
				}
			case col.IsNumeric():
				if row[j].IsNull() {
					continue
				}
				// Negative amounts are out of domain for sales data and
				// are treated as missing.
				if f, ok := parseNumber(row[j]); ok && f >= 0 {
					row[j] = dataset.Number(f)
				} else {
					row[j] = dataset.Null()
				}
			case col.IsCategorical():
				if s, ok := row[j].TextValue(); ok {
					row[j] = dataset.Text(strings.TrimSpace(s))
				} else if !row[j].IsNull() {
					row[j] = dataset.Text(row[j].String())
				}
			}
		}
		return row
	})

	c.logger.Debug("fixed data types",
		slog.Int("bad_dates_dropped", rep.BadDatesDropped),
		slog.Int("non_numeric_dropped", rep.NonNumericDropped))
	return coerced
}

// CleanAll runs the full pipeline in its fixed, order-sensitive sequence:
// duplicate removal, missing-value handling, type coercion, then outlier
// removal on the configured numeric columns. Cells that only reveal
// themselves as missing during coercion are repaired with the same
// missing-value strategy before outlier removal, and categorical nulls the
// interpolation strategy cannot repair are filled with the column mode so no
// output row lacks a product or region. An empty input table fails
// with EMPTY_INPUT; a table emptied by the pipeline itself is returned
// without error.
func (c *Cleaner) CleanAll(t *dataset.Table, opts Options) (*dataset.Table, *Report, error) {
	if t.IsEmpty() {
		return nil, nil, errors.NewEmptyInputError("cleanAll")
	}
	opts = opts.withDefaults()
	if !opts.MissingStrategy.IsValid() {
		return nil, nil, errors.NewUnsupportedStrategyError(string(opts.MissingStrategy))
	}
	if !opts.OutlierMethod.IsValid() {
		return nil, nil, errors.NewInvalidArgumentError("unknown outlier method " + string(opts.OutlierMethod))
	}

	rep := NewReport()
	rep.InputRows = t.NumRows()

	out, err := c.RemoveDuplicates(t, rep)
	if err != nil {
		return nil, nil, err
	}

	if !out.IsEmpty() {
		out, err = c.HandleMissingValues(out, opts.MissingStrategy, rep, opts.MissingColumns...)
		if err != nil {
			return nil, nil, err
		}
	}

	if !out.IsEmpty() {
		out = c.fixTypes(out, rep, false)
	}

	// Coercion can surface new nulls in numeric columns; repair them with
	// the policy already in effect so the outlier pass sees a fully
	// populated distribution.
	if !out.IsEmpty() && hasNumericNulls(out) {
		out, err = c.HandleMissingValues(out, opts.MissingStrategy, rep, numericColumns(out)...)
		if err != nil {
			return nil, nil, err
		}
	}

	// Interpolation has no meaning for categories and leaves their nulls in
	// place. Repair them with the fill policy so every output row carries a
	// product and region.
	if !out.IsEmpty() && hasCategoricalNulls(out) {
		out = fillColumns(out, categoricalColumns(out), rep)
	}

	for _, col := range opts.OutlierColumns {
		if out.IsEmpty() {
			break
		}
		out, err = c.RemoveOutliers(out, col, opts.OutlierMethod, rep)
		if err != nil {
			return nil, nil, err
		}
	}

	rep.OutputRows = out.NumRows()
	rep.FinishedAt = time.Now().UTC()

	c.logger.Info("cleaning pipeline complete",
		slog.String("run_id", rep.RunID),
		slog.Int("input_rows", rep.InputRows),
		slog.Int("output_rows", rep.OutputRows),
		slog.Int("duplicates_removed", rep.DuplicatesRemoved),
		slog.Int("rows_dropped", rep.RowsDropped),
		slog.Int("bad_dates_dropped", rep.BadDatesDropped),
		slog.Duration("elapsed", rep.FinishedAt.Sub(rep.StartedAt)))
	return out, rep, nil
}

// hasNumericNulls reports whether any numeric column still holds a null.
func hasNumericNulls(t *dataset.Table) bool {
	return hasNulls(t, dataset.Column.IsNumeric)
}

// hasCategoricalNulls reports whether any categorical column still holds a null.
func hasCategoricalNulls(t *dataset.Table) bool {
	return hasNulls(t, dataset.Column.IsCategorical)
}

func hasNulls(t *dataset.Table, match func(dataset.Column) bool) bool {
	for _, col := range t.Columns() {
		if !match(col) {
			continue
		}
		for i := 0; i < t.NumRows(); i++ {
			if t.At(i, col).IsNull() {
				return true
			}
		}
	}
	return false
}

// numericColumns returns the numeric columns present in the table schema.
func numericColumns(t *dataset.Table) []dataset.Column {
	var cols []dataset.Column
	for _, col := range t.Columns() {
		if col.IsNumeric() {
			cols = append(cols, col)
		}
	}
	return cols
}

// categoricalColumns returns the categorical columns present in the table schema.
func categoricalColumns(t *dataset.Table) []dataset.Column {
	var cols []dataset.Column
	for _, col := range t.Columns() {
		if col.IsCategorical() {
			cols = append(cols, col)
		}
	}
	return cols
}
