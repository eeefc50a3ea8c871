package cleaner

import (
	"time"

	"github.com/google/uuid"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// Strategy selects how missing values are repaired.
type Strategy string

const (
	// StrategyFill replaces nulls with a column-appropriate default: mean
	// for numeric columns, mode for categorical columns, forward-fill for
	// date columns.
	StrategyFill Strategy = "fill"
	// StrategyDrop removes any row with a null in a targeted column.
	StrategyDrop Strategy = "drop"
	// StrategyInterpolate linearly interpolates numeric and date columns
	// between the nearest non-null neighbors in table order.
	StrategyInterpolate Strategy = "interpolate"
)

// ParseStrategy converts a strategy name into a Strategy. Unknown names
// yield an UNSUPPORTED_STRATEGY error.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyFill, StrategyDrop, StrategyInterpolate:
		return Strategy(s), nil
	default:
		return "", errors.NewUnsupportedStrategyError(s)
	}
}

// IsValid reports whether the strategy is one of the supported three.
func (s Strategy) IsValid() bool {
	_, err := ParseStrategy(string(s))
	return err == nil
}

// OutlierMethod selects how outlier rows are detected.
type OutlierMethod string

const (
	// MethodIQR drops rows outside [Q1 - 1.5*IQR, Q3 + 1.5*IQR].
	MethodIQR OutlierMethod = "iqr"
	// MethodZScore drops rows where |value - mean| / stddev exceeds 3.
	MethodZScore OutlierMethod = "zscore"
)

// ParseOutlierMethod converts a method name into an OutlierMethod.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch OutlierMethod(s) {
	case MethodIQR, MethodZScore:
		return OutlierMethod(s), nil
	default:
		return "", errors.NewInvalidArgumentError("unknown outlier method " + s)
	}
}

// IsValid reports whether the method is supported.
func (m OutlierMethod) IsValid() bool {
	_, err := ParseOutlierMethod(string(m))
	return err == nil
}

// Options configures a CleanAll run.
type Options struct {
	// MissingStrategy is applied to every column; defaults to fill.
	MissingStrategy Strategy
	// MissingColumns restricts missing-value handling; empty means all
	// columns.
	MissingColumns []dataset.Column
	// OutlierColumns are filtered after coercion; defaults to revenue and
	// quantity.
	OutlierColumns []dataset.Column
	// OutlierMethod defaults to IQR.
	OutlierMethod OutlierMethod
}

// DefaultOptions returns the pipeline defaults used by CleanAll when the
// caller passes the zero Options.
func DefaultOptions() Options {
	return Options{
		MissingStrategy: StrategyFill,
		OutlierColumns:  []dataset.Column{dataset.ColRevenue, dataset.ColQuantity},
		OutlierMethod:   MethodIQR,
	}
}

// withDefaults fills in zero-valued fields.
func (o Options) withDefaults() Options {
	if o.MissingStrategy == "" {
		o.MissingStrategy = StrategyFill
	}
	if len(o.OutlierColumns) == 0 {
		o.OutlierColumns = []dataset.Column{dataset.ColRevenue, dataset.ColQuantity}
	}
	if o.OutlierMethod == "" {
		o.OutlierMethod = MethodIQR
	}
	return o
}

// Report records how many rows each repair step touched. It exists for
// observability and auditing only; no cleaning decision reads it back.
type Report struct {
	RunID             string                  `json:"run_id"`
	StartedAt         time.Time               `json:"started_at"`
	FinishedAt        time.Time               `json:"finished_at"`
	InputRows         int                     `json:"input_rows"`
	OutputRows        int                     `json:"output_rows"`
	DuplicatesRemoved int                     `json:"duplicates_removed"`
	Imputed           map[dataset.Column]int  `json:"imputed"`
	RowsDropped       int                     `json:"rows_dropped"`
	BadDatesDropped   int                     `json:"bad_dates_dropped"`
	NonNumericDropped int                     `json:"non_numeric_dropped"`
	OutliersRemoved   map[dataset.Column]int  `json:"outliers_removed"`
}

// NewReport creates an empty report with a fresh run id.
func NewReport() *Report {
	return &Report{
		RunID:           uuid.New().String(),
		StartedAt:       time.Now().UTC(),
		Imputed:         make(map[dataset.Column]int),
		OutliersRemoved: make(map[dataset.Column]int),
	}
}

// addImputed records n imputed cells for a column.
func (r *Report) addImputed(col dataset.Column, n int) {
	if n > 0 {
		r.Imputed[col] += n
	}
}

// addOutliers records n dropped outlier rows for a column.
func (r *Report) addOutliers(col dataset.Column, n int) {
	if n > 0 {
		r.OutliersRemoved[col] += n
	}
}

// TotalAffected returns the total number of rows or cells any step touched.
func (r *Report) TotalAffected() int {
	total := r.DuplicatesRemoved + r.RowsDropped + r.BadDatesDropped + r.NonNumericDropped
	for _, n := range r.Imputed {
		total += n
	}
	for _, n := range r.OutliersRemoved {
		total += n
	}
	return total
}
