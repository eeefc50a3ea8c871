package analytics

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// Analyzer computes KPIs over a cleaned table. It holds a reference to the
// table at construction and only ever reads from it.
type Analyzer struct {
	table  *dataset.Table
	logger *slog.Logger
}

// New creates an analyzer for the given cleaned table. A nil logger falls
// back to slog.Default.
func New(table *dataset.Table, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		table:  table,
		logger: logger.With(slog.String("component", "analyzer")),
	}
}

// TotalRevenue returns the sum of all revenue values. An empty table sums
// to zero; that is a defined result, not an error.
func (a *Analyzer) TotalRevenue() float64 {
	var total float64
	for _, f := range a.table.FloatColumn(dataset.ColRevenue) {
		total += f
	}
	return total
}

// TopProducts groups revenue by product and returns the n highest-revenue
// products in descending order. Revenue ties break toward the ascending
// product name so the ranking is deterministic. n must be positive; when it
// exceeds the number of distinct products, all of them are returned.
func (a *Analyzer) TopProducts(n int) ([]ProductRevenue, error) {
	if n <= 0 {
		return nil, errors.NewInvalidArgumentError(fmt.Sprintf("top products requires n > 0, got %d", n))
	}

	groups := a.groupByText(dataset.ColProduct)
	ranked := make([]ProductRevenue, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, ProductRevenue{
			Product: g.Key,
			Revenue: a.table.SumFloat(dataset.ColRevenue, g.Rows),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Revenue != ranked[j].Revenue {
			return ranked[i].Revenue > ranked[j].Revenue
		}
		return ranked[i].Product < ranked[j].Product
	})

	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

// RegionRevenue groups revenue by region and attaches each region's share
// of the total. When total revenue is exactly zero every share is 0% by
// definition; there is no division-by-zero failure mode.
func (a *Analyzer) RegionRevenue() []RegionRevenue {
	total := a.TotalRevenue()

	groups := a.groupByText(dataset.ColRegion)
	regions := make([]RegionRevenue, 0, len(groups))
	for _, g := range groups {
		sum := a.table.SumFloat(dataset.ColRevenue, g.Rows)
		var percent float64
		if total != 0 {
			percent = sum / total * 100
		}
		regions = append(regions, RegionRevenue{Region: g.Key, Revenue: sum, Percent: percent})
	}

	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Revenue != regions[j].Revenue {
			return regions[i].Revenue > regions[j].Revenue
		}
		return regions[i].Region < regions[j].Region
	})
	return regions
}

// MonthlyGrowthRate sums revenue per calendar month and reports each
// month's percentage change against the previous month, in chronological
// order. The first month has no prior month and a month following zero
// revenue has no finite rate; both report a nil growth rate.
func (a *Analyzer) MonthlyGrowthRate() []MonthlyPoint {
	groups := a.table.GroupBy(func(i int, _ []dataset.Value) (string, bool) {
		ts, ok := a.table.At(i, dataset.ColDate).Time()
		if !ok {
			return "", false
		}
		return ts.Format("2006-01"), true
	})

	series := make([]MonthlyPoint, 0, len(groups))
	for _, g := range groups {
		series = append(series, MonthlyPoint{
			Month:   g.Key,
			Revenue: a.table.SumFloat(dataset.ColRevenue, g.Rows),
		})
	}

	// YYYY-MM keys sort chronologically as strings.
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })

	for i := 1; i < len(series); i++ {
		prev := series[i-1].Revenue
		if prev == 0 {
			continue
		}
		rate := (series[i].Revenue - prev) / prev * 100
		series[i].GrowthRate = &rate
	}
	return series
}

// ProfitMargin computes per-product and aggregate margins using the named
// cost column: (revenue - cost) / revenue, as a percentage. The column must
// exist in the schema and be numeric, otherwise the call fails with
// MISSING_COLUMN. Products whose revenue sums to zero report a nil margin.
func (a *Analyzer) ProfitMargin(costColumn dataset.Column) (*ProfitReport, error) {
	if !a.table.HasColumn(costColumn) || !costColumn.IsNumeric() {
		return nil, errors.NewMissingColumnError(string(costColumn))
	}

	groups := a.groupByText(dataset.ColProduct)
	products := make([]ProductMargin, 0, len(groups))
	var totalRevenue, totalCost float64
	for _, g := range groups {
		revenue := a.table.SumFloat(dataset.ColRevenue, g.Rows)
		cost := a.table.SumFloat(costColumn, g.Rows)
		totalRevenue += revenue
		totalCost += cost
		products = append(products, ProductMargin{
			Product: g.Key,
			Revenue: revenue,
			Cost:    cost,
			Profit:  revenue - cost,
			Margin:  marginPercent(revenue, cost),
		})
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].Profit != products[j].Profit {
			return products[i].Profit > products[j].Profit
		}
		return products[i].Product < products[j].Product
	})

	return &ProfitReport{
		Products:        products,
		TotalRevenue:    totalRevenue,
		TotalCost:       totalCost,
		AggregateMargin: marginPercent(totalRevenue, totalCost),
	}, nil
}

// SummaryStatistics returns the descriptive aggregates for the whole table
// in a single pass per column, with no hidden filtering.
func (a *Analyzer) SummaryStatistics() SummaryStats {
	stats := SummaryStats{
		Transactions: a.table.NumRows(),
	}

	revenues := a.table.FloatColumn(dataset.ColRevenue)
	for _, f := range revenues {
		stats.TotalRevenue += f
	}
	if len(revenues) > 0 {
		stats.MeanRevenue = stat.Mean(revenues, nil)
	}

	stats.UniqueProducts = a.distinctText(dataset.ColProduct)
	stats.UniqueRegions = a.distinctText(dataset.ColRegion)

	for _, ts := range a.table.TimeColumn(dataset.ColDate) {
		if stats.FirstDate.IsZero() || ts.Before(stats.FirstDate) {
			stats.FirstDate = ts
		}
		if stats.LastDate.IsZero() || ts.After(stats.LastDate) {
			stats.LastDate = ts
		}
	}
	return stats
}

// Bundle computes the full KPI bundle in one call. Profit metrics are
// included only when the table carries a cost column.
func (a *Analyzer) Bundle(topN int) (*Bundle, error) {
	top, err := a.TopProducts(topN)
	if err != nil {
		return nil, err
	}

	bundle := &Bundle{
		TotalRevenue: a.TotalRevenue(),
		TopProducts:  top,
		Regions:      a.RegionRevenue(),
		Monthly:      a.MonthlyGrowthRate(),
		Summary:      a.SummaryStatistics(),
		GeneratedAt:  time.Now().UTC(),
	}

	if a.table.HasColumn(dataset.ColCost) {
		profit, err := a.ProfitMargin(dataset.ColCost)
		if err != nil {
			return nil, err
		}
		bundle.Profit = profit
	}

	a.logger.Info("kpi bundle computed",
		slog.Int("transactions", bundle.Summary.Transactions),
		slog.Float64("total_revenue", bundle.TotalRevenue),
		slog.Int("months", len(bundle.Monthly)),
		slog.Int("regions", len(bundle.Regions)))
	return bundle, nil
}

// groupByText folds the table by the text value of one column, skipping
// rows where the cell is null or not text.
func (a *Analyzer) groupByText(col dataset.Column) []dataset.Group {
	return a.table.GroupBy(func(i int, _ []dataset.Value) (string, bool) {
		return a.table.At(i, col).TextValue()
	})
}

// distinctText counts the distinct text values of one column.
func (a *Analyzer) distinctText(col dataset.Column) int {
	return len(a.groupByText(col))
}

// marginPercent returns (revenue - cost) / revenue as a percentage, or nil
// when revenue is zero.
func marginPercent(revenue, cost float64) *float64 {
	if revenue == 0 {
		return nil
	}
	m := (revenue - cost) / revenue * 100
	return &m
}
