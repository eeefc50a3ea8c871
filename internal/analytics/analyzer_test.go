package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

type saleRow struct {
	date     string
	product  string
	region   string
	revenue  float64
	quantity float64
}

// cleanedTable builds a fully typed table the way the cleaner would emit it.
func cleanedTable(t *testing.T, rows ...saleRow) *dataset.Table {
	t.Helper()
	tbl := dataset.MustNew(dataset.ColDate, dataset.ColProduct, dataset.ColRegion, dataset.ColRevenue, dataset.ColQuantity)
	for _, r := range rows {
		day, err := time.Parse("2006-01-02", r.date)
		require.NoError(t, err)
		require.NoError(t, tbl.AppendRow(
			dataset.Timestamp(day),
			dataset.Text(r.product),
			dataset.Text(r.region),
			dataset.Number(r.revenue),
			dataset.Number(r.quantity),
		))
	}
	return tbl
}

func TestTotalRevenue(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-01", "A", "North", 100, 1},
		saleRow{"2024-01-02", "B", "South", 250, 2},
	)

	assert.InDelta(t, 350.0, New(tbl, nil).TotalRevenue(), 1e-9)
}

func TestTotalRevenueEmptyTable(t *testing.T) {
	tbl := cleanedTable(t)
	assert.Equal(t, 0.0, New(tbl, nil).TotalRevenue())
}

func TestTopProductsTieBreak(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-01", "B", "North", 150, 1},
		saleRow{"2024-01-02", "C", "North", 500, 1},
		saleRow{"2024-01-03", "A", "North", 300, 1},
		saleRow{"2024-01-04", "B", "North", 150, 1},
	)

	top, err := New(tbl, nil).TopProducts(2)
	require.NoError(t, err)
	require.Len(t, top, 2)

	// C leads outright; A and B tie at 300 and the ascending name wins.
	assert.Equal(t, "C", top[0].Product)
	assert.InDelta(t, 500.0, top[0].Revenue, 1e-9)
	assert.Equal(t, "A", top[1].Product)
	assert.InDelta(t, 300.0, top[1].Revenue, 1e-9)
}

func TestTopProductsNLargerThanDistinct(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-01", "A", "North", 100, 1},
	)

	top, err := New(tbl, nil).TopProducts(10)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestTopProductsRejectsNonPositiveN(t *testing.T) {
	tbl := cleanedTable(t, saleRow{"2024-01-01", "A", "North", 100, 1})

	_, err := New(tbl, nil).TopProducts(0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestRegionRevenuePercentagesSumToHundred(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-01", "A", "North", 120, 1},
		saleRow{"2024-01-02", "B", "South", 230, 1},
		saleRow{"2024-01-03", "C", "East", 317, 1},
		saleRow{"2024-01-04", "D", "North", 33, 1},
	)

	regions := New(tbl, nil).RegionRevenue()
	require.Len(t, regions, 3)

	var sum float64
	for _, r := range regions {
		sum += r.Percent
	}
	assert.InDelta(t, 100.0, sum, 1e-6)
}

func TestRegionRevenueZeroTotal(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-01", "A", "North", 0, 1},
		saleRow{"2024-01-02", "B", "South", 0, 1},
	)

	regions := New(tbl, nil).RegionRevenue()
	require.Len(t, regions, 2)
	for _, r := range regions {
		assert.Equal(t, 0.0, r.Percent)
	}
}

func TestMonthlyGrowthRate(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-02-10", "A", "North", 200, 1},
		saleRow{"2024-01-05", "A", "North", 100, 1},
		saleRow{"2024-01-20", "B", "South", 0, 1},
		saleRow{"2024-03-01", "A", "North", 150, 1},
	)

	series := New(tbl, nil).MonthlyGrowthRate()
	require.Len(t, series, 3)

	assert.Equal(t, "2024-01", series[0].Month)
	assert.Nil(t, series[0].GrowthRate, "first month has no growth rate")

	assert.Equal(t, "2024-02", series[1].Month)
	require.NotNil(t, series[1].GrowthRate)
	assert.InDelta(t, 100.0, *series[1].GrowthRate, 1e-9)

	assert.Equal(t, "2024-03", series[2].Month)
	require.NotNil(t, series[2].GrowthRate)
	assert.InDelta(t, -25.0, *series[2].GrowthRate, 1e-9)
}

func TestMonthlyGrowthRateAfterZeroRevenueMonth(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-05", "A", "North", 0, 1},
		saleRow{"2024-02-05", "A", "North", 100, 1},
	)

	series := New(tbl, nil).MonthlyGrowthRate()
	require.Len(t, series, 2)
	assert.Nil(t, series[1].GrowthRate, "growth after a zero-revenue month is undefined")
}

func TestProfitMargin(t *testing.T) {
	tbl := dataset.MustNew(dataset.ColDate, dataset.ColProduct, dataset.ColRegion, dataset.ColRevenue, dataset.ColQuantity, dataset.ColCost)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tbl.AppendRow(dataset.Timestamp(day), dataset.Text("A"), dataset.Text("North"), dataset.Number(200), dataset.Number(1), dataset.Number(150)))
	require.NoError(t, tbl.AppendRow(dataset.Timestamp(day), dataset.Text("B"), dataset.Text("South"), dataset.Number(0), dataset.Number(1), dataset.Number(10)))

	report, err := New(tbl, nil).ProfitMargin(dataset.ColCost)
	require.NoError(t, err)
	require.Len(t, report.Products, 2)

	// Products sort by profit descending: A (+50) before B (-10).
	a := report.Products[0]
	assert.Equal(t, "A", a.Product)
	assert.InDelta(t, 50.0, a.Profit, 1e-9)
	require.NotNil(t, a.Margin)
	assert.InDelta(t, 25.0, *a.Margin, 1e-9)

	b := report.Products[1]
	assert.Equal(t, "B", b.Product)
	assert.Nil(t, b.Margin, "zero-revenue product has no finite margin")

	require.NotNil(t, report.AggregateMargin)
	assert.InDelta(t, 20.0, *report.AggregateMargin, 1e-9)
}

func TestProfitMarginMissingColumn(t *testing.T) {
	tbl := cleanedTable(t, saleRow{"2024-01-01", "A", "North", 100, 1})

	_, err := New(tbl, nil).ProfitMargin(dataset.ColCost)
	require.Error(t, err)
	assert.True(t, errors.IsMissingColumn(err))
}

func TestSummaryStatistics(t *testing.T) {
	tbl := cleanedTable(t,
		saleRow{"2024-01-05", "A", "North", 100, 1},
		saleRow{"2024-03-01", "B", "South", 200, 2},
		saleRow{"2024-02-10", "A", "North", 300, 1},
	)

	stats := New(tbl, nil).SummaryStatistics()

	assert.Equal(t, 3, stats.Transactions)
	assert.InDelta(t, 600.0, stats.TotalRevenue, 1e-9)
	assert.InDelta(t, 200.0, stats.MeanRevenue, 1e-9)
	assert.Equal(t, 2, stats.UniqueProducts)
	assert.Equal(t, 2, stats.UniqueRegions)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), stats.FirstDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), stats.LastDate)
}

func TestBundleIncludesProfitOnlyWithCostColumn(t *testing.T) {
	tbl := cleanedTable(t, saleRow{"2024-01-01", "A", "North", 100, 1})

	bundle, err := New(tbl, nil).Bundle(5)
	require.NoError(t, err)
	assert.Nil(t, bundle.Profit)
	assert.InDelta(t, 100.0, bundle.TotalRevenue, 1e-9)
	assert.Len(t, bundle.TopProducts, 1)
	assert.False(t, bundle.GeneratedAt.IsZero())
}
