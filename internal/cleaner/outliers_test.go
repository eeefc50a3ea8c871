package cleaner

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// numericTable builds a typed table with the given revenue values.
func numericTable(t *testing.T, revenues ...float64) *dataset.Table {
	t.Helper()
	tbl := dataset.MustNew(dataset.ColProduct, dataset.ColRevenue)
	for i, f := range revenues {
		require.NoError(t, tbl.AppendRow(dataset.Text(fmt.Sprintf("P%d", i)), dataset.Number(f)))
	}
	return tbl
}

func TestRemoveOutliersIQR(t *testing.T) {
	tbl := numericTable(t, 10, 12, 11, 13, 12, 11, 10, 1000)

	rep := NewReport()
	out, err := New(nil).RemoveOutliers(tbl, dataset.ColRevenue, MethodIQR, rep)
	require.NoError(t, err)

	assert.Equal(t, 7, out.NumRows())
	assert.Equal(t, 1, rep.OutliersRemoved[dataset.ColRevenue])
	for _, f := range out.FloatColumn(dataset.ColRevenue) {
		assert.Less(t, f, 100.0)
	}
}

func TestRemoveOutliersZScore(t *testing.T) {
	// One extreme value against a tight cluster exceeds |z| = 3.
	values := make([]float64, 0, 31)
	for i := 0; i < 30; i++ {
		values = append(values, 10+float64(i%3))
	}
	values = append(values, 500)
	tbl := numericTable(t, values...)

	out, err := New(nil).RemoveOutliers(tbl, dataset.ColRevenue, MethodZScore, nil)
	require.NoError(t, err)

	assert.Equal(t, 30, out.NumRows())
}

func TestRemoveOutliersStableOnReapply(t *testing.T) {
	tbl := numericTable(t, 10, 12, 11, 13, 12, 11, 10, 1000)

	c := New(nil)
	once, err := c.RemoveOutliers(tbl, dataset.ColRevenue, MethodIQR, nil)
	require.NoError(t, err)

	twice, err := c.RemoveOutliers(once, dataset.ColRevenue, MethodIQR, nil)
	require.NoError(t, err)

	assert.True(t, once.Equal(twice), "reapplying outlier removal must not remove more rows")
}

func TestRemoveOutliersIQRKeepsTiedSample(t *testing.T) {
	// Q1 = 100, Q3 = 105 under linear interpolation, so the fences span
	// [92.5, 112.5] and 110 is an ordinary value, not an outlier.
	tbl := numericTable(t, 100, 110, 100)

	rep := NewReport()
	out, err := New(nil).RemoveOutliers(tbl, dataset.ColRevenue, MethodIQR, rep)
	require.NoError(t, err)

	assert.Equal(t, 3, out.NumRows())
	assert.Equal(t, 0, rep.OutliersRemoved[dataset.ColRevenue])
}

func TestRemoveOutliersIQRZeroRange(t *testing.T) {
	// Both quartiles land on the tied value, collapsing the range even
	// though the variance is nonzero. The step must back off rather than
	// fence everything at a single point.
	tbl := numericTable(t, 5, 5, 5, 5, 900)

	out, err := New(nil).RemoveOutliers(tbl, dataset.ColRevenue, MethodIQR, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, out.NumRows())
}

func TestRemoveOutliersZeroVariance(t *testing.T) {
	tbl := numericTable(t, 10, 10, 10, 10)

	out, err := New(nil).RemoveOutliers(tbl, dataset.ColRevenue, MethodZScore, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, out.NumRows())
}

func TestRemoveOutliersSkipsNonNumericCells(t *testing.T) {
	tbl := dataset.MustNew(dataset.ColProduct, dataset.ColRevenue)
	require.NoError(t, tbl.AppendRow(dataset.Text("A"), dataset.Number(10)))
	require.NoError(t, tbl.AppendRow(dataset.Text("B"), dataset.Null()))
	require.NoError(t, tbl.AppendRow(dataset.Text("C"), dataset.Number(12)))
	require.NoError(t, tbl.AppendRow(dataset.Text("D"), dataset.Number(11)))

	out, err := New(nil).RemoveOutliers(tbl, dataset.ColRevenue, MethodIQR, nil)
	require.NoError(t, err)

	// The null cell is never treated as an outlier.
	assert.Equal(t, 4, out.NumRows())
}

func TestRemoveOutliersValidation(t *testing.T) {
	tbl := numericTable(t, 10, 12)

	_, err := New(nil).RemoveOutliers(tbl, dataset.ColCost, MethodIQR, nil)
	assert.True(t, errors.IsInvalidColumn(err))

	_, err = New(nil).RemoveOutliers(tbl, dataset.ColProduct, MethodIQR, nil)
	assert.True(t, errors.IsInvalidColumn(err))

	_, err = New(nil).RemoveOutliers(tbl, dataset.ColRevenue, OutlierMethod("mad"), nil)
	assert.True(t, errors.IsInvalidArgument(err))

	empty := dataset.MustNew(dataset.ColRevenue)
	_, err = New(nil).RemoveOutliers(empty, dataset.ColRevenue, MethodIQR, nil)
	assert.True(t, errors.IsEmptyInput(err))
}
