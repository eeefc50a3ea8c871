package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New(ColDate, ColProduct, ColDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate column")
}

func TestAppendRowArity(t *testing.T) {
	tbl := MustNew(ColProduct, ColRevenue)

	require.NoError(t, tbl.AppendRow(Text("A"), Number(10)))
	err := tbl.AppendRow(Text("B"))
	require.Error(t, err)
	assert.Equal(t, 1, tbl.NumRows())
}

func TestAtMissingColumnYieldsNull(t *testing.T) {
	tbl := MustNew(ColProduct)
	require.NoError(t, tbl.AppendRow(Text("A")))

	assert.True(t, tbl.At(0, ColRevenue).IsNull())
}

func TestSelectPreservesOrderAndSource(t *testing.T) {
	tbl := MustNew(ColProduct, ColRevenue)
	require.NoError(t, tbl.AppendRow(Text("A"), Number(10)))
	require.NoError(t, tbl.AppendRow(Text("B"), Number(20)))
	require.NoError(t, tbl.AppendRow(Text("C"), Number(30)))

	kept := tbl.Select(func(_ int, row []Value) bool {
		f, _ := row[1].Float()
		return f != 20
	})

	require.Equal(t, 2, kept.NumRows())
	name, _ := kept.At(0, ColProduct).TextValue()
	assert.Equal(t, "A", name)
	name, _ = kept.At(1, ColProduct).TextValue()
	assert.Equal(t, "C", name)

	// The source table is untouched.
	assert.Equal(t, 3, tbl.NumRows())
}

func TestMapDoesNotMutateSource(t *testing.T) {
	tbl := MustNew(ColRevenue)
	require.NoError(t, tbl.AppendRow(Number(10)))

	doubled := tbl.Map(func(_ int, row []Value) []Value {
		f, _ := row[0].Float()
		row[0] = Number(f * 2)
		return row
	})

	f, _ := doubled.At(0, ColRevenue).Float()
	assert.Equal(t, 20.0, f)
	f, _ = tbl.At(0, ColRevenue).Float()
	assert.Equal(t, 10.0, f)
}

func TestCloneIsDeep(t *testing.T) {
	tbl := MustNew(ColProduct)
	require.NoError(t, tbl.AppendRow(Text("A")))

	clone := tbl.Clone()
	clone.SetRow(0, []Value{Text("B")})

	name, _ := tbl.At(0, ColProduct).TextValue()
	assert.Equal(t, "A", name)
}

func TestEqual(t *testing.T) {
	a := MustNew(ColProduct, ColRevenue)
	require.NoError(t, a.AppendRow(Text("A"), Number(10)))

	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.SetRow(0, []Value{Text("A"), Number(11)})
	assert.False(t, a.Equal(b))
}

func TestFloatColumnSkipsNonNumeric(t *testing.T) {
	tbl := MustNew(ColRevenue)
	require.NoError(t, tbl.AppendRow(Number(10)))
	require.NoError(t, tbl.AppendRow(Null()))
	require.NoError(t, tbl.AppendRow(Text("abc")))
	require.NoError(t, tbl.AppendRow(Number(30)))

	assert.Equal(t, []float64{10, 30}, tbl.FloatColumn(ColRevenue))
}

func TestGroupByOrderedByFirstOccurrence(t *testing.T) {
	tbl := MustNew(ColRegion, ColRevenue)
	require.NoError(t, tbl.AppendRow(Text("South"), Number(1)))
	require.NoError(t, tbl.AppendRow(Text("North"), Number(2)))
	require.NoError(t, tbl.AppendRow(Text("South"), Number(3)))

	groups := tbl.GroupBy(func(i int, _ []Value) (string, bool) {
		return tbl.At(i, ColRegion).TextValue()
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "South", groups[0].Key)
	assert.Equal(t, []int{0, 2}, groups[0].Rows)
	assert.Equal(t, "North", groups[1].Key)

	assert.Equal(t, 4.0, tbl.SumFloat(ColRevenue, groups[0].Rows))
}

func TestFingerprintDistinguishesKinds(t *testing.T) {
	tbl := MustNew(ColRevenue)
	require.NoError(t, tbl.AppendRow(Number(10)))
	require.NoError(t, tbl.AppendRow(Text("10")))

	assert.NotEqual(t, tbl.Fingerprint(0), tbl.Fingerprint(1))
}

func TestTimeColumn(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tbl := MustNew(ColDate)
	require.NoError(t, tbl.AppendRow(Timestamp(day)))
	require.NoError(t, tbl.AppendRow(Null()))

	times := tbl.TimeColumn(ColDate)
	require.Len(t, times, 1)
	assert.True(t, day.Equal(times[0]))
}
