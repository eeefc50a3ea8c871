package dataset

import (
	"fmt"
	"strings"
	"time"
)

// Column names a table column.
type Column string

// Canonical sales schema columns. The loader validates that the required
// columns are present; Cost is optional and only carried when profit
// analysis is requested.
const (
	ColDate     Column = "date"
	ColProduct  Column = "product"
	ColRegion   Column = "region"
	ColRevenue  Column = "revenue"
	ColQuantity Column = "quantity"
	ColCost     Column = "cost"
)

// RequiredColumns lists the columns every input table must carry.
var RequiredColumns = []Column{ColDate, ColProduct, ColRegion, ColRevenue, ColQuantity}

// IsNumeric reports whether the column holds numeric data once coerced.
func (c Column) IsNumeric() bool {
	switch c {
	case ColRevenue, ColQuantity, ColCost:
		return true
	default:
		return false
	}
}

// IsDate reports whether the column holds calendar dates once coerced.
func (c Column) IsDate() bool {
	return c == ColDate
}

// IsCategorical reports whether the column holds categorical strings.
func (c Column) IsCategorical() bool {
	switch c {
	case ColProduct, ColRegion:
		return true
	default:
		return false
	}
}

// Table is an ordered collection of rows over a fixed column schema.
// Transforming methods return a fresh Table and leave the receiver intact.
type Table struct {
	columns []Column
	index   map[Column]int
	rows    [][]Value
}

// New creates an empty table with the given schema. Duplicate column names
// are rejected.
func New(columns ...Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}
	index := make(map[Column]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		index[col] = i
	}
	return &Table{
		columns: append([]Column(nil), columns...),
		index:   index,
	}, nil
}

// MustNew is New for schemas known to be valid at compile time. It panics on
// a bad schema and is intended for tests and fixed internal schemas.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the schema in declaration order.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// HasColumn reports whether the schema contains the column.
func (t *Table) HasColumn(col Column) bool {
	_, ok := t.index[col]
	return ok
}

// ColumnIndex returns the position of the column in each row.
func (t *Table) ColumnIndex(col Column) (int, bool) {
	i, ok := t.index[col]
	return i, ok
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// IsEmpty reports whether the table has zero rows.
func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// AppendRow adds a row to the table being built. The number of cells must
// match the schema.
func (t *Table) AppendRow(cells ...Value) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("row has %d cells, schema has %d columns", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]Value(nil), cells...))
	return nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) []Value {
	return append([]Value(nil), t.rows[i]...)
}

// At returns the cell at row i, column col. Missing columns yield the null
// cell.
func (t *Table) At(i int, col Column) Value {
	c, ok := t.index[col]
	if !ok {
		return Null()
	}
	return t.rows[i][c]
}

// SetRow replaces row i with the given cells. Like the index operators it
// panics when i is out of range or the arity does not match the schema; it
// exists for builders and cleaning steps that own a private clone.
func (t *Table) SetRow(i int, cells []Value) {
	if len(cells) != len(t.columns) {
		panic(fmt.Sprintf("dataset: row has %d cells, schema has %d columns", len(cells), len(t.columns)))
	}
	t.rows[i] = append([]Value(nil), cells...)
}

// Empty returns a new table sharing the receiver's schema with no rows.
func (t *Table) Empty() *Table {
	out, _ := New(t.columns...)
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := t.Empty()
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]Value(nil), row...)
	}
	return out
}

// Select returns a new table holding the rows for which keep returns true,
// in their original order.
func (t *Table) Select(keep func(i int, row []Value) bool) *Table {
	out := t.Empty()
	for i, row := range t.rows {
		if keep(i, row) {
			out.rows = append(out.rows, append([]Value(nil), row...))
		}
	}
	return out
}

// Map returns a new table whose rows are produced by applying fn to each row
// of the receiver. fn receives a private copy and its return value is stored
// as the new row.
func (t *Table) Map(fn func(i int, row []Value) []Value) *Table {
	out := t.Empty()
	out.rows = make([][]Value, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = fn(i, append([]Value(nil), row...))
	}
	return out
}

// Equal reports whether two tables share the same schema and cell-for-cell
// contents in the same order.
func (t *Table) Equal(o *Table) bool {
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i, col := range t.columns {
		if o.columns[i] != col {
			return false
		}
	}
	for i, row := range t.rows {
		for j, cell := range row {
			if !cell.Equal(o.rows[i][j]) {
				return false
			}
		}
	}
	return true
}

// FloatColumn extracts the numeric cells of a column, skipping nulls and
// non-numeric cells. The returned slice preserves table order.
func (t *Table) FloatColumn(col Column) []float64 {
	c, ok := t.index[col]
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(t.rows))
	for _, row := range t.rows {
		if f, ok := row[c].Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// TimeColumn extracts the date cells of a column, skipping nulls and
// non-date cells. The returned slice preserves table order.
func (t *Table) TimeColumn(col Column) []time.Time {
	c, ok := t.index[col]
	if !ok {
		return nil
	}
	out := make([]time.Time, 0, len(t.rows))
	for _, row := range t.rows {
		if ts, ok := row[c].Time(); ok {
			out = append(out, ts)
		}
	}
	return out
}

// Fingerprint renders row i as a canonical string for exact-duplicate
// detection. Cell renderings are joined with an unprintable separator so
// adjacent text cells cannot collide.
func (t *Table) Fingerprint(i int) string {
	parts := make([]string, len(t.rows[i]))
	for j, cell := range t.rows[i] {
		parts[j] = cell.Kind().String() + ":" + cell.String()
	}
	return strings.Join(parts, "\x1f")
}
