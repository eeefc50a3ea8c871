package dataset

// Group is one bucket produced by GroupBy: a key and the indices of the rows
// that mapped to it, in table order.
type Group struct {
	Key  string
	Rows []int
}

// GroupBy folds the table into ordered buckets. key receives each row and
// returns the bucket key; rows for which ok is false are skipped. Buckets
// appear in order of first occurrence, which lets callers implement
// deterministic tie-breaking without a second pass.
//
// All KPI aggregations (per product, per region, per month) share this fold.
func (t *Table) GroupBy(key func(i int, row []Value) (k string, ok bool)) []Group {
	index := make(map[string]int)
	var groups []Group
	for i, row := range t.rows {
		k, ok := key(i, row)
		if !ok {
			continue
		}
		g, seen := index[k]
		if !seen {
			index[k] = len(groups)
			groups = append(groups, Group{Key: k})
			g = len(groups) - 1
		}
		groups[g].Rows = append(groups[g].Rows, i)
	}
	return groups
}

// SumFloat sums the numeric cells of col over the given row indices.
func (t *Table) SumFloat(col Column, rows []int) float64 {
	c, ok := t.index[col]
	if !ok {
		return 0
	}
	var sum float64
	for _, i := range rows {
		if f, ok := t.rows[i][c].Float(); ok {
			sum += f
		}
	}
	return sum
}
