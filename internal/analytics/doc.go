// Package analytics computes the KPI bundle from a cleaned sales table.
//
// The Analyzer is read-only: it is constructed with a table reference and
// never mutates it, so any number of KPI queries can run in any order.
// Degenerate numeric states such as a zero revenue total or a zero-revenue
// prior month produce defined sentinels (0% shares, nil growth and margin)
// rather than errors, because they are legitimate data states. An
// empty-but-valid table yields zero or empty aggregates throughout.
package analytics
