// Package cleaner repairs data-quality defects in raw sales tables.
//
// The four repair steps (duplicate removal, missing-value handling, type
// coercion, outlier removal) are independently invocable and are composed in
// a fixed, order-sensitive sequence by CleanAll: type coercion must follow
// missing-value handling so fill and interpolation operate on raw values,
// and outlier removal must follow coercion because it requires numeric
// columns. Every step returns a new table; inputs are never mutated. A
// Report accumulates the row counts affected by each step for
// observability; nothing branches on it.
package cleaner
