// Package dataset defines the in-memory table model shared by the cleaning
// and analytics layers.
//
// A Table is an ordered sequence of rows over a fixed column schema. Cells are
// tagged Value variants (null, text, number, timestamp) so that a freshly
// loaded table can carry untyped text and the cleaner can coerce it in place
// of the loader. Every transforming operation returns a new Table; the
// receiver is never mutated, so each pipeline stage owns an immutable
// snapshot of its input.
package dataset
