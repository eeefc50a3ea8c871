// Package loader reads raw sales transaction files into dataset tables.
//
// CSV and Excel inputs are supported. Cells are loaded verbatim as text (or
// null when blank) so the cleaning pipeline sees exactly what the file
// contained; no type coercion happens at load time. Headers are matched
// case-insensitively and the canonical required columns must all be present.
package loader
