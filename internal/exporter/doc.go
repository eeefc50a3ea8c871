// Package exporter writes pipeline outputs to disk: the cleaned table as
// CSV, the KPI bundle as JSON plus per-KPI CSV files, and the cleaning
// report as JSON. CSV files carry a UTF-8 BOM so Excel opens them correctly.
package exporter
