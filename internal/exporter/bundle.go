package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"log/slog"

	"salescli/internal/analytics"
	"salescli/internal/cleaner"
	"salescli/internal/dataset"
)

// KPIExporter writes the analysis outputs of a pipeline run: the cleaned
// table, the KPI bundle, and the cleaning report.
type KPIExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewKPIExporter creates an exporter writing under outputDir.
func NewKPIExporter(outputDir string, logger *slog.Logger) *KPIExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &KPIExporter{
		csvWriter: NewCSVWriter(outputDir, logger),
		logger:    logger.With(slog.String("component", "exporter")),
	}
}

// ExportCleanedData writes the cleaned table to cleaned_sales.csv.
func (e *KPIExporter) ExportCleanedData(t *dataset.Table) error {
	return e.csvWriter.WriteTable("cleaned_sales.csv", t)
}

// ExportBundle writes the KPI bundle as one JSON document plus a CSV file
// per KPI family so the numbers open directly in a spreadsheet.
func (e *KPIExporter) ExportBundle(bundle *analytics.Bundle) error {
	if err := e.writeJSON("kpi_bundle.json", bundle); err != nil {
		return err
	}

	records := make([][]string, 0, len(bundle.TopProducts))
	for _, p := range bundle.TopProducts {
		records = append(records, []string{p.Product, money(p.Revenue)})
	}
	if err := e.csvWriter.WriteCSV("top_products.csv", WriteOptions{
		Headers:   []string{"product", "revenue"},
		Records:   records,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("failed to write top products: %w", err)
	}

	records = records[:0]
	for _, r := range bundle.Regions {
		records = append(records, []string{r.Region, money(r.Revenue), percent(&r.Percent)})
	}
	if err := e.csvWriter.WriteCSV("region_revenue.csv", WriteOptions{
		Headers:   []string{"region", "revenue", "percent"},
		Records:   records,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("failed to write region revenue: %w", err)
	}

	records = records[:0]
	for _, m := range bundle.Monthly {
		records = append(records, []string{m.Month, money(m.Revenue), percent(m.GrowthRate)})
	}
	if err := e.csvWriter.WriteCSV("monthly_growth.csv", WriteOptions{
		Headers:   []string{"month", "revenue", "growth_rate"},
		Records:   records,
		BOMPrefix: true,
	}); err != nil {
		return fmt.Errorf("failed to write monthly growth: %w", err)
	}

	if bundle.Profit != nil {
		records = records[:0]
		for _, p := range bundle.Profit.Products {
			records = append(records, []string{
				p.Product, money(p.Revenue), money(p.Cost), money(p.Profit), percent(p.Margin),
			})
		}
		if err := e.csvWriter.WriteCSV("profit_margins.csv", WriteOptions{
			Headers:   []string{"product", "revenue", "cost", "profit", "margin"},
			Records:   records,
			BOMPrefix: true,
		}); err != nil {
			return fmt.Errorf("failed to write profit margins: %w", err)
		}
	}

	e.logger.Info("kpi bundle exported",
		slog.Int("top_products", len(bundle.TopProducts)),
		slog.Int("regions", len(bundle.Regions)),
		slog.Int("months", len(bundle.Monthly)))
	return nil
}

// ExportReport writes the cleaning report to cleaning_report.json.
func (e *KPIExporter) ExportReport(rep *cleaner.Report) error {
	return e.writeJSON("cleaning_report.json", rep)
}

func (e *KPIExporter) writeJSON(filePath string, v any) error {
	fullPath := e.csvWriter.resolvePath(filePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filePath, err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	return nil
}

// money renders a currency amount with two decimal places.
func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// percent renders a percentage with two decimal places, or blank when the
// value is undefined.
func percent(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}
