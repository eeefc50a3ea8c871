package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"salescli/internal/config"
	"salescli/internal/exporter"
	"salescli/internal/services"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	inDir := flag.String("in", "", "input directory holding .csv/.xlsx files (overrides config)")
	outDir := flag.String("out", "", "output directory for reports (overrides config)")
	flag.Parse()

	if err := run(*configFile, *inDir, *outDir, flag.Args()); err != nil {
		slog.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configFile, inDir, outDir string, explicitFiles []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if inDir != "" {
		cfg.Paths.InputDir = inDir
	}
	if outDir != "" {
		cfg.Paths.OutputDir = outDir
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	paths := explicitFiles
	if len(paths) == 0 {
		paths, err = discoverInputs(cfg.Paths.InputDir)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files found in %s", cfg.Paths.InputDir)
	}

	logger.Info("processing sales data",
		slog.Int("files", len(paths)),
		slog.String("output_dir", cfg.Paths.OutputDir))

	service := services.NewSalesService(cfg, logger)
	result, err := service.Run(context.Background(), paths)
	if err != nil {
		return err
	}

	exp := exporter.NewKPIExporter(cfg.Paths.OutputDir, logger)
	if err := exp.ExportCleanedData(result.Table); err != nil {
		return err
	}
	if err := exp.ExportBundle(result.Bundle); err != nil {
		return err
	}
	if err := exp.ExportReport(result.Report); err != nil {
		return err
	}

	logger.Info("processing complete",
		slog.Int("input_rows", result.Report.InputRows),
		slog.Int("output_rows", result.Report.OutputRows),
		slog.Float64("total_revenue", result.Bundle.TotalRevenue))
	return nil
}

// discoverInputs lists the supported data files in dir, sorted by name so
// runs are deterministic.
func discoverInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
