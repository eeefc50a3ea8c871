package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"salescli/internal/analytics"
	"salescli/internal/cleaner"
	"salescli/internal/config"
	"salescli/internal/dataset"
	"salescli/internal/errors"
	"salescli/internal/loader"
)

// PipelineResult is the outcome of one load-clean-analyze run.
type PipelineResult struct {
	Table  *dataset.Table    `json:"-"`
	Report *cleaner.Report   `json:"report"`
	Bundle *analytics.Bundle `json:"bundle"`
	RunAt  time.Time         `json:"run_at"`
}

// SalesService orchestrates the pipeline and caches its latest result for
// the HTTP layer. Run replaces the cached result atomically; readers see
// either the previous complete result or the new one.
type SalesService struct {
	cfg     *config.Config
	loader  *loader.Loader
	cleaner *cleaner.Cleaner
	logger  *slog.Logger

	mu     sync.RWMutex
	latest *PipelineResult
}

// NewSalesService creates the service. A nil logger falls back to
// slog.Default.
func NewSalesService(cfg *config.Config, logger *slog.Logger) *SalesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesService{
		cfg:     cfg,
		loader:  loader.New(logger),
		cleaner: cleaner.New(logger),
		logger:  logger.With(slog.String("service", "sales")),
	}
}

// Options translates the configured pipeline defaults into cleaning
// options.
func (s *SalesService) Options() (cleaner.Options, error) {
	strategy, err := cleaner.ParseStrategy(s.cfg.Pipeline.MissingStrategy)
	if err != nil {
		return cleaner.Options{}, err
	}
	method, err := cleaner.ParseOutlierMethod(s.cfg.Pipeline.OutlierMethod)
	if err != nil {
		return cleaner.Options{}, err
	}

	opts := cleaner.DefaultOptions()
	opts.MissingStrategy = strategy
	opts.OutlierMethod = method
	if len(s.cfg.Pipeline.OutlierColumns) > 0 {
		opts.OutlierColumns = opts.OutlierColumns[:0]
		for _, col := range s.cfg.Pipeline.OutlierColumns {
			opts.OutlierColumns = append(opts.OutlierColumns, dataset.Column(col))
		}
	}
	return opts, nil
}

// Run executes the full pipeline over the given input files and caches the
// result.
func (s *SalesService) Run(ctx context.Context, paths []string) (*PipelineResult, error) {
	started := time.Now()

	raw, err := s.loader.LoadAll(ctx, paths)
	if err != nil {
		return nil, err
	}

	opts, err := s.Options()
	if err != nil {
		return nil, err
	}

	cleaned, report, err := s.cleaner.CleanAll(raw, opts)
	if err != nil {
		return nil, err
	}

	bundle, err := analytics.New(cleaned, s.logger).Bundle(s.cfg.Pipeline.TopProducts)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Table:  cleaned,
		Report: report,
		Bundle: bundle,
		RunAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.latest = result
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "pipeline run complete",
		slog.Int("input_rows", report.InputRows),
		slog.Int("output_rows", report.OutputRows),
		slog.Duration("elapsed", time.Since(started)))
	return result, nil
}

// Latest returns the most recent pipeline result, or an error when no run
// has completed yet.
func (s *SalesService) Latest(ctx context.Context) (*PipelineResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, errors.NewNotFoundError("pipeline result")
	}
	return s.latest, nil
}

// Bundle returns the cached KPI bundle.
func (s *SalesService) Bundle(ctx context.Context) (*analytics.Bundle, error) {
	result, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return result.Bundle, nil
}

// Report returns the cached cleaning report.
func (s *SalesService) Report(ctx context.Context) (*cleaner.Report, error) {
	result, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}
