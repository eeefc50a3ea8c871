package http

import (
	"context"

	"salescli/internal/analytics"
	"salescli/internal/cleaner"
	"salescli/internal/services"
)

// SalesServiceInterface is the contract the KPI handler depends on. Tests
// substitute a stub.
type SalesServiceInterface interface {
	Run(ctx context.Context, paths []string) (*services.PipelineResult, error)
	Latest(ctx context.Context) (*services.PipelineResult, error)
	Bundle(ctx context.Context) (*analytics.Bundle, error)
	Report(ctx context.Context) (*cleaner.Report, error)
}
