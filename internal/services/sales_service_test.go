package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	"salescli/internal/errors"
)

func writeSalesCSV(t *testing.T) string {
	t.Helper()
	content := "date,product,region,revenue,quantity\n" +
		"2024-01-01,Widget,North,100,1\n" +
		"2024-01-01,Widget,North,100,1\n" + // duplicate
		"2024-01-15,Gadget,South,,2\n" + // missing revenue
		"2024-02-01,Widget,North,120,1\n" +
		"2024-02-10,Gizmo,South,110,2\n"
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunPipelineEndToEnd(t *testing.T) {
	svc := NewSalesService(config.Default(), nil)

	result, err := svc.Run(context.Background(), []string{writeSalesCSV(t)})
	require.NoError(t, err)

	assert.Equal(t, 5, result.Report.InputRows)
	assert.Equal(t, 1, result.Report.DuplicatesRemoved)
	assert.Equal(t, result.Table.NumRows(), result.Report.OutputRows)

	require.NotNil(t, result.Bundle)
	assert.Positive(t, result.Bundle.TotalRevenue)
	assert.NotEmpty(t, result.Bundle.TopProducts)
	assert.NotEmpty(t, result.Bundle.Monthly)
	assert.Nil(t, result.Bundle.Profit, "no cost column in the input")
}

func TestLatestBeforeAnyRun(t *testing.T) {
	svc := NewSalesService(config.Default(), nil)

	_, err := svc.Latest(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeNotFound))
}

func TestLatestServesCachedResult(t *testing.T) {
	svc := NewSalesService(config.Default(), nil)

	ran, err := svc.Run(context.Background(), []string{writeSalesCSV(t)})
	require.NoError(t, err)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Same(t, ran, latest)

	bundle, err := svc.Bundle(context.Background())
	require.NoError(t, err)
	assert.Same(t, ran.Bundle, bundle)

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Same(t, ran.Report, report)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.MissingStrategy = "interpolate"
	cfg.Pipeline.OutlierMethod = "zscore"
	cfg.Pipeline.OutlierColumns = []string{"revenue"}

	svc := NewSalesService(cfg, nil)
	opts, err := svc.Options()
	require.NoError(t, err)

	assert.Equal(t, "interpolate", string(opts.MissingStrategy))
	assert.Equal(t, "zscore", string(opts.OutlierMethod))
	require.Len(t, opts.OutlierColumns, 1)
	assert.Equal(t, "revenue", string(opts.OutlierColumns[0]))
}

func TestOptionsRejectsBadStrategy(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.MissingStrategy = "median"

	_, err := NewSalesService(cfg, nil).Options()
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedStrategy(err))
}
