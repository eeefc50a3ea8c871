package loader

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"salescli/internal/dataset"
	"salescli/internal/errors"
)

// Loader reads sales transaction files into raw tables.
type Loader struct {
	logger *slog.Logger
}

// New creates a loader. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// Load reads one file, dispatching on extension. .csv is read as
// comma-separated text, .xlsx via the first sheet of the workbook.
func (l *Loader) Load(ctx context.Context, path string) (*dataset.Table, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.LoadCSV(path)
	case ".xlsx":
		return l.LoadExcel(path)
	default:
		return nil, errors.NewInvalidArgumentError("unsupported input format " + filepath.Ext(path))
	}
}

// LoadAll reads several files concurrently and concatenates their rows in
// the order the paths were given. All files must resolve to the same schema.
func (l *Loader) LoadAll(ctx context.Context, paths []string) (*dataset.Table, error) {
	if len(paths) == 0 {
		return nil, errors.NewEmptyInputError("load")
	}

	tables := make([]*dataset.Table, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, path := range paths {
		g.Go(func() error {
			t, err := l.Load(ctx, path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := tables[0]
	for _, t := range tables[1:] {
		m, err := concat(merged, t)
		if err != nil {
			return nil, err
		}
		merged = m
	}
	l.logger.InfoContext(ctx, "loaded input files",
		slog.Int("files", len(paths)),
		slog.Int("rows", merged.NumRows()))
	return merged, nil
}

// LoadCSV reads a comma-separated file. A UTF-8 byte order mark on the
// header is tolerated, as are ragged rows, which are padded with blanks.
func (l *Loader) LoadCSV(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("open input file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.NewEmptyInputError("loadCSV")
	}
	if err != nil {
		return nil, errors.NewParsingError("read csv header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	t, sourceIdx, err := tableForHeader(header)
	if err != nil {
		return nil, err
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("read csv row", err)
		}
		if blankRecord(record) {
			continue
		}
		if err := appendRaw(t, sourceIdx, record); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("csv loaded", slog.String("path", path), slog.Int("rows", t.NumRows()))
	return t, nil
}

// LoadExcel reads the first sheet of an Excel workbook.
func (l *Loader) LoadExcel(path string) (*dataset.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewEmptyInputError("loadExcel")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.NewParsingError("read sheet "+sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.NewEmptyInputError("loadExcel")
	}

	t, sourceIdx, err := tableForHeader(rows[0])
	if err != nil {
		return nil, err
	}
	for _, record := range rows[1:] {
		if blankRecord(record) {
			continue
		}
		if err := appendRaw(t, sourceIdx, record); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheets[0]),
		slog.Int("rows", t.NumRows()))
	return t, nil
}

// tableForHeader builds the table schema from a header record. Headers are
// matched case-insensitively against the canonical column names and every
// required column must appear; unrecognized columns are dropped. The second
// return value maps each schema column to its position in the source record.
func tableForHeader(header []string) (*dataset.Table, map[dataset.Column]int, error) {
	sourceIdx := make(map[dataset.Column]int, len(header))
	for i, h := range header {
		name := dataset.Column(strings.ToLower(strings.TrimSpace(h)))
		if _, seen := sourceIdx[name]; !seen {
			sourceIdx[name] = i
		}
	}
	for _, col := range dataset.RequiredColumns {
		if _, ok := sourceIdx[col]; !ok {
			return nil, nil, errors.NewMissingColumnError(string(col))
		}
	}

	columns := append([]dataset.Column(nil), dataset.RequiredColumns...)
	if _, ok := sourceIdx[dataset.ColCost]; ok {
		columns = append(columns, dataset.ColCost)
	}
	t, err := dataset.New(columns...)
	if err != nil {
		return nil, nil, err
	}
	return t, sourceIdx, nil
}

// appendRaw maps one raw record onto the table schema. Cells are stored as
// trimmed text, or null when blank or absent from a ragged row.
func appendRaw(t *dataset.Table, sourceIdx map[dataset.Column]int, record []string) error {
	columns := t.Columns()
	cells := make([]dataset.Value, 0, len(columns))
	for _, col := range columns {
		var raw string
		if i, ok := sourceIdx[col]; ok && i < len(record) {
			raw = strings.TrimSpace(record[i])
		}
		if raw == "" {
			cells = append(cells, dataset.Null())
		} else {
			cells = append(cells, dataset.Text(raw))
		}
	}
	return t.AppendRow(cells...)
}

// concat appends b's rows to a into a fresh table. The schemas must match
// column for column.
func concat(a, b *dataset.Table) (*dataset.Table, error) {
	ac, bc := a.Columns(), b.Columns()
	if len(ac) != len(bc) {
		return nil, errors.NewValidationError("input files carry different columns")
	}
	for i := range ac {
		if ac[i] != bc[i] {
			return nil, errors.NewValidationError("input files carry different columns")
		}
	}

	out := a.Clone()
	for i := 0; i < b.NumRows(); i++ {
		if err := out.AppendRow(b.Row(i)...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
