// Package cleaning provides the stateless dataset transformations applied
// after load: sparse-row filtering, date coercion, column-name
// standardization and IQR outlier detection.
package cleaning

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"agrozoom/internal/config"
	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

// Cleaner is the dataset-cleaning capability consumed by loaders. A loader
// composes a Cleaner by delegation; specialized loaders may swap in their
// own implementation.
type Cleaner interface {
	FilterSparseRows(ds *dataset.Dataset, threshold float64) (*dataset.Dataset, error)
	CoerceDateColumns(ds *dataset.Dataset, candidates []string) *dataset.Dataset
	StandardizeColumnNames(ds *dataset.Dataset) *dataset.Dataset
	DetectOutliers(ds *dataset.Dataset, column string) ([]bool, error)
}

var _ Cleaner = (*StandardCleaner)(nil)

// StandardCleaner is the general-purpose Cleaner implementation.
type StandardCleaner struct {
	logger *slog.Logger
	cfg    config.ProcessingConfig
}

// NewStandardCleaner creates a cleaner with the given logger and processing
// settings. A nil logger falls back to slog.Default.
func NewStandardCleaner(logger *slog.Logger, cfg config.ProcessingConfig) *StandardCleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &StandardCleaner{logger: logger, cfg: cfg}
}

// dateLayouts are tried in order when coercing date columns.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

// Clean applies the full cleaning pipeline in the canonical order: sparse
// rows out, names standardized, configured date columns coerced.
func (c *StandardCleaner) Clean(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := c.FilterSparseRows(ds, c.cfg.MissingValueThreshold)
	if err != nil {
		return nil, err
	}
	out = c.StandardizeColumnNames(out)
	out = c.CoerceDateColumns(out, c.cfg.DateColumns)
	return out, nil
}

// FilterSparseRows drops every row whose fraction of missing cells exceeds
// threshold. Columns are never removed and the order of kept rows is
// preserved. A result with zero rows is valid.
func (c *StandardCleaner) FilterSparseRows(ds *dataset.Dataset, threshold float64) (*dataset.Dataset, error) {
	if threshold < 0 || threshold >= 1 {
		return nil, errors.NewValidationError(fmt.Sprintf("missing-value threshold must be in [0,1), got %g", threshold))
	}

	numCols := ds.NumCols()
	if numCols == 0 {
		return ds.Clone(), nil
	}

	out, _ := dataset.New()
	for _, name := range ds.Names() {
		col, _ := ds.Column(name)
		if err := out.AddColumn(dataset.NewColumn(col.Name)); err != nil {
			return nil, err
		}
	}

	dropped := 0
	for i := 0; i < ds.NumRows(); i++ {
		missing := float64(ds.MissingCount(i)) / float64(numCols)
		if missing > threshold {
			dropped++
			continue
		}
		if err := out.AppendRow(ds.Row(i)); err != nil {
			return nil, err
		}
	}

	if dropped > 0 {
		c.logger.Debug("dropped sparse rows",
			slog.Int("dropped", dropped),
			slog.Int("kept", out.NumRows()),
			slog.Float64("threshold", threshold))
	}
	return out, nil
}

// CoerceDateColumns parses every cell of the named columns as a calendar
// date. Unparseable cells become the missing sentinel; candidate columns
// absent from the dataset are skipped. This step never fails.
func (c *StandardCleaner) CoerceDateColumns(ds *dataset.Dataset, candidates []string) *dataset.Dataset {
	out := ds.Clone()
	for _, name := range candidates {
		col, ok := out.Column(name)
		if !ok {
			continue
		}
		for i, v := range col.Values {
			col.Values[i] = coerceDate(v)
		}
	}
	return out
}

func coerceDate(v dataset.Value) dataset.Value {
	switch v.Kind() {
	case dataset.KindTime:
		return v
	case dataset.KindFloat:
		f, _ := v.Float64()
		if year := int(f); float64(year) == f && year >= 1000 && year <= 9999 {
			return dataset.Time(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
		}
		return dataset.Missing()
	case dataset.KindString:
		s, _ := v.Text()
		s = strings.TrimSpace(s)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return dataset.Time(t)
			}
		}
		return dataset.Missing()
	default:
		return dataset.Missing()
	}
}

// StandardizeColumnNames renames every column to lowercase with spaces and
// hyphens replaced by underscores. Distinct names that collide after
// normalization are disambiguated with _2, _3, ... suffixes in original
// column order, which keeps the operation total and idempotent.
func (c *StandardCleaner) StandardizeColumnNames(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	seen := make(map[string]int)
	for i := 0; i < out.NumCols(); i++ {
		col := out.ColumnAt(i)
		name := normalizeName(col.Name)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		col.Name = name
	}
	return out
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// DetectOutliers flags every value of the named numeric column outside
// [Q1-1.5*IQR, Q3+1.5*IQR]. The result is aligned 1:1 with dataset rows;
// missing cells are never flagged. Removal is a caller decision.
func (c *StandardCleaner) DetectOutliers(ds *dataset.Dataset, column string) ([]bool, error) {
	col, ok := ds.Column(column)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("column %q", column))
	}

	// Only the IQR method is implemented; other configured values are
	// accepted and ignored.
	if m := c.cfg.OutlierMethod; m != "" && m != "iqr" {
		c.logger.Debug("unimplemented outlier method, using iqr", slog.String("method", m))
	}

	for _, v := range col.Values {
		if k := v.Kind(); k == dataset.KindString || k == dataset.KindTime {
			return nil, errors.NewInvalidColumnTypeError(column)
		}
	}

	values, rows := ds.Floats(column)
	if len(values) == 0 {
		return nil, errors.NewInsufficientDataError(column)
	}

	q1 := quantile(values, 0.25)
	q3 := quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	flags := make([]bool, ds.NumRows())
	for i, v := range values {
		if v < lower || v > upper {
			flags[rows[i]] = true
		}
	}
	return flags, nil
}

// quantile computes the p-quantile with linear interpolation between order
// statistics at position (n-1)*p. gonum's stat.Quantile offers only the
// Empirical and LinInterp cumulant kinds, neither of which matches this
// positional definition, so it is computed here directly.
func quantile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	h := float64(len(sorted)-1) * p
	lo := int(h)
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
