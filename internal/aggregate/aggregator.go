// Package aggregate groups a dataset by a categorical key and computes
// summary statistics per group.
package aggregate

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

// DefaultRegionColumn is the categorical key used when none is given.
const DefaultRegionColumn = "province"

// Aggregator computes per-region summary statistics.
type Aggregator struct {
	logger *slog.Logger
}

// New creates an aggregator. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// AggregateByProvince aggregates valueColumn grouped by the default
// "province" column.
func (a *Aggregator) AggregateByProvince(ds *dataset.Dataset, valueColumn string) (*dataset.Dataset, error) {
	return a.AggregateByRegion(ds, valueColumn, DefaultRegionColumn)
}

// AggregateByRegion groups rows by the distinct values of regionColumn and
// computes sum, arithmetic mean and sample standard deviation of
// valueColumn per group. Output rows follow the first-appearance order of
// each region in the source dataset; the result is never sorted. A group
// with a single valid value gets the missing sentinel for its standard
// deviation, and rows with a missing region key are skipped.
func (a *Aggregator) AggregateByRegion(ds *dataset.Dataset, valueColumn, regionColumn string) (*dataset.Dataset, error) {
	regionCol, ok := ds.Column(regionColumn)
	if !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("region column %q", regionColumn))
	}
	if _, ok := ds.Column(valueColumn); !ok {
		return nil, errors.NewNotFoundError(fmt.Sprintf("value column %q", valueColumn))
	}
	if !ds.IsNumeric(valueColumn) {
		return nil, errors.NewInvalidColumnTypeError(valueColumn)
	}

	valueCol, _ := ds.Column(valueColumn)

	var order []string
	groups := make(map[string][]float64)
	for i := 0; i < ds.NumRows(); i++ {
		key := regionCol.Values[i]
		if key.IsMissing() {
			continue
		}
		name := key.String()
		if _, seen := groups[name]; !seen {
			order = append(order, name)
			groups[name] = nil
		}
		if f, ok := valueCol.Values[i].Float64(); ok {
			groups[name] = append(groups[name], f)
		}
	}

	out, err := dataset.New(
		dataset.NewColumn(regionColumn),
		dataset.NewColumn("sum"),
		dataset.NewColumn("mean"),
		dataset.NewColumn("std"),
	)
	if err != nil {
		return nil, err
	}

	for _, name := range order {
		values := groups[name]
		row := []dataset.Value{dataset.Str(name), dataset.Missing(), dataset.Missing(), dataset.Missing()}
		if len(values) > 0 {
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			row[1] = dataset.Float(sum)
			row[2] = dataset.Float(stat.Mean(values, nil))
			if len(values) > 1 {
				row[3] = dataset.Float(stat.StdDev(values, nil))
			}
		}
		if err := out.AppendRow(row); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("aggregated dataset by region",
		slog.String("region_column", regionColumn),
		slog.String("value_column", valueColumn),
		slog.Int("groups", out.NumRows()))
	return out, nil
}
