// Package chart renders datasets as figures. PlotRenderer writes PNG
// figures; WorkbookRenderer embeds native charts in spreadsheets for
// analysts who live in Excel. Both are stateless pass-throughs from
// dataset values to the underlying charting library.
package chart

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

// Renderer is the chart-rendering capability. Implementations are selected
// at the call site by explicit construction.
type Renderer interface {
	// TimeSeries draws yColumn against xColumn as a line chart.
	TimeSeries(ds *dataset.Dataset, xColumn, yColumn, title, outPath string) error
	// RegionalBar draws one bar per region for valueColumn.
	RegionalBar(ds *dataset.Dataset, regionColumn, valueColumn, title, outPath string) error
	// CorrelationMatrix draws the pairwise Pearson correlations of the
	// named numeric columns; an empty selection means every numeric column.
	CorrelationMatrix(ds *dataset.Dataset, columns []string, title, outPath string) error
}

var titleCaser = cases.Title(language.English)

// labelize turns a standardized column name into an axis label.
func labelize(column string) string {
	return titleCaser.String(strings.ReplaceAll(column, "_", " "))
}

// regionSeries extracts the (label, value) pairs for a bar chart, skipping
// rows where either cell is missing.
func regionSeries(ds *dataset.Dataset, regionColumn, valueColumn string) ([]string, []float64) {
	regionCol, ok := ds.Column(regionColumn)
	if !ok {
		return nil, nil
	}
	valueCol, ok := ds.Column(valueColumn)
	if !ok {
		return nil, nil
	}

	var labels []string
	var values []float64
	for i := 0; i < ds.NumRows(); i++ {
		if regionCol.Values[i].IsMissing() {
			continue
		}
		v, ok := valueCol.Values[i].Float64()
		if !ok {
			continue
		}
		labels = append(labels, regionCol.Values[i].String())
		values = append(values, v)
	}
	return labels, values
}

// correlationMatrix assembles the complete observations of the selected
// numeric columns and computes their Pearson correlation matrix. Rows with
// a missing cell in any selected column are skipped; at least two columns
// and two complete rows are required.
func correlationMatrix(ds *dataset.Dataset, columns []string) ([]string, *mat.SymDense, error) {
	if len(columns) == 0 {
		for _, name := range ds.Names() {
			if ds.IsNumeric(name) {
				columns = append(columns, name)
			}
		}
	}
	if len(columns) < 2 {
		return nil, nil, errors.NewInsufficientDataError(strings.Join(columns, ", "))
	}

	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			return nil, nil, errors.NewNotFoundError(fmt.Sprintf("column %q", name))
		}
		if !ds.IsNumeric(name) {
			return nil, nil, errors.NewInvalidColumnTypeError(name)
		}
		cols[i] = col
	}

	var data []float64
	rows := 0
	for i := 0; i < ds.NumRows(); i++ {
		obs := make([]float64, len(cols))
		complete := true
		for j, col := range cols {
			v, ok := col.Values[i].Float64()
			if !ok {
				complete = false
				break
			}
			obs[j] = v
		}
		if !complete {
			continue
		}
		data = append(data, obs...)
		rows++
	}
	if rows < 2 {
		return nil, nil, errors.NewInsufficientDataError(strings.Join(columns, ", "))
	}

	corr := mat.NewSymDense(len(columns), nil)
	stat.CorrelationMatrix(corr, mat.NewDense(rows, len(columns), data), nil)
	return columns, corr, nil
}
