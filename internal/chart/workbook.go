package chart

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

const workbookSheet = "Data"

var _ Renderer = (*WorkbookRenderer)(nil)

// WorkbookRenderer writes the dataset to a spreadsheet with an embedded
// native chart next to the data.
type WorkbookRenderer struct {
	logger *slog.Logger
}

// NewWorkbookRenderer creates a spreadsheet chart renderer.
func NewWorkbookRenderer(logger *slog.Logger) *WorkbookRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookRenderer{logger: logger}
}

// TimeSeries embeds a line chart of yColumn over xColumn.
func (r *WorkbookRenderer) TimeSeries(ds *dataset.Dataset, xColumn, yColumn, title, outPath string) error {
	return r.render(ds, xColumn, yColumn, title, outPath, excelize.Line)
}

// RegionalBar embeds a column chart of valueColumn per region.
func (r *WorkbookRenderer) RegionalBar(ds *dataset.Dataset, regionColumn, valueColumn, title, outPath string) error {
	return r.render(ds, regionColumn, valueColumn, title, outPath, excelize.Col)
}

// CorrelationMatrix writes the pairwise correlations of the selected
// numeric columns as a labeled grid on the data sheet.
func (r *WorkbookRenderer) CorrelationMatrix(ds *dataset.Dataset, columns []string, title, outPath string) error {
	names, corr, err := correlationMatrix(ds, columns)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	index, err := f.NewSheet(workbookSheet)
	if err != nil {
		return errors.NewStorageError("failed to create workbook sheet", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return errors.NewStorageError("failed to drop default sheet", err)
	}

	header := make([]interface{}, len(names)+1)
	header[0] = title
	for j, name := range names {
		header[j+1] = labelize(name)
	}
	if err := f.SetSheetRow(workbookSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write workbook header", err)
	}
	for i, name := range names {
		row := make([]interface{}, len(names)+1)
		row[0] = labelize(name)
		for j := range names {
			row[j+1] = corr.At(i, j)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("failed to address workbook row", err)
		}
		if err := f.SetSheetRow(workbookSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write workbook row", err)
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save workbook %s", outPath), err)
	}

	r.logger.Info("rendered workbook correlation matrix",
		slog.String("title", title),
		slog.String("path", outPath),
		slog.Int("columns", len(names)))
	return nil
}

func (r *WorkbookRenderer) render(ds *dataset.Dataset, labelColumn, valueColumn, title, outPath string, chartType excelize.ChartType) error {
	if _, ok := ds.Column(labelColumn); !ok {
		return errors.NewNotFoundError(fmt.Sprintf("column %q", labelColumn))
	}
	if _, ok := ds.Column(valueColumn); !ok {
		return errors.NewNotFoundError(fmt.Sprintf("column %q", valueColumn))
	}
	if !ds.IsNumeric(valueColumn) {
		return errors.NewInvalidColumnTypeError(valueColumn)
	}

	labels, values := regionSeries(ds, labelColumn, valueColumn)
	if len(values) == 0 {
		return errors.NewInsufficientDataError(valueColumn)
	}

	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	index, err := f.NewSheet(workbookSheet)
	if err != nil {
		return errors.NewStorageError("failed to create workbook sheet", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return errors.NewStorageError("failed to drop default sheet", err)
	}

	header := []interface{}{labelize(labelColumn), labelize(valueColumn)}
	if err := f.SetSheetRow(workbookSheet, "A1", &header); err != nil {
		return errors.NewStorageError("failed to write workbook header", err)
	}
	for i := range labels {
		row := []interface{}{labels[i], values[i]}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewStorageError("failed to address workbook row", err)
		}
		if err := f.SetSheetRow(workbookSheet, cell, &row); err != nil {
			return errors.NewStorageError("failed to write workbook row", err)
		}
	}

	lastRow := len(labels) + 1
	chart := &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", workbookSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", workbookSheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", workbookSheet, lastRow),
		}},
		Title: []excelize.RichTextRun{{Text: title}},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
	}
	if err := f.AddChart(workbookSheet, "D2", chart); err != nil {
		return errors.NewStorageError("failed to embed chart", err)
	}

	if err := f.SaveAs(outPath); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to save workbook %s", outPath), err)
	}

	r.logger.Info("rendered workbook chart",
		slog.String("title", title),
		slog.String("path", outPath),
		slog.Int("rows", len(labels)))
	return nil
}
