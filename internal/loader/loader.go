// Package loader ingests regional statistics files into cleaned datasets.
// OOXML spreadsheets go through excelize, legacy BIFF workbooks through
// xlsReader, everything else through the delimited-text reader. The loader
// owns no shared state, so concurrent Load calls on distinct paths are safe.
package loader

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"agrozoom/internal/cleaning"
	"agrozoom/internal/config"
	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

// RegionalLoader reads a single statistics file into a cleaned dataset. It
// composes a Cleaner by delegation; the default is the standard cleaner
// with the configured processing settings.
type RegionalLoader struct {
	logger  *slog.Logger
	cfg     config.ProcessingConfig
	cleaner cleaning.Cleaner
}

// New creates a loader. A nil logger falls back to slog.Default and a nil
// cleaner to the standard implementation.
func New(logger *slog.Logger, cfg config.ProcessingConfig, cleaner cleaning.Cleaner) *RegionalLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if cleaner == nil {
		cleaner = cleaning.NewStandardCleaner(logger, cfg)
	}
	return &RegionalLoader{logger: logger, cfg: cfg, cleaner: cleaner}
}

// Load reads the file at path, selects a parser from the extension and
// returns the dataset after sparse-row filtering, name standardization and
// date coercion. Parse failures are logged and returned with their cause
// intact; no partial dataset is ever returned.
func (l *RegionalLoader) Load(path string) (*dataset.Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var ds *dataset.Dataset
	var err error
	switch ext {
	case ".xlsx":
		ds, err = l.readSpreadsheet(path)
	case ".xls":
		ds, err = l.readLegacySpreadsheet(path)
	case ".csv":
		ds, err = l.readDelimited(path)
	default:
		ds, err = l.readDelimited(path)
		if err != nil && !errors.IsType(err, errors.ErrTypeStorage) {
			err = errors.NewUnsupportedFormatError(path, err)
		}
	}
	if err != nil {
		l.logger.Error("failed to load regional data file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	ds, err = l.cleaner.FilterSparseRows(ds, l.cfg.MissingValueThreshold)
	if err != nil {
		return nil, err
	}
	ds = l.cleaner.StandardizeColumnNames(ds)
	ds = l.cleaner.CoerceDateColumns(ds, l.cfg.DateColumns)

	l.logger.Info("loaded regional data file",
		slog.String("path", path),
		slog.Int("rows", ds.NumRows()),
		slog.Int("columns", ds.NumCols()))
	return ds, nil
}

// readSpreadsheet parses the first sheet that contains data.
func (l *RegionalLoader) readSpreadsheet(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to open spreadsheet %s", path), err)
	}
	defer f.Close()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		ds, err := buildDataset(rows)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %s of %s", name, path), err)
		}
		return ds, nil
	}
	return nil, errors.NewParsingError(fmt.Sprintf("no data sheet found in %s", path), nil)
}

// readLegacySpreadsheet parses a BIFF workbook, first sheet with data. An
// OOXML file carrying an .xls extension is retried through the regular
// spreadsheet reader before the open failure is reported.
func (l *RegionalLoader) readLegacySpreadsheet(path string) (*dataset.Dataset, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		if ds, ooxmlErr := l.readSpreadsheet(path); ooxmlErr == nil {
			return ds, nil
		}
		return nil, errors.NewParsingError(fmt.Sprintf("failed to open spreadsheet %s", path), err)
	}

	for i := 0; i < wb.GetNumberSheets(); i++ {
		sh, err := wb.GetSheet(i)
		if err != nil || sh == nil {
			continue
		}
		rows := make([][]string, 0, sh.GetNumberRows())
		for r := 0; r < sh.GetNumberRows(); r++ {
			row, err := sh.GetRow(r)
			if err != nil || row == nil {
				continue
			}
			cells := row.GetCols()
			raw := make([]string, len(cells))
			for c, cell := range cells {
				raw[c] = cell.GetString()
			}
			rows = append(rows, raw)
		}
		if len(rows) == 0 {
			continue
		}
		ds, err := buildDataset(rows)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %d of %s", i, path), err)
		}
		return ds, nil
	}
	return nil, errors.NewParsingError(fmt.Sprintf("no data sheet found in %s", path), nil)
}

// readDelimited parses a UTF-8 delimited text file. The csv reader enforces
// a uniform column structure across records.
func (l *RegionalLoader) readDelimited(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}

	text := strings.TrimPrefix(string(data), "\ufeff")
	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to tokenize %s", path), err)
	}
	if len(records) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("empty file %s", path), nil)
	}

	ds, err := buildDataset(records)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
	}
	return ds, nil
}

// buildDataset turns raw rows into a dataset. The first row with any
// non-empty cell is the header; later rows are typed cell by cell.
func buildDataset(rows [][]string) (*dataset.Dataset, error) {
	headerRow := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				headerRow = i
				break
			}
		}
		if headerRow >= 0 {
			break
		}
	}
	if headerRow < 0 {
		return nil, fmt.Errorf("no header row found")
	}

	// Spreadsheet rows can be ragged; the widest row sets the column count
	// so no trailing cell is ever dropped.
	width := len(rows[headerRow])
	for _, row := range rows[headerRow:] {
		if len(row) > width {
			width = len(row)
		}
	}
	header := make([]string, width)
	copy(header, rows[headerRow])

	ds, _ := dataset.New()
	seen := make(map[string]int)
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", j+1)
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		if err := ds.AddColumn(dataset.NewColumn(name)); err != nil {
			return nil, err
		}
	}

	for _, row := range rows[headerRow+1:] {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		cells := make([]dataset.Value, len(header))
		for j := range header {
			if j < len(row) {
				cells[j] = parseCell(row[j])
			} else {
				cells[j] = dataset.Missing()
			}
		}
		if err := ds.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// parseCell types a raw cell: empty becomes the missing sentinel, numeric
// text (thousands separators stripped) becomes a float, anything else text.
func parseCell(raw string) dataset.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return dataset.Missing()
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return dataset.Float(f)
	}
	return dataset.Str(s)
}
