package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

// writeCSV writes a dataset to path, applying the advisory numeric
// precision when formatting float cells. Missing cells become empty fields.
func writeCSV(ds *dataset.Dataset, path string, precision int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ds.Names()); err != nil {
		return errors.NewStorageError("failed to write CSV header", err)
	}

	for i := 0; i < ds.NumRows(); i++ {
		record := make([]string, ds.NumCols())
		for j, cell := range ds.Row(i) {
			record[j] = formatCell(cell, precision)
		}
		if err := w.Write(record); err != nil {
			return errors.NewStorageError("failed to write CSV row", err)
		}
	}

	w.Flush()
	return w.Error()
}

func formatCell(v dataset.Value, precision int) string {
	if f, ok := v.Float64(); ok && precision >= 0 {
		return strconv.FormatFloat(f, 'f', precision, 64)
	}
	return v.String()
}
