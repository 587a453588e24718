// Package metadata records provenance for processed datasets and produces
// structural summaries consumed by reports.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

// Record describes one processed data file.
type Record struct {
	ID          string                 `json:"id"`
	FilePath    string                 `json:"file_path"`
	Source      string                 `json:"source"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"created_date"`
	FileSizeMB  float64                `json:"file_size_mb"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// Create builds a metadata record for the file at path.
func Create(path, source, description string, extra map[string]interface{}) (*Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to stat %s", path), err)
	}

	return &Record{
		ID:          uuid.NewString(),
		FilePath:    path,
		Source:      source,
		Description: description,
		CreatedAt:   time.Now().UTC(),
		FileSizeMB:  float64(info.Size()) / (1024 * 1024),
		Extra:       extra,
	}, nil
}

// Save writes the record as indented JSON.
func Save(record *Record, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create metadata directory", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to encode metadata", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write metadata to %s", path), err)
	}
	return nil
}

// ColumnSummary holds the per-column part of a dataset summary.
type ColumnSummary struct {
	Name    string   `json:"name"`
	Missing int      `json:"missing"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
}

// DatasetSummary is the structural overview of a dataset.
type DatasetSummary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}

// Summarize computes shape, missing counts and basic numeric statistics for
// every column.
func Summarize(ds *dataset.Dataset) DatasetSummary {
	summary := DatasetSummary{Rows: ds.NumRows()}
	for _, name := range ds.Names() {
		col, _ := ds.Column(name)
		cs := ColumnSummary{Name: name}
		for _, v := range col.Values {
			if v.IsMissing() {
				cs.Missing++
			}
		}
		if values, _ := ds.Floats(name); len(values) > 0 && ds.IsNumeric(name) {
			minV, maxV, sum := values[0], values[0], 0.0
			for _, v := range values {
				if v < minV {
					minV = v
				}
				if v > maxV {
					maxV = v
				}
				sum += v
			}
			mean := sum / float64(len(values))
			cs.Min, cs.Max, cs.Mean = &minV, &maxV, &mean
		}
		summary.Columns = append(summary.Columns, cs)
	}
	return summary
}

// EnsureDir creates the directory if it does not exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create directory %s", path), err)
	}
	return nil
}

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Extension returns the lowercased file extension, including the dot.
func Extension(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
