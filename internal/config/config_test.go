package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.1, cfg.Processing.MissingValueThreshold)
	assert.Equal(t, "iqr", cfg.Processing.OutlierMethod)
	assert.Equal(t, []string{"year", "date", "period"}, cfg.Processing.DateColumns)
	assert.Equal(t, 2, cfg.Processing.NumericPrecision)
	assert.Equal(t, []string{".xlsx", ".xls", ".csv"}, cfg.Source.Extensions)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFrom_FileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrozoom.yaml")
	content := `
processing:
  missing_value_threshold: 0.25
  outlier_method: zscore
logging:
  format: text
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 0.25, cfg.Processing.MissingValueThreshold)
	// Unknown methods are accepted, not validated.
	assert.Equal(t, "zscore", cfg.Processing.OutlierMethod)
	assert.Equal(t, "text", cfg.Logging.Format)
	// Untouched sections keep defaults.
	assert.Equal(t, 300, cfg.Viz.DPI)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agrozoom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("processing:\n  missing_value_threshold: 0.25\n"), 0644))

	t.Setenv("AGROZOOM_PROCESSING_MISSING_VALUE_THRESHOLD", "0.5")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Processing.MissingValueThreshold)
}

func TestLoadFrom_InvalidThreshold(t *testing.T) {
	t.Setenv("AGROZOOM_PROCESSING_MISSING_VALUE_THRESHOLD", "1.5")

	_, err := LoadFrom("")
	assert.Error(t, err)
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths = PathsConfig{
		DataDir:      filepath.Join(dir, "data"),
		RawDir:       filepath.Join(dir, "data", "raw"),
		ProcessedDir: filepath.Join(dir, "data", "processed"),
		ReportsDir:   filepath.Join(dir, "reports"),
		FiguresDir:   filepath.Join(dir, "reports", "figures"),
	}

	require.NoError(t, cfg.EnsureDirectories())

	for _, p := range []string{cfg.Paths.RawDir, cfg.Paths.ProcessedDir, cfg.Paths.FiguresDir} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
