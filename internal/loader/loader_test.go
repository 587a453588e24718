package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agrozoom/internal/config"
	"agrozoom/internal/dataset"
	"agrozoom/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newLoader(t *testing.T) *RegionalLoader {
	t.Helper()
	return New(nil, config.Default().Processing, nil)
}

func TestLoad_CSV(t *testing.T) {
	path := writeFile(t, "wheat.csv", "Province,Year,Planted Area\nAnkara,2020,1500\nIzmir,2020,900\nKonya,2021,4100\n")

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"province", "year", "planted_area"}, ds.Names())
	assert.Equal(t, 3, ds.NumRows())

	// The year column is coerced to dates by the default config.
	col, _ := ds.Column("year")
	d, ok := col.Values[0].Date()
	require.True(t, ok)
	assert.Equal(t, 2020, d.Year())

	area, _ := ds.Column("planted_area")
	f, ok := area.Values[2].Float64()
	require.True(t, ok)
	assert.Equal(t, 4100.0, f)
}

func TestLoad_CSVWithBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufeffProvince,Value\nAnkara,10\n")

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"province", "value"}, ds.Names())
}

func TestLoad_CSVSparseRowsFiltered(t *testing.T) {
	// Second data row has 2 of 3 cells missing; the default 0.1 threshold
	// drops it.
	path := writeFile(t, "sparse.csv", "Province,Year,Value\nAnkara,2020,10\nIzmir,,\nKonya,2021,30\n")

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())

	col, _ := ds.Column("province")
	s, _ := col.Values[1].Text()
	assert.Equal(t, "Konya", s)
}

func TestLoad_CSVThousandsSeparators(t *testing.T) {
	path := writeFile(t, "sep.csv", "Province,Value\nAnkara,\"1,234,567\"\n")

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)

	col, _ := ds.Column("value")
	f, ok := col.Values[0].Float64()
	require.True(t, ok)
	assert.Equal(t, 1234567.0, f)
}

func TestLoad_Spreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Province", "Year", "Wheat Production"},
		{"Ankara", 2020, 1200.5},
		{"Izmir", 2020, 800},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"province", "year", "wheat_production"}, ds.Names())
	assert.Equal(t, 2, ds.NumRows())

	col, _ := ds.Column("wheat_production")
	v, ok := col.Values[0].Float64()
	require.True(t, ok)
	assert.Equal(t, 1200.5, v)
}

func TestLoad_SpreadsheetRaggedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Province", "Value"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	wide := []interface{}{"Ankara", 10, "irrigated"}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &wide))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	// The data row is wider than the header; its trailing cell lands in a
	// placeholder column instead of being dropped.
	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"province", "value", "column_3"}, ds.Names())
	col, _ := ds.Column("column_3")
	s, ok := col.Values[0].Text()
	require.True(t, ok)
	assert.Equal(t, "irrigated", s)
}

func TestLoad_LegacyExtensionOOXMLContent(t *testing.T) {
	// An OOXML workbook saved with an .xls extension still loads through
	// the fallback.
	path := filepath.Join(t.TempDir(), "report.xls")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Province", "Value"},
		{"Ankara", 10},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"province", "value"}, ds.Names())
	assert.Equal(t, 1, ds.NumRows())
}

func TestLoad_LegacySpreadsheetCorrupt(t *testing.T) {
	path := writeFile(t, "broken.xls", "neither BIFF nor OOXML")

	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestLoad_SpreadsheetCorrupt(t *testing.T) {
	path := writeFile(t, "broken.xlsx", "this is not a spreadsheet")

	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
}

func TestLoad_UnknownExtensionDelimitedFallback(t *testing.T) {
	// A uniform delimited file with an unknown extension is still accepted.
	path := writeFile(t, "data.txt", "Province,Value\nAnkara,10\n")

	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.NumRows())
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "junk.bin", "a\"b\nc,d,e\n\"unterminated")

	_, err := newLoader(t).Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnsupportedFormat))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := newLoader(t).Load(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestLoad_MissingFileUnknownExtension(t *testing.T) {
	// An I/O failure is reported as a storage problem, not a format one.
	_, err := newLoader(t).Load(filepath.Join(t.TempDir(), "absent.dat"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
	assert.False(t, errors.IsType(err, errors.ErrTypeUnsupportedFormat))
}

func TestLoad_SemicolonDelimited(t *testing.T) {
	path := writeFile(t, "short.csv", "Province;Value\nAnkara;10\n")

	// Semicolon-delimited content tokenizes as a single comma-split column;
	// the loader still returns a structurally valid dataset.
	ds, err := newLoader(t).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.NumCols())
	assert.Equal(t, 1, ds.NumRows())
}

func TestBuildDataset_HeaderAfterBlankRows(t *testing.T) {
	ds, err := buildDataset([][]string{
		{"", ""},
		{"Province", "Value"},
		{"Ankara", "10"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Province", "Value"}, ds.Names())
	assert.Equal(t, 1, ds.NumRows())
}

func TestBuildDataset_DuplicateHeaders(t *testing.T) {
	ds, err := buildDataset([][]string{
		{"Value", "Value"},
		{"1", "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value", "Value_2"}, ds.Names())
}

func TestBuildDataset_RaggedRows(t *testing.T) {
	ds, err := buildDataset([][]string{
		{"Province", "Value"},
		{"Ankara", "10", "extra"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Province", "Value", "column_3"}, ds.Names())

	col, _ := ds.Column("column_3")
	s, _ := col.Values[0].Text()
	assert.Equal(t, "extra", s)
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		kind dataset.Kind
	}{
		{"", dataset.KindMissing},
		{"  ", dataset.KindMissing},
		{"12.5", dataset.KindFloat},
		{"1,200", dataset.KindFloat},
		{"Ankara", dataset.KindString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, parseCell(tt.raw).Kind(), "raw=%q", tt.raw)
	}
}
