package vendorfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

func defaultSettings() config.InputSettings {
	return config.Default().Input
}

func TestParseCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendor.csv")
	data := "Item Code, Item Name ,Price,Transaction Date\n" +
		"A1,Widget,10.00,2024-01-01\n" +
		"A2,\"Gadget, large\",  20.5 ,2024-01-02\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := Parse(path, defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "vendor.csv", table.Source)
	assert.Equal(t, []string{"Item Code", "Item Name", "Price", "Transaction Date"}, table.Columns)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, "Gadget, large", table.Rows[1]["Item Name"])
	assert.Equal(t, "  20.5 ", table.Rows[1]["Price"], "values are kept verbatim")
}

func TestParseReaderHeaderCleaning(t *testing.T) {
	data := "SKU,,SKU, SKU ,Qty\n1,2,3,4,5\n"

	table, err := ParseReader(bytes.NewBufferString(data), "x.csv", defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"SKU", "Column_2", "SKU_1", "SKU_2", "Qty"}, table.Columns)
	assert.Equal(t, "3", table.Rows[0]["SKU_1"])
	assert.Equal(t, "2", table.Rows[0]["Column_2"])
}

func TestParseReaderShortAndBlankRows(t *testing.T) {
	data := "a,b,c\n1,2\n,,\n\n4,5,6,7\n"

	table, err := ParseReader(bytes.NewBufferString(data), "x.csv", defaultSettings())
	require.NoError(t, err)
	require.Equal(t, 2, table.RowCount())

	_, ok := table.Rows[0]["c"]
	assert.False(t, ok, "short rows omit trailing keys")
	assert.Equal(t, types.Row{"a": "4", "b": "5", "c": "6"}, table.Rows[1])
}

func TestParseReaderDelimiters(t *testing.T) {
	settings := defaultSettings()
	settings.Delimiter = "pipe"
	table, err := ParseReader(bytes.NewBufferString("a|b\n1|2\n"), "x.txt", settings)
	require.NoError(t, err)
	assert.Equal(t, "2", table.Rows[0]["b"])

	table, err = ParseReader(bytes.NewBufferString("a\tb\n1\t2\n"), "x.tsv", defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
}

func TestParseReaderEncodings(t *testing.T) {
	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte("SKU,Name\n1,Caf\xc3\xa9\n")...)
	table, err := ParseReader(bytes.NewReader(bom), "x.csv", defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "SKU", table.Columns[0], "BOM is stripped")
	assert.Equal(t, "Café", table.Rows[0]["Name"])

	settings := defaultSettings()
	settings.Encoding = "ISO-8859-1"
	table, err = ParseReader(bytes.NewReader([]byte("Name\nCaf\xe9\n")), "x.csv", settings)
	require.NoError(t, err)
	assert.Equal(t, "Café", table.Rows[0]["Name"])

	settings.Encoding = "Windows-1252"
	table, err = ParseReader(bytes.NewReader([]byte("Price\n\x8010\n")), "x.csv", settings)
	require.NoError(t, err)
	assert.Equal(t, "€10", table.Rows[0]["Price"])

	settings.Encoding = "EBCDIC"
	_, err = ParseReader(bytes.NewReader([]byte("a\n1\n")), "x.csv", settings)
	assert.Error(t, err)
}

func TestParseReaderEmpty(t *testing.T) {
	_, err := ParseReader(bytes.NewReader(nil), "x.csv", defaultSettings())
	assert.Error(t, err)
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.csv"), defaultSettings())
	assert.Error(t, err)
}

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	data := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"SKU", "Product Name", "Unit Price"},
		{"A1", "Widget", "10.00"},
		{"A2", "Gadget", "20.50"},
	})

	table, err := ParseBytes(data, "vendor.xlsx", defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"SKU", "Product Name", "Unit Price"}, table.Columns)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, "20.50", table.Rows[1]["Unit Price"])
}

func TestParseWorkbookNamedSheet(t *testing.T) {
	data := writeWorkbook(t, "Prices", [][]interface{}{
		{"Code", "Cost"},
		{"Z9", "3"},
	})

	settings := defaultSettings()
	settings.Sheet = "Prices"
	table, err := ParseBytes(data, "vendor.xlsx", settings)
	require.NoError(t, err)
	assert.Equal(t, "3", table.Rows[0]["Cost"])

	settings.Sheet = "Missing"
	_, err = ParseBytes(data, "vendor.xlsx", settings)
	assert.Error(t, err)
}

func TestCleanHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"A", "A_1", "A_1_1", "Column_4"},
		cleanHeaders([]string{"A", "A", "A_1", "  "}),
	)
}
