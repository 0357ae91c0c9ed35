package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-normalizer/internal/chart"
	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/export"
	"github.com/ginjaninja78/vendor-normalizer/internal/logging"
)

const acmeCSV = "Item_SKU,Item Name,Price,TransactionDate,Category\n" +
	"A1,Widget,10,2024-01-01,Tools\n" +
	"A2,Gadget,5.5,2024-01-02,Toys\n" +
	"A3,Gizmo,2,2024-01-03,Tools\n"

func testRuntime(t *testing.T) *appRuntime {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	strategies, err := converter.StrategiesFromConfig(cfg)
	require.NoError(t, err)
	return &appRuntime{cfg: cfg, strategies: strategies, logger: logging.Nop()}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHelpListsExportFormats(t *testing.T) {
	for _, format := range []string{"CSV", "XLSX", "SQLite", "XML"} {
		_, err := export.ForFormat(strings.ToLower(format), export.Options{})
		require.NoError(t, err, format)
		assert.Contains(t, rootCmd.Long, format)
		assert.Contains(t, normalizeCmd.Flag("format").Usage, strings.ToLower(format))
	}
}

func TestParseMapFlags(t *testing.T) {
	got, err := parseMapFlags([]string{"unit_price=Net Price", " date =a=b", "sku=__none__"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"unit_price": "Net Price", "date": "a=b", "sku": "__none__"}, got)

	_, err = parseMapFlags([]string{"unit_price"})
	assert.Error(t, err)
	_, err = parseMapFlags([]string{"=Price"})
	assert.Error(t, err)
}

func TestRunNormalize(t *testing.T) {
	rt := testRuntime(t)
	a := writeFile(t, "acme.csv", acmeCSV)
	b := writeFile(t, "other.csv", acmeCSV)

	opts := normalizeOptions{
		mapping: mappingFlags{
			maps:     []string{"product_name=Item Name", "unit_price=Price"},
			optional: []string{"Category"},
		},
	}

	var out bytes.Buffer
	require.NoError(t, runNormalize(context.Background(), rt, []string{a, b}, opts, &out))
	assert.Contains(t, out.String(), "Successful:      2")

	data, err := os.ReadFile(filepath.Join(rt.cfg.OutputDir, "prosera_normalized_acme.csv"))
	require.NoError(t, err)
	assert.Equal(t, "sku,product_name,unit_price,date,Category\n"+
		"A1,Widget,10,2024-01-01,Tools\n"+
		"A2,Gadget,5.5,2024-01-02,Toys\n"+
		"A3,Gizmo,2,2024-01-03,Tools\n", string(data))
	assert.FileExists(t, filepath.Join(rt.cfg.OutputDir, "prosera_normalized_other.csv"))
}

func TestRunNormalizeFormatAndDir(t *testing.T) {
	rt := testRuntime(t)
	a := writeFile(t, "acme.csv", acmeCSV)
	dir := filepath.Join(t.TempDir(), "custom")

	opts := normalizeOptions{
		mapping:   mappingFlags{maps: []string{"product_name=Item Name", "unit_price=Price"}},
		format:    "xlsx",
		outputDir: dir,
	}

	var out bytes.Buffer
	require.NoError(t, runNormalize(context.Background(), rt, []string{a}, opts, &out))
	assert.FileExists(t, filepath.Join(dir, "prosera_normalized_acme.xlsx"))
}

func TestRunNormalizeIncomplete(t *testing.T) {
	rt := testRuntime(t)
	a := writeFile(t, "acme.csv", acmeCSV)

	var out bytes.Buffer
	err := runNormalize(context.Background(), rt, []string{a}, normalizeOptions{}, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "missing Product Name, Unit Price")
	assert.NoDirExists(t, rt.cfg.OutputDir)
}

func TestRunNormalizeRejectsBadFlags(t *testing.T) {
	rt := testRuntime(t)
	a := writeFile(t, "acme.csv", acmeCSV)

	err := runNormalize(context.Background(), rt, []string{a}, normalizeOptions{format: "json"}, &bytes.Buffer{})
	assert.Error(t, err)

	opts := normalizeOptions{mapping: mappingFlags{maps: []string{"colour=Category"}}}
	err = runNormalize(context.Background(), rt, []string{a}, opts, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunNormalizeDryRun(t *testing.T) {
	rt := testRuntime(t)
	a := writeFile(t, "acme.csv", acmeCSV)

	opts := normalizeOptions{
		mapping: mappingFlags{maps: []string{"product_name=Item Name", "unit_price=Price"}, allOptional: true},
		dryRun:  true,
	}
	var out bytes.Buffer
	require.NoError(t, runNormalize(context.Background(), rt, []string{a}, opts, &out))
	assert.Contains(t, out.String(), "3 rows, 5 fields (dry run)")
	assert.NoDirExists(t, rt.cfg.OutputDir)
}

func TestPrintInspection(t *testing.T) {
	rt := testRuntime(t)
	ws, err := rt.loadWorkspace(writeFile(t, "acme.csv", acmeCSV), converter.Choices{})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printInspection(&out, ws, 2))

	s := out.String()
	assert.Contains(t, s, "Rows:    3")
	assert.Contains(t, s, "Item_SKU")
	assert.Contains(t, s, "(not mapped)")
	assert.Contains(t, s, "Missing: Product Name, Unit Price")
	assert.NotContains(t, s, "Gizmo", "preview is limited")
}

func TestLoadWorkspaceUnknownField(t *testing.T) {
	rt := testRuntime(t)
	_, err := rt.loadWorkspace(writeFile(t, "acme.csv", acmeCSV), converter.Choices{Required: map[string]string{"colour": "x"}})
	assert.Error(t, err)
}

func chartWorkspace(t *testing.T) (*appRuntime, converter.Workspace) {
	rt := testRuntime(t)
	ws, err := rt.loadWorkspace(writeFile(t, "acme.csv", acmeCSV), converter.Choices{
		Required: map[string]string{"product_name": "Item Name", "unit_price": "Price"},
		Optional: []string{"Category"},
	})
	require.NoError(t, err)
	return rt, ws
}

func TestRunChartListsFields(t *testing.T) {
	rt, ws := chartWorkspace(t)

	var out bytes.Buffer
	require.NoError(t, runChart(&out, ws, rt.strategies.Classifier, "bar", chartOptions{}))
	assert.Contains(t, out.String(), "Numeric fields:     unit_price")
	assert.Contains(t, out.String(), "Categorical fields: sku, product_name, date, Category")
}

func TestRunChartJSON(t *testing.T) {
	rt, ws := chartWorkspace(t)

	var out bytes.Buffer
	opts := chartOptions{key: "Category", value: "unit_price", chartType: "line", asJSON: true}
	require.NoError(t, runChart(&out, ws, rt.strategies.Classifier, "bar", opts))

	var c chart.Chart
	require.NoError(t, json.Unmarshal(out.Bytes(), &c))
	assert.Equal(t, chart.Line, c.Type)
	require.Len(t, c.Points, 2)
	assert.Equal(t, 12.0, c.Points[0].Value)
}

func TestRunChartTable(t *testing.T) {
	rt, ws := chartWorkspace(t)

	var out bytes.Buffer
	opts := chartOptions{key: "Category", value: "unit_price"}
	require.NoError(t, runChart(&out, ws, rt.strategies.Classifier, "bar", opts))
	assert.Contains(t, out.String(), "unit_price by Category (Top 10) [bar]")
	assert.Contains(t, out.String(), "total")

	opts.key = "Colour"
	assert.Error(t, runChart(&out, ws, rt.strategies.Classifier, "bar", opts))
	opts.key, opts.chartType = "Category", "donut"
	assert.Error(t, runChart(&out, ws, rt.strategies.Classifier, "bar", opts))
}
