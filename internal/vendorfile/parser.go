// =============================================================================
// Vendor Normalizer - Vendor File Parser
// =============================================================================
//
// This module reads vendor exports into a types.Table: the ordered header
// names plus one row map per data line. It handles:
//   - CSV/TXT/TSV files with configurable delimiters
//   - XLSX/XLSM workbooks (first sheet unless configured)
//   - UTF-8 (with or without BOM), ISO-8859-1 and Windows-1252 encodings
//
// TABLE RULES:
//   - The first line is the header. Header names are trimmed; a blank name
//     becomes "Column_N" and a repeated name gets a "_1", "_2", ... suffix so
//     column names are always distinct.
//   - Cell values are kept verbatim (no trimming).
//   - A row shorter than the header omits the missing keys; cells beyond the
//     header are dropped.
//   - Rows where every cell is blank are skipped.
//
// =============================================================================

package vendorfile

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the vendor file at path.
//
// PARAMETERS:
//   - path: The path to a CSV or XLSX file. The extension selects the format.
//   - settings: The input settings from the configuration.
//
// RETURNS:
//   - The parsed table, with Source set to the file's base name.
//   - An error if the file cannot be opened or parsed.
func Parse(path string, settings config.InputSettings) (*types.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return ParseReader(file, filepath.Base(path), settings)
}

// ParseReader reads a vendor file from r. name is used to pick the format by
// extension and is recorded as the table source.
func ParseReader(r io.Reader, name string, settings config.InputSettings) (*types.Table, error) {
	var (
		records [][]string
		err     error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(r, settings.Sheet)
	case ".tsv":
		if settings.Delimiter == "" || settings.Delimiter == "," {
			settings.Delimiter = "tab"
		}
		records, err = readCSV(r, settings)
	default:
		records, err = readCSV(r, settings)
	}
	if err != nil {
		return nil, err
	}

	table, err := buildTable(records)
	if err != nil {
		return nil, err
	}
	table.Source = name
	return table, nil
}

// readCSV decodes r and returns every record.
func readCSV(r io.Reader, settings config.InputSettings) ([][]string, error) {
	decoded, err := decode(r, settings.Encoding)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(decoded)
	configureReader(reader, settings)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return records, nil
}

// decode wraps r with a decoder for the configured encoding. UTF-8 input has
// its byte order mark removed.
func decode(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "UTF-8", "UTF8":
		return transform.NewReader(r, xunicode.BOMOverride(xunicode.UTF8.NewDecoder())), nil
	case "ISO-8859-1", "LATIN1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding)
	}
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.InputSettings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Vendor exports are often ragged and loosely quoted.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// =============================================================================
// TABLE CONSTRUCTION
// =============================================================================

// buildTable turns raw records into a Table.
func buildTable(records [][]string) (*types.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	headers := cleanHeaders(records[0])
	table := &types.Table{
		Columns: headers,
		Rows:    make([]types.Row, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if isRowEmpty(record) {
			continue
		}
		row := make(types.Row, len(headers))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			row[h] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// cleanHeaders trims header names, names blank ones "Column_N" and makes
// repeated names distinct.
func cleanHeaders(raw []string) []string {
	cleaned := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))

	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		seen[name] = true
		cleaned[i] = name
	}

	return cleaned
}

// isRowEmpty checks if a row contains only blank values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// ParseBytes is ParseReader over an in-memory file.
func ParseBytes(data []byte, name string, settings config.InputSettings) (*types.Table, error) {
	return ParseReader(bytes.NewReader(data), name, settings)
}
