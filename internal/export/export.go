// =============================================================================
// Vendor Normalizer - Export Module
// =============================================================================
//
// This module writes a normalized Dataset to disk. Every format writes the
// dataset's field keys as the header (or column names) and one record per
// row, in field order.
//
// SUPPORTED FORMATS:
//   csv    - comma separated, RFC 4180 quoting
//   xlsx   - a single "Normalized" worksheet
//   sqlite - a single table of TEXT columns
//   xml    - one <row> per record, one <field name="..."> per field
//
// =============================================================================

package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// ErrUnknownFormat is returned by ForFormat for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown export format")

// Writer writes a dataset to a file.
type Writer interface {
	// Extension is the file extension including the dot, e.g. ".csv".
	Extension() string

	// Write creates (or replaces) the file at path.
	Write(ctx context.Context, path string, ds types.Dataset) error
}

// Options tunes the writers returned by ForFormat.
type Options struct {
	// SQLiteTable is the destination table for the sqlite format.
	SQLiteTable string

	// Sheet is the worksheet name for the xlsx format.
	Sheet string
}

// ForFormat returns the writer for format ("csv", "xlsx", "sqlite" or "xml").
func ForFormat(format string, opts Options) (Writer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVWriter{}, nil
	case "xlsx":
		return XLSXWriter{Sheet: opts.Sheet}, nil
	case "sqlite":
		return SQLiteWriter{Table: opts.SQLiteTable}, nil
	case "xml":
		return XMLWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
