package export

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// CSVWriter writes comma separated files.
type CSVWriter struct{}

// Extension implements Writer.
func (CSVWriter) Extension() string { return ".csv" }

// Write implements Writer.
func (CSVWriter) Write(_ context.Context, path string, ds types.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	buf := bufio.NewWriter(file)
	if err := WriteCSV(buf, ds); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}
	return file.Sync()
}

// WriteCSV writes ds to w: the field keys as header, then one record per row.
func WriteCSV(w io.Writer, ds types.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Fields); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := 0; i < ds.Len(); i++ {
		if err := cw.Write(ds.Record(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
