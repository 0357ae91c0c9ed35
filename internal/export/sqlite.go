package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ginjaninja78/vendor-normalizer/internal/types"
)

// DefaultTable is the table name used when SQLiteWriter.Table is empty.
const DefaultTable = "normalized_rows"

// SQLiteWriter writes a SQLite database holding one table. The file is
// replaced if it exists. All columns are TEXT, named after the fields. SQLite
// compares names without case, so a field that clashes with an earlier one
// (for example "SKU" after "sku") gets a "_1", "_2", ... suffix.
type SQLiteWriter struct {
	Table string
}

// Extension implements Writer.
func (SQLiteWriter) Extension() string { return ".sqlite" }

// Write implements Writer.
func (s SQLiteWriter) Write(ctx context.Context, path string, ds types.Dataset) error {
	table := s.Table
	if table == "" {
		table = DefaultTable
	}
	if len(ds.Fields) == 0 {
		return fmt.Errorf("dataset has no fields")
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	names := columnNames(ds.Fields)
	defs := make([]string, len(names))
	cols := make([]string, len(names))
	for i, name := range names {
		cols[i] = quoteIdent(name)
		defs[i] = cols[i] + " TEXT"
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	ph := strings.TrimRight(strings.Repeat("?,", len(cols)), ",")
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(table), strings.Join(cols, ", "), ph)
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(cols))
	for i := 0; i < ds.Len(); i++ {
		for j, v := range ds.Record(i) {
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// columnNames returns fields made distinct under case-insensitive comparison.
func columnNames(fields []string) []string {
	names := make([]string, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := f
		for n := 1; seen[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s_%d", f, n)
		}
		seen[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
