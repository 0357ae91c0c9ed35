// =============================================================================
// Vendor Normalizer - Normalize Command
// =============================================================================
//
// This file defines the 'normalize' command, which maps one or more vendor
// files onto the schema and writes the normalized output.
//
// COMMAND USAGE:
//   normalizer normalize FILE... [flags]
//
// FLAGS:
//   --map field=column : Override the inferred column for a required field
//   --optional column  : Keep an extra vendor column (repeatable)
//   --all-optional     : Keep every column not used by a required field
//   --format           : csv, xlsx, sqlite or xml (default from config)
//   --output-dir       : Output directory (default from config)
//   --dry-run          : Check mappings without writing anything
//
// PROCESSING:
//   Files are processed concurrently, at most max_concurrency at a time.
//   The same mapping flags apply to every file. A file whose mapping is
//   incomplete fails on its own; the others still run.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/export"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// normalizeOptions holds the normalize command's flags.
type normalizeOptions struct {
	mapping   mappingFlags
	format    string
	outputDir string
	dryRun    bool
}

var normalizeOpts normalizeOptions

// =============================================================================
// NORMALIZE COMMAND DEFINITION
// =============================================================================

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE...",
	Short: "Normalize vendor files and write the results",
	Long: `The normalize command reads each vendor file, infers the required field
mapping, applies the --map and --optional choices, and writes the normalized
rows to the output directory.

A file whose required fields are not all mapped is reported with the missing
fields and nothing is written for it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		return runNormalize(cmd.Context(), rt, args, normalizeOpts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeOpts.mapping.register(normalizeCmd)
	normalizeCmd.Flags().StringVar(&normalizeOpts.format, "format", "", "Output format: csv, xlsx, sqlite or xml (default from config)")
	normalizeCmd.Flags().StringVar(&normalizeOpts.outputDir, "output-dir", "", "Output directory (default from config)")
	normalizeCmd.Flags().BoolVar(&normalizeOpts.dryRun, "dry-run", false, "Check mappings without writing output files")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runNormalize processes files concurrently and prints a summary to out.
func runNormalize(ctx context.Context, rt *appRuntime, files []string, opts normalizeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	startTime := time.Now()

	// =========================================================================
	// STEP 1: RESOLVE SETTINGS
	// =========================================================================

	cfg := *rt.cfg
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	format := cfg.ExportFormat
	if opts.format != "" {
		format = opts.format
	}

	writer, err := export.ForFormat(format, export.Options{SQLiteTable: cfg.SQLiteTable})
	if err != nil {
		return err
	}

	choices, err := opts.mapping.choices()
	if err != nil {
		return err
	}
	for key := range choices.Required {
		if !rt.strategies.Registry.Has(key) {
			return fmt.Errorf("unknown field %q (fields: %s)", key, strings.Join(rt.strategies.Registry.Keys(), ", "))
		}
	}

	// =========================================================================
	// STEP 2: PROCESS FILES CONCURRENTLY
	// =========================================================================

	var wg sync.WaitGroup
	results := make(chan converter.Result, len(files))
	sem := make(chan struct{}, cfg.MaxConcurrency)

	for _, file := range files {
		wg.Add(1)

		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			conv := converter.New(path, &cfg, rt.strategies.Registry, writer,
				converter.WithLogger(rt.logger),
				converter.WithMatcher(rt.strategies.Matcher),
				converter.WithChoices(choices),
				converter.WithDryRun(opts.dryRun),
			)
			results <- conv.Run(ctx)
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 3: COLLECT RESULTS
	// =========================================================================

	var successCount, errorCount int

	for result := range results {
		name := filepath.Base(result.FilePath)
		switch {
		case result.Success && opts.dryRun:
			successCount++
			fmt.Fprintf(out, "  ✓ %s: %d rows, %d fields (dry run)\n", name, result.Stats.RowsProcessed, result.Stats.FieldsWritten)
		case result.Success:
			successCount++
			fmt.Fprintf(out, "  ✓ %s -> %s (%d rows, %d fields)\n", name, result.OutputFile, result.Stats.RowsProcessed, result.Stats.FieldsWritten)
		default:
			errorCount++
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
		}
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Fprintln(out, "\n=== Processing Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", len(files))
	fmt.Fprintf(out, "Successful:      %d\n", successCount)
	fmt.Fprintf(out, "Errors:          %d\n", errorCount)
	fmt.Fprintf(out, "Time elapsed:    %s\n", time.Since(startTime).Round(time.Millisecond))

	if errorCount > 0 {
		return fmt.Errorf("%d of %d file(s) failed", errorCount, len(files))
	}
	return nil
}
