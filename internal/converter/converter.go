// =============================================================================
// Vendor Normalizer - Converter Module
// =============================================================================
//
// This module runs the batch pipeline for a single vendor file, from parsing
// to the exported normalized file.
//
// CONVERSION PIPELINE:
//   1. Parse the vendor file (CSV or XLSX)
//   2. Infer the required field mapping
//   3. Apply the user's mapping choices
//   4. Check the mapping is complete
//   5. Normalize the rows
//   6. Write the output file (skipped on a dry run)
//
// CONCURRENCY:
//   A Converter owns everything it touches. The normalize command runs one
//   Converter per file in its own goroutine.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/export"
	"github.com/ginjaninja78/vendor-normalizer/internal/logging"
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
	"github.com/ginjaninja78/vendor-normalizer/internal/normalizer"
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
	"github.com/ginjaninja78/vendor-normalizer/internal/vendorfile"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the normalized file.
	// This is empty if processing failed or on a dry run.
	OutputFile string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Missing lists the unmapped required fields when Error is an
	// *IncompleteError.
	Missing []schema.Field

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RowsProcessed is the number of vendor rows read.
	RowsProcessed int

	// FieldsWritten is the number of output fields.
	FieldsWritten int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// MAPPING CHOICES
// =============================================================================

// Choices are the mapping decisions given for one run. They override the
// inferred mapping and are never saved.
type Choices struct {
	// Required maps field keys to vendor columns. mapping.None unmaps.
	Required map[string]string

	// Optional lists extra vendor columns to keep, in output order.
	Optional []string

	// AllOptional selects every column not used by a required field. It is
	// applied before Optional.
	AllOptional bool
}

// Apply returns ws with the choices applied. Keys that are not fields of the
// workspace's schema are ignored.
func (c Choices) Apply(ws Workspace) Workspace {
	registry := ws.State().Registry()
	keys := make([]string, 0, len(c.Required))
	for k := range c.Required {
		if registry.Has(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		ws = ws.SetRequired(k, c.Required[k])
	}

	if c.AllOptional {
		ws = ws.SelectAllOptional()
	}
	for _, col := range c.Optional {
		if !ws.State().IsOptionalSelected(col) {
			ws = ws.ToggleOptional(col)
		}
	}
	return ws
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter handles the normalization of a single vendor file.
type Converter struct {
	path     string
	cfg      *config.Config
	registry *schema.Registry
	matcher  mapping.Matcher
	writer   export.Writer
	choices  Choices
	dryRun   bool
	logger   logging.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards output.
func WithLogger(l logging.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithChoices sets the mapping choices.
func WithChoices(ch Choices) Option {
	return func(c *Converter) { c.choices = ch }
}

// WithMatcher sets the inference strategy.
func WithMatcher(m mapping.Matcher) Option {
	return func(c *Converter) { c.matcher = m }
}

// WithDryRun stops the pipeline before anything is written.
func WithDryRun(dryRun bool) Option {
	return func(c *Converter) { c.dryRun = dryRun }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - path: The path to the vendor file.
//   - cfg: The application configuration.
//   - registry: The required target fields.
//   - writer: The export writer for the output format.
//   - opts: Optional settings.
//
// RETURNS:
//   - A new Converter instance.
func New(path string, cfg *config.Config, registry *schema.Registry, writer export.Writer, opts ...Option) *Converter {
	c := &Converter{
		path:     path,
		cfg:      cfg,
		registry: registry,
		writer:   writer,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline for the file.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{FilePath: c.path}
	log := c.logger.With("file", c.path)

	// =========================================================================
	// STEP 1: PARSE VENDOR FILE
	// =========================================================================

	log.Info("Processing file")

	table, err := vendorfile.Parse(c.path, c.cfg.Input)
	if err != nil {
		result.Error = fmt.Errorf("failed to parse vendor file: %w", err)
		return result
	}

	result.Stats.RowsProcessed = table.RowCount()
	log.Debug("Parsed %d rows, %d columns", table.RowCount(), len(table.Columns))

	// =========================================================================
	// STEP 2: INFER MAPPING
	// =========================================================================

	ws := Load(table, c.registry, c.matcher)
	for _, f := range c.registry.Fields() {
		if col, ok := ws.State().Required(f.Key); ok {
			log.Debug("Inferred %s <- %q", f.Key, col)
		}
	}

	// =========================================================================
	// STEP 3: APPLY MAPPING CHOICES
	// =========================================================================

	for key, col := range c.choices.Required {
		if !c.registry.Has(key) {
			log.Warn("Ignoring mapping for unknown field %q", key)
			continue
		}
		if col != mapping.None && col != "" && !table.HasColumn(col) {
			log.Warn("Column %q is not in the file; %s will be blank", col, key)
		}
	}
	ws = c.choices.Apply(ws)

	for col, keys := range ws.State().DuplicateTargets() {
		log.Warn("Column %q feeds several fields: %v", col, keys)
	}

	// =========================================================================
	// STEP 4: CHECK COMPLETENESS
	// =========================================================================

	if !ws.IsComplete() {
		result.Missing = ws.Missing()
	}

	// =========================================================================
	// STEP 5: NORMALIZE
	// =========================================================================

	ds, err := ws.Normalize()
	if err != nil {
		result.Error = err
		return result
	}

	result.Stats.FieldsWritten = len(ds.Fields)
	summary := normalizer.Summarize(ds)
	log.Info("%d rows will be exported with %d fields", summary.Rows, summary.Fields)

	// =========================================================================
	// STEP 6: WRITE OUTPUT FILE
	// =========================================================================

	if c.dryRun {
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	if err := c.cfg.EnsureOutputDir(); err != nil {
		result.Error = err
		return result
	}

	outputPath := export.OutputPath(c.cfg.OutputDir, c.cfg.OutputNameFormat, c.path, c.writer)
	if err := c.writer.Write(ctx, outputPath, ds); err != nil {
		_ = os.Remove(outputPath)
		result.Error = fmt.Errorf("failed to write output: %w", err)
		return result
	}

	result.OutputFile = outputPath
	log.Info("Wrote output to: %s", outputPath)

	// =========================================================================
	// COMPLETE
	// =========================================================================

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}
