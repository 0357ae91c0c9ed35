// =============================================================================
// Vendor Normalizer - Inspect Command
// =============================================================================
//
// COMMAND USAGE:
//   normalizer inspect FILE [--map field=column ...]
//
// OUTPUT:
//   The file's columns, the first rows as read, the required field mapping
//   (inferred, then overridden by --map), the fields still missing, and the
//   columns available as optional fields.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/normalizer"
)

var inspectFlags mappingFlags

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show a vendor file's columns, a preview and the inferred mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		choices, err := inspectFlags.choices()
		if err != nil {
			return err
		}
		ws, err := rt.loadWorkspace(args[0], choices)
		if err != nil {
			return err
		}
		return printInspection(cmd.OutOrStdout(), ws, rt.cfg.Server.PreviewRows)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectFlags.register(inspectCmd)
}

// printInspection writes the inspection report for ws.
func printInspection(out io.Writer, ws converter.Workspace, previewRows int) error {
	table := ws.Table()
	state := ws.State()

	fmt.Fprintf(out, "File:    %s\n", table.Source)
	fmt.Fprintf(out, "Rows:    %d\n", table.RowCount())
	fmt.Fprintf(out, "Columns: %s\n\n", strings.Join(table.Columns, ", "))

	// Raw preview.
	fmt.Fprintln(out, "Preview:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Columns, "\t"))
	for _, row := range table.Head(previewRows) {
		cells := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			cells[i] = row[c]
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Required mapping.
	fmt.Fprintln(out, "\nRequired fields:")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, f := range state.Registry().Fields() {
		col, ok := state.Required(f.Key)
		if !ok {
			col = "(not mapped)"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", f.Key, f.Label, col)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if missing := ws.Missing(); len(missing) > 0 {
		labels := make([]string, len(missing))
		for i, f := range missing {
			labels[i] = f.Label
		}
		fmt.Fprintf(out, "\nMissing: %s\n", strings.Join(labels, ", "))
	} else {
		ds, err := ws.Normalize()
		if err != nil {
			return err
		}
		s := normalizer.Summarize(ds)
		fmt.Fprintf(out, "\n%d rows will be exported with %d fields\n", s.Rows, s.Fields)
	}

	fmt.Fprintf(out, "Optional candidates: %s\n", strings.Join(state.OptionalCandidates(), ", "))
	if sel := state.Optional(); len(sel) > 0 {
		fmt.Fprintf(out, "Optional selected:   %s\n", strings.Join(sel, ", "))
	}
	return nil
}
