// =============================================================================
// Vendor Normalizer - Chart Command
// =============================================================================
//
// COMMAND USAGE:
//   normalizer chart FILE --key FIELD --value FIELD [--type bar|line|pie] [--json]
//
// Groups the normalized rows by --key, sums --value and prints the top 10
// groups. Without --key and --value it lists which fields are numeric and
// which are categorical.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-normalizer/internal/aggregate"
	"github.com/ginjaninja78/vendor-normalizer/internal/chart"
	"github.com/ginjaninja78/vendor-normalizer/internal/classify"
	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
)

type chartOptions struct {
	mapping   mappingFlags
	key       string
	value     string
	chartType string
	asJSON    bool
}

var chartOpts chartOptions

var chartCmd = &cobra.Command{
	Use:   "chart FILE",
	Short: "Aggregate a numeric field by a categorical field",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		choices, err := chartOpts.mapping.choices()
		if err != nil {
			return err
		}
		ws, err := rt.loadWorkspace(args[0], choices)
		if err != nil {
			return err
		}
		return runChart(cmd.OutOrStdout(), ws, rt.strategies.Classifier, rt.cfg.Chart.Type, chartOpts)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)

	chartOpts.mapping.register(chartCmd)
	chartCmd.Flags().StringVar(&chartOpts.key, "key", "", "Categorical field to group by")
	chartCmd.Flags().StringVar(&chartOpts.value, "value", "", "Numeric field to sum")
	chartCmd.Flags().StringVar(&chartOpts.chartType, "type", "", "Chart type: bar, line or pie (default from config)")
	chartCmd.Flags().BoolVar(&chartOpts.asJSON, "json", false, "Print the chart descriptor as JSON")
}

// runChart prints either the field classification or the aggregated chart.
func runChart(out io.Writer, ws converter.Workspace, c classify.Classifier, defaultType string, opts chartOptions) error {
	fields, err := ws.Fields(c)
	if err != nil {
		return err
	}

	if opts.key == "" || opts.value == "" {
		fmt.Fprintf(out, "Numeric fields:     %s\n", strings.Join(fields.Numeric, ", "))
		fmt.Fprintf(out, "Categorical fields: %s\n", strings.Join(fields.Categorical, ", "))
		fmt.Fprintln(out, "Pass --key and --value to build a chart.")
		return nil
	}

	for _, f := range []string{opts.key, opts.value} {
		if !fields.Has(f, classify.Numeric) && !fields.Has(f, classify.Categorical) {
			return fmt.Errorf("unknown field %q", f)
		}
	}

	typeName := opts.chartType
	if typeName == "" {
		typeName = defaultType
	}
	t, err := chart.ParseType(typeName)
	if err != nil {
		return err
	}

	ch, err := ws.Chart(t, opts.key, opts.value)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ch)
	}

	fmt.Fprintf(out, "%s [%s]\n\n", ch.Title, ch.Type)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\n", ch.XAxis, ch.YAxis)
	for _, p := range ch.Points {
		fmt.Fprintf(tw, "%s\t%g\n", p.Name, p.Value)
	}
	fmt.Fprintf(tw, "total\t%g\n", aggregate.Total(ch.Points))
	return tw.Flush()
}
