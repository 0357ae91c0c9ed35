// =============================================================================
// Vendor Normalizer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (normalizer)
//   ├── inspectCmd   (normalizer inspect FILE)
//   ├── normalizeCmd (normalizer normalize FILE...)
//   ├── chartCmd     (normalizer chart FILE)
//   ├── serveCmd     (normalizer serve)
//   └── versionCmd   (normalizer version)
//
// CONFIGURATION:
//   The root command owns the global flags (--config, --verbose). Commands
//   call loadRuntime to read the configuration and build the logger and
//   strategies.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "normalizer",
	Short: "Vendor Normalizer - Map vendor CSV exports onto a standard product schema",
	Long: `Vendor Normalizer reads CSV or XLSX exports from vendors, maps their
columns onto a fixed product schema (SKU, product name, unit price, date),
and writes the normalized rows as CSV, XLSX, SQLite or XML. It can also aggregate
a numeric field by a categorical one for charting.

Key Features:
  - Automatic column mapping with manual overrides
  - Optional extra vendor columns carried through to the output
  - Numeric/categorical field detection
  - Top 10 group-by aggregation for bar, line and pie charts
  - An HTTP API for interactive mapping sessions

Example Usage:
  normalizer inspect acme.csv
  normalizer normalize acme.csv --map product_name="Item Name" --map unit_price=Price
  normalizer chart acme.csv --map unit_price=Price --key product_name --value unit_price
  normalizer serve --addr :8080`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: Path to the configuration file. A missing config.yaml
	// in the current directory means built-in defaults.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	// --verbose flag: Enables debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
