// =============================================================================
// Vendor Normalizer - Main Entry Point
// =============================================================================
//
// USAGE:
//   normalizer inspect FILE      - Show columns, a preview and the mapping
//   normalizer normalize FILE... - Write normalized files
//   normalizer chart FILE        - Aggregate a field for charting
//   normalizer serve             - Start the HTTP API
//   normalizer version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : Cobra command definitions
//   - internal/  : The normalization engine and its collaborators
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/vendor-normalizer/cmd"
)

func main() {
	cmd.Execute()
}
