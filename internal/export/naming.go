package export

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// FileName generates an output file name.
//
// PARAMETERS:
//   - format: The name format (without extension).
//             Placeholders:
//               {original}  - Source file name without extension
//               {uuid}      - A random UUID
//               {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Current date (YYYYMMDD)
//   - source: The source file name or path.
//   - ext: The extension to append, including the dot.
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "prosera_normalized_{original}"
//   source: "acme_march.csv", ext: ".csv"
//   output: "prosera_normalized_acme_march.csv"
func FileName(format, source, ext string) string {
	return fileNameAt(format, source, ext, time.Now())
}

func fileNameAt(format, source, ext string, now time.Time) string {
	base := filepath.Base(source)
	original := strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"{original}", original,
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
	)
	name := replacer.Replace(format)

	if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		name += ext
	}
	return name
}

// OutputPath joins dir with the generated name for source.
func OutputPath(dir, format, source string, w Writer) string {
	return filepath.Join(dir, FileName(format, source, w.Extension()))
}
