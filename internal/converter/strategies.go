package converter

import (
	"fmt"

	"github.com/ginjaninja78/vendor-normalizer/internal/classify"
	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
	"github.com/ginjaninja78/vendor-normalizer/internal/schema"
)

// Strategies bundles the schema and the pluggable strategies chosen by the
// configuration. They are built once at startup and shared read-only.
type Strategies struct {
	Registry   *schema.Registry
	Matcher    mapping.Matcher
	Classifier classify.Classifier
}

// StrategiesFromConfig loads the schema (the built-in one unless
// schema_template is set) and resolves the configured strategy names.
func StrategiesFromConfig(cfg *config.Config) (Strategies, error) {
	registry := schema.Default()
	if cfg.SchemaTemplate != "" {
		r, err := schema.LoadTemplate(cfg.SchemaTemplate)
		if err != nil {
			return Strategies{}, fmt.Errorf("failed to load schema template: %w", err)
		}
		registry = r
	}

	matcher, ok := mapping.MatcherByName(cfg.Inference.Matcher)
	if !ok {
		return Strategies{}, fmt.Errorf("unknown matcher %q", cfg.Inference.Matcher)
	}

	classifier, ok := classify.ByName(cfg.Classification.Strategy, cfg.Classification.SampleSize, cfg.Classification.Threshold)
	if !ok {
		return Strategies{}, fmt.Errorf("unknown classification strategy %q", cfg.Classification.Strategy)
	}

	return Strategies{Registry: registry, Matcher: matcher, Classifier: classifier}, nil
}
