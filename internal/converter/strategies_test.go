package converter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/vendor-normalizer/internal/classify"
	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/mapping"
)

func TestStrategiesFromConfigDefaults(t *testing.T) {
	s, err := StrategiesFromConfig(config.Default())
	require.NoError(t, err)

	assert.Equal(t, 4, s.Registry.Len())
	assert.IsType(t, mapping.SubstringMatcher{}, s.Matcher)
	assert.IsType(t, classify.FirstRow{}, s.Classifier)
}

func TestStrategiesFromConfigAlternatives(t *testing.T) {
	cfg := config.Default()
	cfg.Inference.Matcher = "synonym"
	cfg.Classification.Strategy = "majority"

	s, err := StrategiesFromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &mapping.SynonymMatcher{}, s.Matcher)
	assert.Equal(t, classify.Majority{SampleSize: 20, Threshold: 0.8}, s.Classifier)
}

func TestStrategiesFromConfigErrors(t *testing.T) {
	cfg := config.Default()
	cfg.SchemaTemplate = filepath.Join(t.TempDir(), "missing.xlsx")
	_, err := StrategiesFromConfig(cfg)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Inference.Matcher = "fuzzy"
	_, err = StrategiesFromConfig(cfg)
	assert.Error(t, err)
}
