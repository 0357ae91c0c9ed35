package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/vendor-normalizer/internal/config"
	"github.com/ginjaninja78/vendor-normalizer/internal/converter"
	"github.com/ginjaninja78/vendor-normalizer/internal/logging"
	"github.com/ginjaninja78/vendor-normalizer/internal/vendorfile"
)

// appRuntime is what every command needs: configuration, strategies and a
// logger.
type appRuntime struct {
	cfg        *config.Config
	strategies converter.Strategies
	logger     logging.Logger
}

// loadRuntime reads the configuration named by --config. When the flag was
// not given and the default file does not exist, defaults are used.
func loadRuntime(cmd *cobra.Command) (*appRuntime, error) {
	path := cfgFile
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("Using config file: %s", path)
	}

	strategies, err := converter.StrategiesFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &appRuntime{cfg: cfg, strategies: strategies, logger: logger}, nil
}

// =============================================================================
// MAPPING FLAGS
// =============================================================================

// mappingFlags are the per-invocation mapping choices shared by commands.
type mappingFlags struct {
	maps        []string
	optional    []string
	allOptional bool
}

// register adds --map, --optional and --all-optional to cmd.
func (m *mappingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&m.maps, "map", nil,
		`Map a required field to a vendor column, e.g. --map unit_price="Net Price" (use __none__ to unmap)`)
	cmd.Flags().StringArrayVar(&m.optional, "optional", nil,
		"Keep an extra vendor column in the output (repeatable, kept in order)")
	cmd.Flags().BoolVar(&m.allOptional, "all-optional", false,
		"Keep every vendor column not used by a required field")
}

// choices converts the flags into converter.Choices.
func (m *mappingFlags) choices() (converter.Choices, error) {
	required, err := parseMapFlags(m.maps)
	if err != nil {
		return converter.Choices{}, err
	}
	return converter.Choices{
		Required:    required,
		Optional:    m.optional,
		AllOptional: m.allOptional,
	}, nil
}

// parseMapFlags parses "field=column" pairs. The column may contain "=".
func parseMapFlags(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		key, column, ok := strings.Cut(v, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --map %q: want field=column", v)
		}
		out[key] = column
	}
	return out, nil
}

// loadWorkspace parses path and applies the mapping choices.
func (rt *appRuntime) loadWorkspace(path string, ch converter.Choices) (converter.Workspace, error) {
	table, err := vendorfile.Parse(path, rt.cfg.Input)
	if err != nil {
		return converter.Workspace{}, err
	}
	for key := range ch.Required {
		if !rt.strategies.Registry.Has(key) {
			return converter.Workspace{}, fmt.Errorf("unknown field %q (fields: %s)", key, strings.Join(rt.strategies.Registry.Keys(), ", "))
		}
	}
	ws := converter.Load(table, rt.strategies.Registry, rt.strategies.Matcher)
	return ch.Apply(ws), nil
}
