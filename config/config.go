package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/labstaff/core/metrics"
	"github.com/kilianp07/labstaff/core/solve"
)

type Config struct {
	Inputs  InputsConfig   `json:"inputs"`
	Output  OutputConfig   `json:"output"`
	Solve   solve.Settings `json:"solve"`
	Logging LoggingConfig  `json:"logging"`
	Metrics metrics.Config `json:"metrics"`
}

// InputsConfig lists the CSV files a run reads.
type InputsConfig struct {
	// Availability is the TA unavailability grid.
	Availability string `json:"availability"`
	// Roster maps TA names to hired hours.
	Roster string `json:"roster"`
	// Slots is the lab section catalog.
	Slots string `json:"slots"`
}

// Validate checks that all input paths are present.
func (c InputsConfig) Validate() error {
	if c.Availability == "" {
		return fmt.Errorf("inputs.availability is required")
	}
	if c.Roster == "" {
		return fmt.Errorf("inputs.roster is required")
	}
	if c.Slots == "" {
		return fmt.Errorf("inputs.slots is required")
	}
	return nil
}

// OutputConfig defines where and how reports are written.
type OutputConfig struct {
	// Dir receives the slot and TA reports.
	Dir string `json:"dir"`
	// Format selects the report encoding: "csv" or "json".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "."
	}
	if c.Format == "" {
		c.Format = "csv"
	}
}

// Validate checks the output format.
func (c OutputConfig) Validate() error {
	if c.Format != "csv" && c.Format != "json" {
		return fmt.Errorf("unknown output format %s", c.Format)
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("LS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ls_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Output.SetDefaults()
	cfg.Solve.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Inputs.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Output.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
