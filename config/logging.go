package config

import (
	"fmt"
)

// LoggingConfig defines settings for run logging.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	Level string `json:"level"`
	// RunLog, when set, appends one JSON line per run to this file.
	RunLog string `json:"run_log"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %s", c.Level)
}
