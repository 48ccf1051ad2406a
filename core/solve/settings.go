package solve

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Caps are the hard per-TA workload limits enforced by the model.
type Caps struct {
	// MaxDailyHours bounds the assigned hours per TA per day.
	MaxDailyHours int `json:"max_daily_hours" yaml:"max_daily_hours"`
	// MaxLabsPerTA bounds the number of distinct sections per TA.
	MaxLabsPerTA int `json:"max_labs_per_ta" yaml:"max_labs_per_ta"`
}

// Params configure the solving backend.
type Params struct {
	// TimeBudgetSeconds is the wall-clock budget; on exhaustion the backend
	// returns its best incumbent instead of aborting.
	TimeBudgetSeconds float64 `json:"time_budget_seconds" yaml:"time_budget_seconds"`
	// Workers is accepted for configuration compatibility with parallel
	// backends. The bundled branch-and-bound backend searches on a single
	// goroutine and only records the value.
	Workers int `json:"workers" yaml:"workers"`
}

// Settings bundle the caps and solver parameters.
type Settings struct {
	Caps   Caps   `json:"caps" yaml:"caps"`
	Solver Params `json:"solver" yaml:"solver"`
}

// SetDefaults applies the documented defaults to unset fields.
func (s *Settings) SetDefaults() {
	if s.Caps.MaxDailyHours <= 0 {
		s.Caps.MaxDailyHours = 4
	}
	if s.Caps.MaxLabsPerTA <= 0 {
		s.Caps.MaxLabsPerTA = 3
	}
	if s.Solver.TimeBudgetSeconds <= 0 {
		s.Solver.TimeBudgetSeconds = 60
	}
}

// LoadSettings loads Settings from a JSON or YAML file.
func LoadSettings(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var s Settings
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &s)
	case ".json":
		err = json.Unmarshal(b, &s)
	default:
		return Settings{}, fmt.Errorf("unsupported settings format: %s", ext)
	}
	if err != nil {
		return Settings{}, err
	}
	s.SetDefaults()
	return s, nil
}

// DecodeSettings reads from r to decode Settings.
func DecodeSettings(r io.Reader, format string) (Settings, error) {
	var s Settings
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return s, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return s, err
		}
	default:
		return s, fmt.Errorf("unsupported format: %s", format)
	}
	s.SetDefaults()
	return s, nil
}
