package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `inputs:
  availability: "availability.csv"
  roster: "roster.csv"
  slots: "slots.csv"
output:
  dir: "out"
  format: "json"
solve:
  caps:
    max_daily_hours: 6
    max_labs_per_ta: 2
  solver:
    time_budget_seconds: 30
    workers: 4
logging:
  level: "debug"
metrics:
  sinks:
    - type: "nop"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"availability", cfg.Inputs.Availability, "availability.csv"},
		{"roster", cfg.Inputs.Roster, "roster.csv"},
		{"slots", cfg.Inputs.Slots, "slots.csv"},
		{"output_dir", cfg.Output.Dir, "out"},
		{"output_format", cfg.Output.Format, "json"},
		{"max_daily_hours", cfg.Solve.Caps.MaxDailyHours, 6},
		{"max_labs_per_ta", cfg.Solve.Caps.MaxLabsPerTA, 2},
		{"time_budget_seconds", cfg.Solve.Solver.TimeBudgetSeconds, 30.0},
		{"workers", cfg.Solve.Solver.Workers, 4},
		{"log_level", cfg.Logging.Level, "debug"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"inputs": {"availability": "a.csv", "roster": "r.csv", "slots": "s.csv"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("format default mismatch: %v", cfg.Output.Format)
	}
	if cfg.Solve.Caps.MaxDailyHours != 4 || cfg.Solve.Caps.MaxLabsPerTA != 3 {
		t.Errorf("caps defaults mismatch: %+v", cfg.Solve.Caps)
	}
	if cfg.Solve.Solver.TimeBudgetSeconds != 60 {
		t.Errorf("budget default mismatch: %v", cfg.Solve.Solver.TimeBudgetSeconds)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("level default mismatch: %v", cfg.Logging.Level)
	}
}

func TestLoadMissingInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"inputs": {"availability": "a.csv"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for missing roster path")
	}
}
