package solve

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeSettingsYAML(t *testing.T) {
	data := "caps:\n  max_daily_hours: 6\n  max_labs_per_ta: 2\nsolver:\n  time_budget_seconds: 30\n  workers: 4\n"
	s, err := DecodeSettings(strings.NewReader(data), "yaml")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Caps.MaxDailyHours != 6 || s.Caps.MaxLabsPerTA != 2 {
		t.Fatalf("bad caps %+v", s.Caps)
	}
	if s.Solver.TimeBudgetSeconds != 30 || s.Solver.Workers != 4 {
		t.Fatalf("bad solver params %+v", s.Solver)
	}
}

func TestDecodeSettingsDefaults(t *testing.T) {
	s, err := DecodeSettings(strings.NewReader("{}"), "json")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.Caps.MaxDailyHours != 4 || s.Caps.MaxLabsPerTA != 3 || s.Solver.TimeBudgetSeconds != 60 {
		t.Fatalf("defaults not applied: %+v", s)
	}
}

func TestDecodeSettingsBadFormat(t *testing.T) {
	if _, err := DecodeSettings(strings.NewReader("{}"), "toml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(path, []byte(`{"caps":{"max_daily_hours":5},"solver":{"workers":2}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Caps.MaxDailyHours != 5 || s.Caps.MaxLabsPerTA != 3 || s.Solver.Workers != 2 {
		t.Fatalf("bad settings %+v", s)
	}
	if _, err := LoadSettings(path + ".txt"); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}
