package tabular

import (
	"errors"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	data := "Name,Day,Count\nAlice,Monday,2\nBob,Tuesday\n"
	tbl, err := Read(strings.NewReader(data), "test.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if _, ok := tbl.Col("Day"); !ok {
		t.Fatalf("Day column not indexed")
	}
	col, _ := tbl.Col("Count")
	if got := tbl.Cell(0, col); got != "2" {
		t.Fatalf("cell(0,Count) = %q", got)
	}
	// Short row lookups return empty, never panic.
	if got := tbl.Cell(1, col); got != "" {
		t.Fatalf("cell on short row = %q, want empty", got)
	}
}

func TestRequire(t *testing.T) {
	tbl, err := Read(strings.NewReader("Day,Start\n"), "req.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	err = tbl.Require("req.csv", "Day", "Start", "End", "Required")
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(serr.Missing) != 2 {
		t.Fatalf("missing = %v", serr.Missing)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("does-not-exist.csv"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestReadEmpty(t *testing.T) {
	if _, err := Read(strings.NewReader(""), "empty.csv"); err == nil {
		t.Fatalf("expected error for empty file")
	}
}
