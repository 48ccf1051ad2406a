package availability

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/internal/tabular"
)

func respond(t *testing.T, data string) *tabular.Table {
	t.Helper()
	tbl, err := tabular.Read(strings.NewReader(data), "responses.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return tbl
}

var tas = []model.TA{{Name: "Alice", HiredHours: 10}, {Name: "Bob", HiredHours: 8}}

func TestNormalize(t *testing.T) {
	tbl := respond(t, `Name, [9am to 10am], [10am to 11am], [1pm to 2pm]
Alice,"Monday, Tuesday",,Monday
Bob,,Tuesday,
`)
	m, missing, err := Normalize(tbl, "responses.csv", tas)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("unexpected missing %v", missing)
	}
	if !m.Has("Alice") || !m.Has("Bob") {
		t.Fatalf("TAs not normalized")
	}
	// Alice is out Monday 9-10 and Monday 13-14, free otherwise.
	if m.Free("Alice", "Monday", 9, 10) {
		t.Fatalf("Alice should be unavailable Monday 9-10")
	}
	if !m.Free("Alice", "Monday", 10, 11) {
		t.Fatalf("Alice should be free Monday 10-11")
	}
	if m.Free("Alice", "Tuesday", 9, 11) {
		t.Fatalf("Tuesday 9-10 unavailability must block the 9-11 span")
	}
	if !m.Free("Bob", "Monday", 9, 14) {
		t.Fatalf("Bob should be free all Monday")
	}
}

func TestNormalizeMultiHourConjunction(t *testing.T) {
	tbl := respond(t, `Name, [9am to 10am], [10am to 11am]
Alice,,Monday
`)
	m, _, err := Normalize(tbl, "responses.csv", tas[:1])
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	// One bad hour inside the span poisons the whole slot.
	if m.Free("Alice", "Monday", 9, 11) {
		t.Fatalf("9-11 must be unavailable when 10-11 is blocked")
	}
	if !m.Free("Alice", "Monday", 9, 10) {
		t.Fatalf("9-10 alone is fine")
	}
}

func TestNormalizeMissingTA(t *testing.T) {
	tbl := respond(t, `Name, [9am to 10am]
Alice,Monday
`)
	m, missing, err := Normalize(tbl, "responses.csv", tas)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(missing) != 1 || missing[0] != "Bob" {
		t.Fatalf("missing = %v, want [Bob]", missing)
	}
	if m.Has("Bob") {
		t.Fatalf("missing TA must not be schedulable")
	}
	if m.Free("Bob", "Monday", 9, 10) {
		t.Fatalf("missing TA is never available")
	}
	sched := m.Scheduled(tas)
	if len(sched) != 1 || sched[0].Name != "Alice" {
		t.Fatalf("scheduled = %v", sched)
	}
}

func TestNormalizeNoHourColumns(t *testing.T) {
	tbl := respond(t, "Name,Notes\nAlice,hello\n")
	_, _, err := Normalize(tbl, "responses.csv", tas)
	if !errors.Is(err, ErrNoHourColumns) {
		t.Fatalf("expected ErrNoHourColumns, got %v", err)
	}
}

func TestNormalizeMissingNameColumn(t *testing.T) {
	tbl := respond(t, " [9am to 10am]\nMonday\n")
	_, _, err := Normalize(tbl, "responses.csv", tas)
	var serr *tabular.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestNormalizePMWindows(t *testing.T) {
	tbl := respond(t, `Name, [12pm to 1pm], [11pm to 12am]
Alice,Friday,Friday
`)
	m, _, err := Normalize(tbl, "responses.csv", tas[:1])
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if m.Free("Alice", "Friday", 12, 13) {
		t.Fatalf("12pm window should map to hour 12")
	}
	if m.Free("Alice", "Friday", 23, 24) {
		t.Fatalf("11pm window should map to hour 23")
	}
	if !m.Free("Alice", "Friday", 13, 14) {
		t.Fatalf("uncovered hour defaults to available")
	}
}
