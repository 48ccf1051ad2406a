package roster

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianp07/labstaff/internal/tabular"
)

func load(t *testing.T, data string) *tabular.Table {
	t.Helper()
	tbl, err := tabular.Read(strings.NewReader(data), "roster.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return tbl
}

func TestParse(t *testing.T) {
	tbl := load(t, "TA,Hired for\nAlice,10\nBob,0\n")
	tas, err := Parse(tbl, "roster.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tas) != 2 {
		t.Fatalf("expected 2 TAs, got %d", len(tas))
	}
	if tas[0].Name != "Alice" || tas[0].HiredHours != 10 {
		t.Fatalf("bad first TA %#v", tas[0])
	}
	hours := Hours(tas)
	if hours["Bob"] != 0 {
		t.Fatalf("bad hours map %#v", hours)
	}
}

func TestParseMissingColumns(t *testing.T) {
	tbl := load(t, "Name,Hours\nAlice,10\n")
	_, err := Parse(tbl, "roster.csv")
	var serr *tabular.SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestParseDuplicateName(t *testing.T) {
	tbl := load(t, "TA,Hired for\nAlice,10\nBob,5\nAlice,3\n")
	_, err := Parse(tbl, "roster.csv")
	if err == nil {
		t.Fatal("expected error for duplicate TA name")
	}
	if !strings.Contains(err.Error(), "duplicate TA Alice") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestParseBadHours(t *testing.T) {
	for _, data := range []string{
		"TA,Hired for\nAlice,ten\n",
		"TA,Hired for\nAlice,-2\n",
		"TA,Hired for\n,5\n",
	} {
		tbl := load(t, data)
		if _, err := Parse(tbl, "roster.csv"); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}
