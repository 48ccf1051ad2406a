package solve

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianp07/labstaff/core/availability"
	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/internal/tabular"
)

func matrixFor(t *testing.T, csv string, tas []model.TA) *availability.Matrix {
	t.Helper()
	tbl, err := tabular.Read(strings.NewReader(csv), "responses.csv")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	m, _, err := availability.Normalize(tbl, "responses.csv", tas)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return m
}

var testCaps = Caps{MaxDailyHours: 4, MaxLabsPerTA: 3}

func TestBuildShape(t *testing.T) {
	tas := []model.TA{{Name: "Alice", HiredHours: 10}, {Name: "Bob", HiredHours: 8}}
	avail := matrixFor(t, `Name, [9am to 10am], [10am to 11am]
Alice,Monday,
Bob,,
`, tas)
	slots := []model.Slot{
		{ID: 0, Section: "L1", Day: "Monday", Start: 9, End: 11, Required: 2},
		{ID: 1, Section: "L2", Day: "Monday", Start: 10, End: 11, Required: 1},
	}
	m, err := Build(tas, avail, slots, testCaps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// 2 TAs x 2 slots assignment vars, 2 shortage vars, 2 TAs x 2 sections
	// lab indicators.
	if len(m.Vars) != 4+2+4 {
		t.Fatalf("var count = %d", len(m.Vars))
	}
	// Alice is out Monday 9-10, so her 9-11 slot variable is fixed false.
	v := m.Vars[m.Assign[0][0]]
	if v.Hi != 0 {
		t.Fatalf("unavailable assignment not fixed: %+v", v)
	}
	// Her 10-11 variable stays open.
	if m.Vars[m.Assign[0][1]].Hi != 1 {
		t.Fatalf("available assignment wrongly fixed")
	}
	// Shortage bounds follow the slot requirement.
	if m.Vars[m.Short[0]].Hi != 2 || m.Vars[m.Short[1]].Hi != 1 {
		t.Fatalf("shortage bounds wrong")
	}
	// balance(2) + hours(2) + overlap(1 pair x 2 TAs) + daily(1 day x 2 TAs)
	// + indicator links(2 slots x 2 TAs) + lab caps(2).
	if len(m.Cons) != 2+2+2+2+4+2 {
		t.Fatalf("constraint count = %d", len(m.Cons))
	}
}

func TestBuildExcludesMissingTAs(t *testing.T) {
	tas := []model.TA{{Name: "Alice", HiredHours: 10}, {Name: "Ghost", HiredHours: 5}}
	avail := matrixFor(t, "Name, [9am to 10am]\nAlice,\n", tas)
	slots := []model.Slot{{ID: 0, Day: "Monday", Start: 9, End: 10, Required: 1}}
	m, err := Build(tas, avail, slots, testCaps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(m.TAs) != 1 || m.TAs[0].Name != "Alice" {
		t.Fatalf("schedulable population = %v", m.TAs)
	}
}

func TestBuildNoSchedulableData(t *testing.T) {
	tas := []model.TA{{Name: "Alice", HiredHours: 10}}
	avail := matrixFor(t, "Name, [9am to 10am]\nAlice,\n", tas)
	if _, err := Build(tas, avail, nil, testCaps); !errors.Is(err, ErrNoSchedulableData) {
		t.Fatalf("expected ErrNoSchedulableData for zero slots, got %v", err)
	}
	ghosts := []model.TA{{Name: "Ghost", HiredHours: 5}}
	slots := []model.Slot{{ID: 0, Day: "Monday", Start: 9, End: 10, Required: 1}}
	if _, err := Build(ghosts, avail, slots, testCaps); !errors.Is(err, ErrNoSchedulableData) {
		t.Fatalf("expected ErrNoSchedulableData for zero schedulable TAs, got %v", err)
	}
}

func TestBuildOverlapGroupedByDay(t *testing.T) {
	// Same hours on different days must not produce an overlap constraint.
	tas := []model.TA{{Name: "Alice", HiredHours: 10}}
	avail := matrixFor(t, "Name, [9am to 10am]\nAlice,\n", tas)
	slots := []model.Slot{
		{ID: 0, Section: "L1", Day: "Monday", Start: 9, End: 11, Required: 1},
		{ID: 1, Section: "L1", Day: "Tuesday", Start: 9, End: 11, Required: 1},
	}
	m, err := Build(tas, avail, slots, testCaps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// balance(2) + hours(1) + daily(2 days) + indicator links(2) + lab cap(1);
	// zero overlap pairs.
	if len(m.Cons) != 2+1+2+2+1 {
		t.Fatalf("constraint count = %d", len(m.Cons))
	}
}

func TestObjectiveWeights(t *testing.T) {
	tas := []model.TA{{Name: "Alice", HiredHours: 10}}
	avail := matrixFor(t, "Name, [9am to 10am]\nAlice,\n", tas)
	slots := []model.Slot{{ID: 0, Section: "L1", Day: "Monday", Start: 9, End: 12, Required: 1}}
	m, err := Build(tas, avail, slots, testCaps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	coef := make(map[int]int64)
	for _, term := range m.Obj {
		coef[term.Var] += term.Coef
	}
	if coef[m.Assign[0][0]] != 3+CoverageBonus {
		t.Fatalf("assignment coefficient = %d", coef[m.Assign[0][0]])
	}
	if coef[m.Short[0]] != -ShortagePenalty {
		t.Fatalf("shortage coefficient = %d", coef[m.Short[0]])
	}
}

func TestInterpret(t *testing.T) {
	tas := []model.TA{{Name: "Alice", HiredHours: 6}, {Name: "Ghost", HiredHours: 5}}
	avail := matrixFor(t, "Name, [9am to 10am]\nAlice,\n", tas)
	slots := []model.Slot{
		{ID: 0, Section: "L1", Day: "Monday", Start: 9, End: 11, Required: 2},
		{ID: 1, Section: "L2", Day: "Tuesday", Start: 14, End: 16, Required: 1},
	}
	m, err := Build(tas, avail, slots, testCaps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Hand-craft a solution: Alice on both slots, slot 0 one short.
	vals := make([]int64, len(m.Vars))
	vals[m.Assign[0][0]] = 1
	vals[m.Assign[0][1]] = 1
	vals[m.Short[0]] = 1
	slotRows, taRows, err := Interpret(m, Solution{Status: StatusOptimal, Values: vals}, tas)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if slotRows[0].AssignedCount+slotRows[0].Needed != slotRows[0].Required {
		t.Fatalf("balance broken in slot row %+v", slotRows[0])
	}
	if slotRows[1].Needed != 0 || slotRows[1].AssignedCount != 1 {
		t.Fatalf("slot row %+v", slotRows[1])
	}
	alice := taRows[0]
	if alice.HoursAssigned != 4 || alice.RemainingHours != 2 {
		t.Fatalf("alice row %+v", alice)
	}
	if len(alice.Daily) != 2 || alice.Daily[0].Day != "Monday" || alice.Daily[0].Hours != 2 {
		t.Fatalf("daily breakdown %+v", alice.Daily)
	}
	if len(alice.Labs) != 2 || alice.Labs[0].String() != "L1 (Monday 9-11)" {
		t.Fatalf("labs %+v", alice.Labs)
	}
	ghost := taRows[1]
	if ghost.Name != "Ghost" || ghost.HoursAssigned != 0 || ghost.RemainingHours != 5 {
		t.Fatalf("ghost row %+v", ghost)
	}
}

func TestInterpretLengthMismatch(t *testing.T) {
	tas := []model.TA{{Name: "Alice", HiredHours: 6}}
	avail := matrixFor(t, "Name, [9am to 10am]\nAlice,\n", tas)
	slots := []model.Slot{{ID: 0, Day: "Monday", Start: 9, End: 10, Required: 1}}
	m, err := Build(tas, avail, slots, testCaps)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, _, err := Interpret(m, Solution{}, tas); err == nil {
		t.Fatalf("expected error for truncated solution")
	}
}
