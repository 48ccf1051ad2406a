package solve

import (
	"fmt"

	"github.com/kilianp07/labstaff/core/model"
)

// SlotRow is one line of the slot coverage report.
type SlotRow struct {
	Section       string
	Day           string
	Start         int
	End           int
	Duration      int
	Assigned      []string
	AssignedCount int
	Required      int
	Needed        int
}

// LabDetail is one assigned (section, day, time range) tuple of a TA.
type LabDetail struct {
	Section string
	Day     string
	Start   int
	End     int
}

func (d LabDetail) String() string {
	return fmt.Sprintf("%s (%s %d-%d)", d.Section, d.Day, d.Start, d.End)
}

// DayHours is one day of a TA's per-day hour breakdown.
type DayHours struct {
	Day   string
	Hours int
}

// TARow is one line of the TA workload report. Roster TAs without
// availability data appear with zero assigned hours and the full hired
// amount remaining.
type TARow struct {
	Name           string
	HoursAssigned  int
	RemainingHours int
	HiredHours     int
	Daily          []DayHours
	Labs           []LabDetail
}

// Interpret projects the solved variables into the slot and TA reports. It
// performs no decision-making; roster supplies the full population so that
// unscheduled TAs still get a report row.
func Interpret(m *Model, sol Solution, roster []model.TA) ([]SlotRow, []TARow, error) {
	if len(sol.Values) != len(m.Vars) {
		return nil, nil, fmt.Errorf("solution has %d values for %d variables", len(sol.Values), len(m.Vars))
	}

	slotRows := make([]SlotRow, 0, len(m.Slots))
	for si, s := range m.Slots {
		var assigned []string
		for ti, ta := range m.TAs {
			if sol.Values[m.Assign[ti][si]] != 0 {
				assigned = append(assigned, ta.Name)
			}
		}
		slotRows = append(slotRows, SlotRow{
			Section:       s.Section,
			Day:           s.Day,
			Start:         s.Start,
			End:           s.End,
			Duration:      s.Duration(),
			Assigned:      assigned,
			AssignedCount: len(assigned),
			Required:      s.Required,
			Needed:        int(sol.Values[m.Short[si]]),
		})
	}

	scheduled := make(map[string]bool, len(m.TAs))
	taRows := make([]TARow, 0, len(roster))
	for ti, ta := range m.TAs {
		scheduled[ta.Name] = true
		row := TARow{Name: ta.Name, HiredHours: ta.HiredHours}
		daily := make(map[string]int)
		var dayOrder []string
		for si, s := range m.Slots {
			if sol.Values[m.Assign[ti][si]] == 0 {
				continue
			}
			row.HoursAssigned += s.Duration()
			if _, ok := daily[s.Day]; !ok {
				dayOrder = append(dayOrder, s.Day)
			}
			daily[s.Day] += s.Duration()
			row.Labs = append(row.Labs, LabDetail{Section: s.Section, Day: s.Day, Start: s.Start, End: s.End})
		}
		for _, day := range dayOrder {
			row.Daily = append(row.Daily, DayHours{Day: day, Hours: daily[day]})
		}
		row.RemainingHours = ta.HiredHours - row.HoursAssigned
		taRows = append(taRows, row)
	}

	// TAs the model never granted a variable: zero hours, everything left.
	for _, ta := range roster {
		if scheduled[ta.Name] {
			continue
		}
		taRows = append(taRows, TARow{
			Name:           ta.Name,
			HiredHours:     ta.HiredHours,
			RemainingHours: ta.HiredHours,
		})
	}
	return slotRows, taRows, nil
}
