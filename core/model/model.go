package model

// TA represents a teaching assistant from the roster. Name is the identity
// and must be unique across the roster.
type TA struct {
	Name       string
	HiredHours int
}

// Slot is a single coverage unit to staff: one lab section meeting on one
// day for a contiguous range of hours.
type Slot struct {
	// ID is the source row index from the requirements table. Ids are
	// assigned in load order and never reused, even when rows are skipped.
	ID       int
	Section  string
	Day      string
	Start    int // 24-hour clock
	End      int
	Required int
}

// Duration returns the slot length in hours.
func (s Slot) Duration() int { return s.End - s.Start }

// Overlaps reports whether two slots intersect in time on the same day.
// Touching endpoints (a ends when b starts) do not overlap.
func Overlaps(a, b Slot) bool {
	if a.Day != b.Day {
		return false
	}
	return a.Start < b.End && b.Start < a.End
}

// SlotsByDay groups slots by day, preserving input order within each day.
// Grouping first keeps the pairwise overlap pass from scanning slot pairs
// on unrelated days.
func SlotsByDay(slots []Slot) map[string][]Slot {
	byDay := make(map[string][]Slot)
	for _, s := range slots {
		byDay[s.Day] = append(byDay[s.Day], s)
	}
	return byDay
}
