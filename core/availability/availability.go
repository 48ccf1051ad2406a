// Package availability normalizes raw per-TA unavailability responses into a
// queryable per-hour matrix.
//
// The responses table has one row per TA and one column per hourly window.
// Column headers carry a 12-hour range such as "[8am to 9am ...]". A cell
// lists the comma-separated days on which the TA is UNAVAILABLE for that
// hour; absence of a day means available.
package availability

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/internal/tabular"
)

const colName = "Name"

// ErrNoHourColumns indicates the responses table carries no hour-window
// columns at all, so no schedulable information exists.
var ErrNoHourColumns = errors.New("no hour-window columns detected in responses")

var hourPattern = regexp.MustCompile(`(?i)\[\s*(\d{1,2})\s*(am|pm)\s+to\s+(\d{1,2})\s*(am|pm)`)

// window is one hour-range column of the responses table.
type window struct {
	col   int
	start int // 24-hour start of the window
}

// Matrix is the normalized (TA, day, hour) -> available relation. TAs absent
// from the responses have no entry and are never available.
type Matrix struct {
	days []string
	byTA map[string]map[string]map[int]bool
}

// Normalize builds the availability matrix for the requested TAs. Roster TAs
// without a matching response row are returned in the missing list; they are
// excluded from the schedulable population but must still appear in reports.
func Normalize(tbl *tabular.Table, file string, tas []model.TA) (*Matrix, []string, error) {
	if err := tbl.Require(file, colName); err != nil {
		return nil, nil, err
	}
	nameCol, _ := tbl.Col(colName)

	windows := parseWindows(tbl.Headers)
	if len(windows) == 0 {
		return nil, nil, ErrNoHourColumns
	}

	// The day set is the union of days observed across all cells.
	daySet := make(map[string]struct{})
	for _, w := range windows {
		for row := range tbl.Rows {
			for _, d := range splitDays(tbl.Cell(row, w.col)) {
				daySet[d] = struct{}{}
			}
		}
	}
	days := make([]string, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Strings(days)

	m := &Matrix{days: days, byTA: make(map[string]map[string]map[int]bool, len(tas))}
	var missing []string
	for _, ta := range tas {
		row, ok := findRow(tbl, nameCol, ta.Name)
		if !ok {
			missing = append(missing, ta.Name)
			continue
		}
		byDay := make(map[string]map[int]bool, len(days))
		for _, d := range days {
			hours := make(map[int]bool, len(windows))
			for _, w := range windows {
				hours[w.start] = true
			}
			byDay[d] = hours
		}
		for _, w := range windows {
			for _, d := range splitDays(tbl.Cell(row, w.col)) {
				if hours, ok := byDay[d]; ok {
					hours[w.start] = false
				}
			}
		}
		m.byTA[ta.Name] = byDay
	}
	return m, missing, nil
}

// Has reports whether the TA appeared in the responses.
func (m *Matrix) Has(name string) bool {
	_, ok := m.byTA[name]
	return ok
}

// Free reports whether the TA is available for every hour of [start, end) on
// the given day. A single unavailable hour makes the whole span unavailable.
// Hours not covered by any response column count as available, matching the
// form's semantics of listing only unavailability.
func (m *Matrix) Free(name, day string, start, end int) bool {
	byDay, ok := m.byTA[name]
	if !ok {
		return false
	}
	hours, ok := byDay[day]
	if !ok {
		// Day never mentioned in any unavailability cell.
		return true
	}
	for h := start; h < end; h++ {
		if avail, covered := hours[h]; covered && !avail {
			return false
		}
	}
	return true
}

// Days returns the observed day names in sorted order.
func (m *Matrix) Days() []string { return m.days }

// Scheduled returns the subset of tas present in the matrix, roster order
// preserved.
func (m *Matrix) Scheduled(tas []model.TA) []model.TA {
	out := make([]model.TA, 0, len(tas))
	for _, ta := range tas {
		if m.Has(ta.Name) {
			out = append(out, ta)
		}
	}
	return out
}

func parseWindows(headers []string) []window {
	var out []window
	for i, h := range headers {
		match := hourPattern.FindStringSubmatch(h)
		if match == nil {
			continue
		}
		start, err := model.ParseHour(match[1], match[2])
		if err != nil {
			continue
		}
		out = append(out, window{col: i, start: start})
	}
	return out
}

func splitDays(cell string) []string {
	if cell == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(cell, ",") {
		if d := strings.TrimSpace(part); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func findRow(tbl *tabular.Table, nameCol int, name string) (int, bool) {
	for i := range tbl.Rows {
		if tbl.Cell(i, nameCol) == name {
			return i, true
		}
	}
	return 0, false
}
