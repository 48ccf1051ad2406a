// Package catalog validates the lab requirements table and holds the list of
// coverage slots to staff.
package catalog

import (
	"fmt"
	"strconv"

	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/internal/tabular"
)

const (
	colDay      = "Day"
	colStart    = "Start"
	colEnd      = "End"
	colRequired = "Required"
	colSection  = "Lab Section"
)

// Notice records a requirement row dropped during validation. Skips are not
// fatal; they accumulate into the run's warnings.
type Notice struct {
	Row    int
	Reason string
}

func (n Notice) String() string {
	return fmt.Sprintf("requirements row %d skipped: %s", n.Row, n.Reason)
}

// Parse validates the requirements table and returns the surviving slots.
// The four structural columns must exist or the whole file is rejected.
// Slot ids are the source row indices, so ids stay stable across skips.
func Parse(tbl *tabular.Table, file string) ([]model.Slot, []Notice, error) {
	if err := tbl.Require(file, colDay, colStart, colEnd, colRequired); err != nil {
		return nil, nil, err
	}
	dayCol, _ := tbl.Col(colDay)
	startCol, _ := tbl.Col(colStart)
	endCol, _ := tbl.Col(colEnd)
	reqCol, _ := tbl.Col(colRequired)
	sectionCol, hasSection := tbl.Col(colSection)

	var slots []model.Slot
	var notices []Notice
	for i := range tbl.Rows {
		skip := func(reason string) {
			notices = append(notices, Notice{Row: i, Reason: reason})
		}
		required, err := strconv.Atoi(tbl.Cell(i, reqCol))
		if err != nil {
			skip(fmt.Sprintf("invalid required count %q", tbl.Cell(i, reqCol)))
			continue
		}
		if required <= 0 {
			skip("zero required TAs")
			continue
		}
		start, err := strconv.Atoi(tbl.Cell(i, startCol))
		if err != nil {
			skip(fmt.Sprintf("invalid start time %q", tbl.Cell(i, startCol)))
			continue
		}
		end, err := strconv.Atoi(tbl.Cell(i, endCol))
		if err != nil {
			skip(fmt.Sprintf("invalid end time %q", tbl.Cell(i, endCol)))
			continue
		}
		if start >= end {
			skip(fmt.Sprintf("start %d not before end %d", start, end))
			continue
		}
		day := tbl.Cell(i, dayCol)
		if day == "" {
			skip("empty day")
			continue
		}
		section := ""
		if hasSection {
			section = tbl.Cell(i, sectionCol)
		}
		slots = append(slots, model.Slot{
			ID:       i,
			Section:  section,
			Day:      day,
			Start:    start,
			End:      end,
			Required: required,
		})
	}
	return slots, notices, nil
}
