// Package roster loads the TA roster: who exists and how many hours each TA
// is hired for.
package roster

import (
	"fmt"
	"strconv"

	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/internal/tabular"
)

const (
	colName  = "TA"
	colHours = "Hired for"
)

// Parse reads the roster table. The roster is the authority on which TAs
// exist, so malformed rows are fatal rather than skipped.
func Parse(tbl *tabular.Table, file string) ([]model.TA, error) {
	if err := tbl.Require(file, colName, colHours); err != nil {
		return nil, err
	}
	nameCol, _ := tbl.Col(colName)
	hourCol, _ := tbl.Col(colHours)

	tas := make([]model.TA, 0, len(tbl.Rows))
	seen := make(map[string]int, len(tbl.Rows))
	for i := range tbl.Rows {
		name := tbl.Cell(i, nameCol)
		if name == "" {
			return nil, fmt.Errorf("%s: row %d: empty TA name", file, i+1)
		}
		// Names are the TA identity everywhere downstream; two rows with the
		// same name would silently share one availability row.
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("%s: row %d: duplicate TA %s (already declared on row %d)", file, i+1, name, prev)
		}
		seen[name] = i + 1
		hours, err := strconv.Atoi(tbl.Cell(i, hourCol))
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: invalid hired hours for %s: %w", file, i+1, name, err)
		}
		if hours < 0 {
			return nil, fmt.Errorf("%s: row %d: negative hired hours for %s", file, i+1, name)
		}
		tas = append(tas, model.TA{Name: name, HiredHours: hours})
	}
	return tas, nil
}

// Hours returns a name -> hired hours lookup for the parsed roster.
func Hours(tas []model.TA) map[string]int {
	m := make(map[string]int, len(tas))
	for _, ta := range tas {
		m[ta.Name] = ta.HiredHours
	}
	return m
}
