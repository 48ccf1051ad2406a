// Package tabular loads CSV files into header-indexed tables. The roster,
// responses and requirements inputs all go through it.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Table holds a parsed CSV file: one header row and the remaining records.
type Table struct {
	Headers []string
	Rows    [][]string
	index   map[string]int
}

// SchemaError reports required columns absent from a table.
type SchemaError struct {
	File    string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Missing, ", "))
}

// Read parses CSV data from r. The first record is the header row. Records
// may have fewer fields than the header; lookups on short rows return "".
func Read(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = false
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	t := &Table{Headers: records[0], Rows: records[1:], index: make(map[string]int, len(records[0]))}
	for i, h := range t.Headers {
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
	return t, nil
}

// ReadFile opens and parses the CSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Read(f, path)
}

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Require returns a SchemaError naming every listed column the table lacks.
func (t *Table) Require(file string, names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &SchemaError{File: file, Missing: missing}
	}
	return nil
}

// Cell returns the trimmed value at (row, col), or "" when the row is short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}
