package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/core/solve"
)

// WriteSlotsJSON writes the slot coverage report to w in JSON format.
func WriteSlotsJSON(w io.Writer, rows []solve.SlotRow) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

// WriteTAsJSON writes the TA workload report to w in JSON format.
func WriteTAsJSON(w io.Writer, rows []solve.TARow) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rows)
}

// WriteSlotsCSV writes the slot coverage report to w in CSV format.
func WriteSlotsCSV(w io.Writer, rows []solve.SlotRow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Lab Section", "Day", "Start Time", "End Time", "Duration (hours)",
		"TAs Assigned", "Assigned Count", "Required Count", "Needed",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Section,
			r.Day,
			model.FormatHour12(r.Start),
			model.FormatHour12(r.End),
			strconv.Itoa(r.Duration),
			strings.Join(r.Assigned, "; "),
			strconv.Itoa(r.AssignedCount),
			strconv.Itoa(r.Required),
			strconv.Itoa(r.Needed),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTAsCSV writes the TA workload report to w in CSV format.
func WriteTAsCSV(w io.Writer, rows []solve.TARow) error {
	cw := csv.NewWriter(w)
	header := []string{
		"TA Name", "Hours Assigned", "Remaining hours", "Hours Hired For",
		"Daily Breakdown", "Labs Assigned",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Name,
			strconv.Itoa(r.HoursAssigned),
			strconv.Itoa(r.RemainingHours),
			strconv.Itoa(r.HiredHours),
			formatDaily(r.Daily),
			formatLabs(r.Labs),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDaily(daily []solve.DayHours) string {
	parts := make([]string, len(daily))
	for i, d := range daily {
		parts[i] = fmt.Sprintf("%s: %d", d.Day, d.Hours)
	}
	return strings.Join(parts, "; ")
}

func formatLabs(labs []solve.LabDetail) string {
	parts := make([]string, len(labs))
	for i, l := range labs {
		parts[i] = l.String()
	}
	return strings.Join(parts, "; ")
}
