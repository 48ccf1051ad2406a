package metrics

import "time"

// SolveStats summarizes one solver run for observability purposes.
type SolveStats struct {
	RunID       string
	TAs         int
	Slots       int
	Vars        int
	Constraints int
	Status      string
	Objective   int64
	Shortage    int
	SlotsFilled int
	SolveTime   time.Duration
}

// SlotCoverage is the per-slot staffing outcome of a run.
type SlotCoverage struct {
	RunID    string
	Section  string
	Day      string
	Start    int
	End      int
	Assigned int
	Required int
	Needed   int
	Time     time.Time
}

// MetricsSink records solve outcomes.
type MetricsSink interface {
	RecordSolve(stats SolveStats) error
	RecordSlotCoverage(rows []SlotCoverage) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveStats) error            { return nil }
func (NopSink) RecordSlotCoverage([]SlotCoverage) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordSolve(stats SolveStats) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(stats); err != nil {
			return err
		}
	}
	return nil
}

// RecordSlotCoverage forwards coverage rows to all sinks.
func (m *MultiSink) RecordSlotCoverage(rows []SlotCoverage) error {
	for _, s := range m.Sinks {
		if err := s.RecordSlotCoverage(rows); err != nil {
			return err
		}
	}
	return nil
}
