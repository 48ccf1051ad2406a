package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/labstaff/config"
	"github.com/kilianp07/labstaff/core/availability"
	"github.com/kilianp07/labstaff/core/catalog"
	coremetrics "github.com/kilianp07/labstaff/core/metrics"
	"github.com/kilianp07/labstaff/core/model"
	"github.com/kilianp07/labstaff/core/roster"
	"github.com/kilianp07/labstaff/core/solve"
	"github.com/kilianp07/labstaff/infra/logger"
	"github.com/kilianp07/labstaff/infra/metrics"
	"github.com/kilianp07/labstaff/infra/solver"
	"github.com/kilianp07/labstaff/internal/eventbus"
	"github.com/kilianp07/labstaff/internal/tabular"
	"github.com/kilianp07/labstaff/pkg/export"
)

// Service orchestrates one scheduling run from input files to reports.
type Service struct {
	cfg     *config.Config
	log     logger.Logger
	sink    coremetrics.MetricsSink
	backend solve.Backend
	bus     *eventbus.Bus[solver.Progress]
}

// Inputs holds the normalized inputs of a run together with the non-fatal
// warnings accumulated while reading them.
type Inputs struct {
	TAs      []model.TA
	Matrix   *availability.Matrix
	Slots    []model.Slot
	Warnings []string
}

// Result summarizes a completed run.
type Result struct {
	RunID     string
	Status    solve.Status
	Objective int64
	Shortage  int
	SolveTime time.Duration
	Slots     []solve.SlotRow
	TAs       []solve.TARow
	Warnings  []string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if cfg.Logging.Level != "" {
		if err := logger.SetLevel(cfg.Logging.Level); err != nil {
			return nil, err
		}
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	bus := eventbus.New[solver.Progress]()
	return &Service{
		cfg:     cfg,
		log:     logger.New("service"),
		sink:    sink,
		backend: solver.New(logger.New("solver"), bus),
		bus:     bus,
	}, nil
}

// LoadInputs reads and normalizes the three input files without solving.
// Fatal input defects return an error; recoverable ones are collected as
// warnings.
func (s *Service) LoadInputs() (*Inputs, error) {
	rosterTbl, err := tabular.ReadFile(s.cfg.Inputs.Roster)
	if err != nil {
		return nil, err
	}
	tas, err := roster.Parse(rosterTbl, filepath.Base(s.cfg.Inputs.Roster))
	if err != nil {
		return nil, err
	}

	availTbl, err := tabular.ReadFile(s.cfg.Inputs.Availability)
	if err != nil {
		return nil, err
	}
	matrix, missing, err := availability.Normalize(availTbl, filepath.Base(s.cfg.Inputs.Availability), tas)
	if err != nil {
		return nil, err
	}

	slotsTbl, err := tabular.ReadFile(s.cfg.Inputs.Slots)
	if err != nil {
		return nil, err
	}
	slots, notices, err := catalog.Parse(slotsTbl, filepath.Base(s.cfg.Inputs.Slots))
	if err != nil {
		return nil, err
	}

	in := &Inputs{TAs: tas, Matrix: matrix, Slots: slots}
	for _, name := range missing {
		in.Warnings = append(in.Warnings,
			fmt.Sprintf("TA %q has no availability data and will not be scheduled", name))
	}
	for _, n := range notices {
		in.Warnings = append(in.Warnings,
			fmt.Sprintf("%s row %d skipped: %s", filepath.Base(s.cfg.Inputs.Slots), n.Row, n.Reason))
	}
	for _, w := range in.Warnings {
		s.log.Warnf("%s", w)
	}
	return in, nil
}

// Run executes one full scheduling run and writes the reports.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	s.log.Infof("run %s starting", runID)

	in, err := s.LoadInputs()
	if err != nil {
		return nil, err
	}
	m, err := solve.Build(in.TAs, in.Matrix, in.Slots, s.cfg.Solve.Caps)
	if err != nil {
		return nil, err
	}
	s.log.Infof("model built: %d TAs, %d slots, %d variables, %d constraints",
		len(m.TAs), len(m.Slots), len(m.Vars), len(m.Cons))

	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	sub := s.bus.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range sub {
			s.log.Infof("incumbent objective=%d after %d solutions", p.Objective, p.Solutions)
		}
	}()

	start := time.Now()
	sol, err := s.backend.Solve(ctx, m, s.cfg.Solve.Solver)
	elapsed := time.Since(start)
	s.bus.Unsubscribe(sub)
	<-done
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	switch sol.Status {
	case solve.StatusInvalid:
		return nil, fmt.Errorf("solver rejected the model")
	case solve.StatusInfeasible:
		return nil, fmt.Errorf("no assignment satisfies the scheduling constraints")
	}

	slotRows, taRows, err := solve.Interpret(m, sol, in.TAs)
	if err != nil {
		return nil, err
	}
	res := &Result{
		RunID:     runID,
		Status:    sol.Status,
		Objective: sol.Objective,
		SolveTime: elapsed,
		Slots:     slotRows,
		TAs:       taRows,
		Warnings:  in.Warnings,
	}
	for _, r := range slotRows {
		res.Shortage += r.Needed
	}

	if err := s.writeReports(res); err != nil {
		return nil, err
	}
	s.record(m, res)
	if err := s.appendRunLog(res); err != nil {
		s.log.Errorf("run log: %v", err)
	}
	s.log.Infof("run %s %s: objective=%d shortage=%d in %s",
		runID, res.Status, res.Objective, res.Shortage, elapsed.Round(time.Millisecond))
	return res, nil
}

func (s *Service) writeReports(res *Result) error {
	dir := s.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	ext := s.cfg.Output.Format
	write := func(name string, fn func(w *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name+"."+ext))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	if ext == "json" {
		if err := write("slots", func(f *os.File) error { return export.WriteSlotsJSON(f, res.Slots) }); err != nil {
			return err
		}
		return write("tas", func(f *os.File) error { return export.WriteTAsJSON(f, res.TAs) })
	}
	if err := write("slots", func(f *os.File) error { return export.WriteSlotsCSV(f, res.Slots) }); err != nil {
		return err
	}
	return write("tas", func(f *os.File) error { return export.WriteTAsCSV(f, res.TAs) })
}

func (s *Service) record(m *solve.Model, res *Result) {
	filled := 0
	coverage := make([]coremetrics.SlotCoverage, 0, len(res.Slots))
	now := time.Now()
	for _, r := range res.Slots {
		if r.Needed == 0 {
			filled++
		}
		coverage = append(coverage, coremetrics.SlotCoverage{
			RunID:    res.RunID,
			Section:  r.Section,
			Day:      r.Day,
			Start:    r.Start,
			End:      r.End,
			Assigned: r.AssignedCount,
			Required: r.Required,
			Needed:   r.Needed,
			Time:     now,
		})
	}
	stats := coremetrics.SolveStats{
		RunID:       res.RunID,
		TAs:         len(m.TAs),
		Slots:       len(m.Slots),
		Vars:        len(m.Vars),
		Constraints: len(m.Cons),
		Status:      res.Status.String(),
		Objective:   res.Objective,
		Shortage:    res.Shortage,
		SlotsFilled: filled,
		SolveTime:   res.SolveTime,
	}
	if err := s.sink.RecordSolve(stats); err != nil {
		s.log.Errorf("record solve: %v", err)
	}
	if err := s.sink.RecordSlotCoverage(coverage); err != nil {
		s.log.Errorf("record coverage: %v", err)
	}
}

// appendRunLog adds one JSON line per run when a run log path is configured.
func (s *Service) appendRunLog(res *Result) error {
	path := s.cfg.Logging.RunLog
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	line := map[string]any{
		"run_id":     res.RunID,
		"time":       time.Now().Format(time.RFC3339),
		"status":     res.Status.String(),
		"objective":  res.Objective,
		"shortage":   res.Shortage,
		"solve_ms":   res.SolveTime.Milliseconds(),
		"warnings":   len(res.Warnings),
		"slots":      len(res.Slots),
		"tas":        len(res.TAs),
	}
	return json.NewEncoder(f).Encode(line)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
