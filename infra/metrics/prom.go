package metrics

import (
	coremetrics "github.com/kilianp07/labstaff/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records solve outcomes in Prometheus metrics.
type PromSink struct {
	runs      *prometheus.CounterVec
	objective prometheus.Gauge
	shortage  prometheus.Gauge
	duration  prometheus.Histogram
	coverage  *prometheus.GaugeVec
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solve_runs_total",
		Help: "Total number of solver runs by final status",
	}, []string{"status"})
	objective := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solve_objective",
		Help: "Objective value of the last solver run",
	})
	shortage := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solve_shortage_total",
		Help: "Unmet headcount across all slots in the last run",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solve_duration_seconds",
		Help:    "Wall-clock time spent in the solving backend",
		Buckets: prometheus.DefBuckets,
	})
	coverage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slot_needed_tas",
		Help: "Unmet headcount per slot in the last run",
	}, []string{"section", "day"})

	s := &PromSink{runs: runs, objective: objective, shortage: shortage, duration: duration, coverage: coverage}
	for _, c := range []prometheus.Collector{runs, objective, shortage, duration, coverage} {
		if err := register(reg, c, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector, s *PromSink) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return err
	}
	switch existing := are.ExistingCollector.(type) {
	case *prometheus.CounterVec:
		s.runs = existing
	case *prometheus.GaugeVec:
		s.coverage = existing
	case prometheus.Gauge:
		// Both plain gauges share a type; match on the duplicate name.
		if c == prometheus.Collector(s.objective) {
			s.objective = existing
		} else {
			s.shortage = existing
		}
	case prometheus.Histogram:
		s.duration = existing
	}
	return nil
}

// RecordSolve updates the run counters and gauges.
func (s *PromSink) RecordSolve(stats coremetrics.SolveStats) error {
	s.runs.WithLabelValues(stats.Status).Inc()
	s.objective.Set(float64(stats.Objective))
	s.shortage.Set(float64(stats.Shortage))
	s.duration.Observe(stats.SolveTime.Seconds())
	return nil
}

// RecordSlotCoverage sets the per-slot shortage gauges.
func (s *PromSink) RecordSlotCoverage(rows []coremetrics.SlotCoverage) error {
	for _, r := range rows {
		s.coverage.WithLabelValues(r.Section, r.Day).Set(float64(r.Needed))
	}
	return nil
}
