package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/labstaff/core/metrics"
	"github.com/kilianp07/labstaff/infra/logger"
)

// InfluxSink writes solve outcomes to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails, so an unreachable store never blocks
// a run.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSolve writes the run summary as a single point.
func (s *InfluxSink) RecordSolve(stats coremetrics.SolveStats) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve_run").
		AddTag("run_id", stats.RunID).
		AddTag("status", stats.Status).
		AddField("tas", stats.TAs).
		AddField("slots", stats.Slots).
		AddField("vars", stats.Vars).
		AddField("constraints", stats.Constraints).
		AddField("objective", stats.Objective).
		AddField("shortage", stats.Shortage).
		AddField("slots_filled", stats.SlotsFilled).
		AddField("solve_seconds", stats.SolveTime.Seconds()).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSlotCoverage writes one point per slot.
func (s *InfluxSink) RecordSlotCoverage(rows []coremetrics.SlotCoverage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range rows {
		ts := r.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		p := write.NewPointWithMeasurement("slot_coverage").
			AddTag("run_id", r.RunID).
			AddTag("section", r.Section).
			AddTag("day", r.Day).
			AddTag("start", strconv.Itoa(r.Start)).
			AddField("end", r.End).
			AddField("assigned", r.Assigned).
			AddField("required", r.Required).
			AddField("needed", r.Needed).
			SetTime(ts)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
